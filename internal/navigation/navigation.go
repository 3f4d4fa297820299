package navigation

import (
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
)

// PageID define um identificador único para cada tela do painel.
type PageID int

const (
	PageNone PageID = iota
	PageProdutos
	PageNovoProduto
	PagePropostas
	PageAuditoria
)

func (id PageID) String() string {
	switch id {
	case PageProdutos:
		return "produtos"
	case PageNovoProduto:
		return "novo_produto"
	case PagePropostas:
		return "propostas"
	case PageAuditoria:
		return "auditoria"
	default:
		return "nenhuma"
	}
}

// Item é uma entrada do menu do painel.
type Item struct {
	ID     PageID
	Titulo string
	Path   string
}

// Menu devolve as entradas do menu na ordem de exibição. Com o cliente vindo
// da rota, a tela de propostas só é alcançável por /propostas/cliente/{id}
// e fica fora do menu.
func Menu(cfg *core.Config) []Item {
	items := []Item{
		{ID: PageProdutos, Titulo: "Produtos", Path: "/produtos"},
		{ID: PageNovoProduto, Titulo: "Novo produto", Path: "/produtos/novo"},
	}
	if cfg.PropostasClienteSource != core.ClienteSourceParam {
		items = append(items, Item{ID: PagePropostas, Titulo: "Propostas", Path: "/propostas"})
	}
	if cfg.AuditEnabled {
		items = append(items, Item{ID: PageAuditoria, Titulo: "Auditoria", Path: "/auditoria"})
	}
	return items
}
