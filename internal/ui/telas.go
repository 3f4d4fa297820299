package ui

import (
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
)

// Telas agrupa as instâncias de tela de uma sessão de navegador.
type Telas struct {
	Produtos    *ProdutosPage
	NovoProduto *NovoProdutoPage
	Propostas   *PropostasPage
}

// Services são as dependências compartilhadas pelas telas.
type Services struct {
	Produtos  services.ProdutoService
	Marcas    services.MarcaService
	Propostas services.PropostaService
}

// NewTelasFactory devolve o construtor de Telas usado pelo gerenciador de sessões.
func NewTelasFactory(svcs Services, opts PropostasOptions) func() *Telas {
	return func() *Telas {
		return &Telas{
			Produtos:    NewProdutosPage(svcs.Produtos),
			NovoProduto: NewNovoProdutoPage(svcs.Produtos, svcs.Marcas),
			Propostas:   NewPropostasPage(svcs.Propostas, opts),
		}
	}
}

// ReleaseTelas desmonta todas as telas; resultados em voo passam a ser descartados.
func ReleaseTelas(t *Telas) {
	if t == nil {
		return
	}
	t.Produtos.Unmount()
	t.NovoProduto.Unmount()
	t.Propostas.Unmount()
}
