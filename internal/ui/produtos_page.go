package ui

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
)

const (
	msgProdutoExcluido    = "Produto excluído com sucesso"
	msgProdutoNaoExcluido = "Erro... Produto não foi excluído"
	msgErroCarregarProd   = "Erro ao carregar produtos. Tente novamente mais tarde."
)

// ProdutosView é o retrato da tela de produtos usado na renderização.
type ProdutosView struct {
	LoadView
	Produtos  []models.Produto
	Notice    *Notice
	Pendentes map[string]bool
}

// Vazia indica a lista carregada com sucesso e sem itens.
func (v ProdutosView) Vazia() bool {
	return v.Loaded && len(v.Produtos) == 0
}

// ProdutosPage é a tela de listagem de produtos com exclusão e destaque por linha.
type ProdutosPage struct {
	Screen
	produtoService services.ProdutoService
	produtos       Lista[models.Produto]
}

// NewProdutosPage cria a tela. Nada é buscado até Mount.
func NewProdutosPage(produtoService services.ProdutoService) *ProdutosPage {
	if produtoService == nil {
		appLogger.Fatalf("ProdutoService não pode ser nil para NewProdutosPage")
	}
	return &ProdutosPage{produtoService: produtoService}
}

// Mount inicia uma nova montagem e dispara exatamente uma busca de produtos.
func (p *ProdutosPage) Mount(ctx context.Context) {
	p.mu.Lock()
	gen := p.beginMount()
	p.produtos.Clear()
	p.mu.Unlock()

	appLogger.WithComponent("produtos").Debugf("Montando tela (geração %d)", gen)

	bg := context.WithoutCancel(ctx)
	go func() {
		produtos, err := p.produtoService.ListProdutos(bg)

		applied := p.Execute(gen, func() {
			if err != nil {
				appLogger.Errorf("Erro ao carregar produtos para ProdutosPage: %v", err)
				p.produtos.Clear()
				p.finishLoad(msgErroCarregarProd)
				return
			}
			p.produtos.Replace(produtos)
			p.finishLoad("")
		})
		if !applied {
			appLogger.WithComponent("produtos").Debugf("Resultado da geração %d descartado", gen)
		}
	}()
}

// View devolve o retrato atual e consome o aviso pendente.
func (p *ProdutosPage) View() ProdutosView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProdutosView{
		LoadView:  p.loadView(),
		Produtos:  p.produtos.Items(),
		Notice:    p.takeNotice(),
		Pendentes: p.pendingKeys(),
	}
}

// Produtos devolve a cópia local da lista montada.
func (p *ProdutosPage) Produtos() []models.Produto {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.produtos.Items()
}

// Produto devolve um produto da lista local.
func (p *ProdutosPage) Produto(id int) (models.Produto, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.produtos.Get(id)
}

func chaveExcluir(id int) string  { return fmt.Sprintf("excluir:%d", id) }
func chaveDestacar(id int) string { return fmt.Sprintf("destacar:%d", id) }

// Delete exclui o produto. Sem confirmação nenhuma requisição é feita.
// Sucesso remove exatamente esse id da lista local; falha deixa a lista intacta.
func (p *ProdutosPage) Delete(ctx context.Context, id int, confirmado bool) error {
	if !confirmado {
		return appErrors.ErrNotConfirmed
	}
	key := chaveExcluir(id)
	gen, err := p.startAction(key)
	if err != nil {
		return err
	}

	opErr := p.produtoService.DeleteProduto(context.WithoutCancel(ctx), id)

	p.Execute(gen, func() {
		p.settleAction(key, opErr == nil)
		if opErr != nil {
			p.setNotice(NoticeError, msgProdutoNaoExcluido)
			return
		}
		p.produtos.Remove(id)
		p.setNotice(NoticeSuccess, msgProdutoExcluido)
	})
	return opErr
}

// ToggleDestaque inverte o destaque. Falhas só vão para o log.
func (p *ProdutosPage) ToggleDestaque(ctx context.Context, id int) error {
	key := chaveDestacar(id)
	gen, err := p.startAction(key)
	if err != nil {
		return err
	}

	opErr := p.produtoService.ToggleDestaque(context.WithoutCancel(ctx), id)

	p.Execute(gen, func() {
		p.settleAction(key, opErr == nil)
		if opErr != nil {
			return
		}
		p.produtos.Patch(id, func(prod *models.Produto) { prod.Destaque = !prod.Destaque })
	})
	if opErr != nil {
		appLogger.WithFields(logrus.Fields{"componente": "produtos", "produto": id}).
			Warnf("Falha ao alterar destaque: %v", opErr)
	}
	return opErr
}
