package ui

import (
	"context"
	"errors"
	"fmt"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
)

const (
	msgProdutoCadastrado = "Produto cadastrado com sucesso!"
	msgErroBuscarMarcas  = "Erro ao buscar marcas. Tente novamente mais tarde."
	chaveCadastrar       = "cadastrar"
)

// mensagemFalha traduz as três classes de falha de uma submissão para o aviso da tela.
func mensagemFalha(err error, prefixo string) string {
	var ve *appErrors.ValidationError
	if errors.As(err, &ve) {
		return appErrors.UserMessage(err, "Dados inválidos.")
	}
	var ae *appErrors.APIError
	if errors.As(err, &ae) {
		return ae.MessageOr(fmt.Sprintf("%s Status: %d", prefixo, ae.Status))
	}
	return appErrors.UserMessage(err, prefixo)
}

// camposInvalidos extrai os erros por campo de uma falha de validação.
func camposInvalidos(err error) map[string]string {
	var ve *appErrors.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		out := make(map[string]string, len(ve.Fields))
		for k, v := range ve.Fields {
			out[k] = v
		}
		return out
	}
	return nil
}

// NovoProdutoView é o retrato do formulário de cadastro.
type NovoProdutoView struct {
	LoadView
	Marcas   []models.Marca
	Form     models.ProdutoForm
	Erros    map[string]string
	Notice   *Notice
	Enviando bool
}

// NovoProdutoPage é o formulário de cadastro de produto.
type NovoProdutoPage struct {
	Screen
	produtoService services.ProdutoService
	marcaService   services.MarcaService

	marcas Lista[models.Marca]
	form   models.ProdutoForm
	erros  map[string]string
}

// NewNovoProdutoPage cria o formulário.
func NewNovoProdutoPage(produtoService services.ProdutoService, marcaService services.MarcaService) *NovoProdutoPage {
	if produtoService == nil || marcaService == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewNovoProdutoPage")
	}
	return &NovoProdutoPage{produtoService: produtoService, marcaService: marcaService}
}

// Mount limpa o formulário e busca as marcas uma única vez.
func (p *NovoProdutoPage) Mount(ctx context.Context) {
	p.mu.Lock()
	gen := p.beginMount()
	p.marcas.Clear()
	p.form = models.ProdutoForm{}
	p.erros = nil
	p.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		marcas, err := p.marcaService.ListMarcas(bg)
		p.Execute(gen, func() {
			if err != nil {
				appLogger.Errorf("Erro ao buscar marcas para NovoProdutoPage: %v", err)
				p.setNotice(NoticeError, msgErroBuscarMarcas)
				p.finishLoad(msgErroBuscarMarcas)
				return
			}
			p.marcas.Replace(marcas)
			p.finishLoad("")
		})
	}()
}

// View devolve o retrato atual e consome o aviso pendente.
func (p *NovoProdutoPage) View() NovoProdutoView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return NovoProdutoView{
		LoadView: p.loadView(),
		Marcas:   p.marcas.Items(),
		Form:     p.form,
		Erros:    p.erros,
		Notice:   p.takeNotice(),
		Enviando: p.actions[chaveCadastrar] == ActionPending,
	}
}

// Submit valida e envia o formulário. Em sucesso o formulário é limpo; em
// qualquer falha os valores digitados são mantidos.
func (p *NovoProdutoPage) Submit(ctx context.Context, form models.ProdutoForm) (*models.Produto, error) {
	gen, err := p.startAction(chaveCadastrar)
	if err != nil {
		return nil, err
	}

	criado, opErr := p.produtoService.CreateProduto(context.WithoutCancel(ctx), form)

	p.Execute(gen, func() {
		p.settleAction(chaveCadastrar, opErr == nil)
		if opErr != nil {
			p.form = form
			p.erros = camposInvalidos(opErr)
			p.setNotice(NoticeError, mensagemFalha(opErr, "Erro ao cadastrar o produto."))
			return
		}
		p.form = models.ProdutoForm{}
		p.erros = nil
		p.setNotice(NoticeSuccess, msgProdutoCadastrado)
	})
	if opErr != nil {
		appLogger.Warnf("Falha ao cadastrar produto: %v", opErr)
	}
	return criado, opErr
}
