package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/utils"
)

const (
	urlProdutos      = "/produtos"
	urlProdutosAtual = "/produtos/atual"
	urlNovoProduto   = "/produtos/novo"
	urlNovoAtual     = "/produtos/novo/atual"
)

// montarProdutos monta uma nova instância da lista (uma busca) e a renderiza.
func (s *Server) montarProdutos(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).Produtos
	page.Mount(r.Context())
	s.renderProdutos(w, r)
}

// produtosAtual renderiza a instância montada sem buscar de novo.
func (s *Server) produtosAtual(w http.ResponseWriter, r *http.Request) {
	if !telasFrom(r).Produtos.Mounted() {
		http.Redirect(w, r, urlProdutos, http.StatusFound)
		return
	}
	s.renderProdutos(w, r)
}

func (s *Server) renderProdutos(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).Produtos
	if !page.Wait(r.Context(), s.cfg.UILoadWait) {
		s.renderCarregando(w, r, urlProdutosAtual)
		return
	}
	s.views.render(w, r, http.StatusOK, "produtos.html", map[string]any{"View": page.View()})
}

func (s *Server) confirmarExclusaoProduto(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "ID inválido.")
		return
	}
	produto, ok := telasFrom(r).Produtos.Produto(id)
	if !ok {
		http.Redirect(w, r, urlProdutosAtual, http.StatusFound)
		return
	}
	s.views.render(w, r, http.StatusOK, "confirmar.html", map[string]any{
		"Titulo":   "Excluir produto",
		"Mensagem": fmt.Sprintf("Confirma a exclusão do produto %s (ID %d)?", produto.Modelo, produto.ID),
		"Acao":     fmt.Sprintf("/produtos/%d/excluir", id),
		"Voltar":   urlProdutosAtual,
	})
}

func (s *Server) excluirProduto(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "ID inválido.")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	page := telasFrom(r).Produtos
	err = page.Delete(r.Context(), id, r.PostFormValue("confirmar") == "sim")
	if err != nil && !page.Mounted() {
		http.Redirect(w, r, urlProdutos, http.StatusSeeOther)
		return
	}
	redirectSeeOther(w, r, urlProdutosAtual)
}

func (s *Server) destacarProduto(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "ID inválido.")
		return
	}
	page := telasFrom(r).Produtos
	if err := page.ToggleDestaque(r.Context(), id); err != nil && !page.Mounted() {
		http.Redirect(w, r, urlProdutos, http.StatusSeeOther)
		return
	}
	redirectSeeOther(w, r, urlProdutosAtual)
}

// exportarProdutos exporta a cópia local da lista montada, sem nova busca.
func (s *Server) exportarProdutos(w http.ResponseWriter, r *http.Request) {
	formato := strings.ToLower(r.URL.Query().Get("formato"))
	if formato == "" {
		formato = utils.FormatoXLSX
	}
	page := telasFrom(r).Produtos
	if !page.Mounted() {
		http.Redirect(w, r, urlProdutos, http.StatusFound)
		return
	}
	produtos := page.Produtos()

	var buf bytes.Buffer
	if err := utils.Write(&buf, utils.ProdutosTabela(produtos), formato); err != nil {
		if errors.Is(err, appErrors.ErrInvalidInput) {
			s.renderErro(w, r, http.StatusBadRequest, "Formato de exportação desconhecido.")
			return
		}
		appLogger.Errorf("Erro ao exportar produtos: %v", err)
		s.renderErro(w, r, http.StatusInternalServerError, "Erro ao exportar produtos.")
		return
	}

	services.LogAudit(r.Context(), s.audit, models.AuditLogEntry{
		Action:      models.AcaoProdutosExportado,
		Description: fmt.Sprintf("%d produtos exportados em %s.", len(produtos), strings.ToUpper(formato)),
		Severity:    "INFO",
		Metadata:    models.JSONMetadata{"formato": formato, "linhas": len(produtos)},
	})

	contentType := "text/csv; charset=utf-8"
	if formato == utils.FormatoXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="produtos.%s"`, formato))
	_, _ = buf.WriteTo(w)
}

func (s *Server) montarNovoProduto(w http.ResponseWriter, r *http.Request) {
	telasFrom(r).NovoProduto.Mount(r.Context())
	s.renderNovoProduto(w, r)
}

func (s *Server) novoProdutoAtual(w http.ResponseWriter, r *http.Request) {
	if !telasFrom(r).NovoProduto.Mounted() {
		http.Redirect(w, r, urlNovoProduto, http.StatusFound)
		return
	}
	s.renderNovoProduto(w, r)
}

// cadastrarProduto envia o formulário e renderiza a própria instância, preservando
// os valores digitados em caso de falha.
func (s *Server) cadastrarProduto(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).NovoProduto
	if !page.Mounted() {
		http.Redirect(w, r, urlNovoProduto, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	form := models.ProdutoForm{
		Modelo:     r.PostFormValue("modelo"),
		MarcaID:    r.PostFormValue("marcaId"),
		Ano:        r.PostFormValue("ano"),
		Acessorios: r.PostFormValue("acessorios"),
		Foto:       r.PostFormValue("foto"),
		Preco:      r.PostFormValue("preco"),
	}
	_, _ = page.Submit(r.Context(), form)
	s.renderNovoProduto(w, r)
}

func (s *Server) renderNovoProduto(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).NovoProduto
	if !page.Wait(r.Context(), s.cfg.UILoadWait) {
		s.renderCarregando(w, r, urlNovoAtual)
		return
	}
	s.views.render(w, r, http.StatusOK, "novo_produto.html", map[string]any{"View": page.View()})
}
