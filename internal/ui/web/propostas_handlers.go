package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/utils"
)

const urlPropostasAtual = "/propostas/atual"

// urlSemTela é para onde vai quem chega sem a tela montada. Com o cliente
// vindo da rota não há como saber qual era, então volta ao início.
func (s *Server) urlSemTela() string {
	if s.cfg.PropostasClienteSource == core.ClienteSourceParam {
		return "/"
	}
	return "/propostas"
}

func (s *Server) montarPropostas(w http.ResponseWriter, r *http.Request) {
	if s.cfg.PropostasClienteSource == core.ClienteSourceParam {
		s.renderErro(w, r, http.StatusNotFound, "Informe o cliente em /propostas/cliente/{id}.")
		return
	}
	telasFrom(r).Propostas.Mount(r.Context(), s.cfg.ClienteID)
	s.renderPropostas(w, r)
}

// montarPropostasCliente monta a tela para o cliente da rota. Um id diferente
// do montado é uma nova montagem.
func (s *Server) montarPropostasCliente(w http.ResponseWriter, r *http.Request) {
	if s.cfg.PropostasClienteSource != core.ClienteSourceParam {
		http.Redirect(w, r, "/propostas", http.StatusFound)
		return
	}
	clienteID, err := utils.ParseID(mux.Vars(r)["clienteId"])
	if err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "Cliente inválido.")
		return
	}
	telasFrom(r).Propostas.Mount(r.Context(), clienteID)
	s.renderPropostas(w, r)
}

func (s *Server) propostasAtual(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).Propostas
	if !page.Mounted() {
		http.Redirect(w, r, s.urlSemTela(), http.StatusFound)
		return
	}
	s.renderPropostas(w, r)
}

func (s *Server) renderPropostas(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).Propostas
	if !page.Wait(r.Context(), s.cfg.UILoadWait) {
		s.renderCarregando(w, r, urlPropostasAtual)
		return
	}
	s.views.render(w, r, http.StatusOK, "propostas.html", map[string]any{"View": page.View()})
}

// enviarProposta envia o formulário e renderiza a própria instância.
func (s *Server) enviarProposta(w http.ResponseWriter, r *http.Request) {
	page := telasFrom(r).Propostas
	if !page.Mounted() {
		http.Redirect(w, r, s.urlSemTela(), http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	form := models.PropostaForm{
		ProdutoID: r.PostFormValue("produtoId"),
		Preco:     r.PostFormValue("preco"),
		Descricao: r.PostFormValue("descricao"),
	}
	_, _ = page.Submit(r.Context(), form)
	s.renderPropostas(w, r)
}

func (s *Server) confirmarExclusaoProposta(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "ID inválido.")
		return
	}
	proposta, ok := telasFrom(r).Propostas.Proposta(id)
	if !ok {
		http.Redirect(w, r, urlPropostasAtual, http.StatusFound)
		return
	}
	s.views.render(w, r, http.StatusOK, "confirmar.html", map[string]any{
		"Titulo":   "Excluir proposta",
		"Mensagem": fmt.Sprintf("Confirma a exclusão da proposta %d (%s)?", proposta.ID, Moeda(proposta.Preco)),
		"Acao":     fmt.Sprintf("/propostas/%d/excluir", id),
		"Voltar":   urlPropostasAtual,
	})
}

func (s *Server) excluirProposta(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "ID inválido.")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderErro(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	page := telasFrom(r).Propostas
	if err := page.Delete(r.Context(), id, r.PostFormValue("confirmar") == "sim"); err != nil && !page.Mounted() {
		http.Redirect(w, r, s.urlSemTela(), http.StatusSeeOther)
		return
	}
	redirectSeeOther(w, r, urlPropostasAtual)
}
