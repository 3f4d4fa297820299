package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/auth"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/ui"
)

// Server expõe as telas do painel por HTTP.
type Server struct {
	cfg      *core.Config
	sessions *auth.SessionManager[*ui.Telas]
	audit    services.AuditLogService
	views    *renderer
	router   *mux.Router
}

// NewServer monta o roteador com todas as rotas do painel.
func NewServer(cfg *core.Config, sessions *auth.SessionManager[*ui.Telas], audit services.AuditLogService) (*Server, error) {
	if cfg == nil || sessions == nil || audit == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewServer")
	}
	views, err := newRenderer(cfg)
	if err != nil {
		return nil, core.WrapErrorf(core.ErrInternal, "%v", err)
	}
	s := &Server{cfg: cfg, sessions: sessions, audit: audit, views: views, router: mux.NewRouter()}
	s.routes()
	return s, nil
}

// Handler devolve o http.Handler raiz.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := s.router
	r.Use(logRequests)

	r.HandleFunc("/healthz", s.healthz).Methods("GET")

	pages := r.NewRoute().Subrouter()
	pages.Use(s.withToken, s.withSession)

	pages.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/produtos", http.StatusFound)
	}).Methods("GET")

	// Produtos
	pages.HandleFunc("/produtos", s.montarProdutos).Methods("GET")
	pages.HandleFunc("/produtos/atual", s.produtosAtual).Methods("GET")
	pages.HandleFunc("/produtos/exportar", s.exportarProdutos).Methods("GET")
	pages.HandleFunc("/produtos/novo", s.montarNovoProduto).Methods("GET")
	pages.HandleFunc("/produtos/novo", s.cadastrarProduto).Methods("POST")
	pages.HandleFunc("/produtos/novo/atual", s.novoProdutoAtual).Methods("GET")
	pages.HandleFunc("/produtos/{id:[0-9]+}/excluir", s.confirmarExclusaoProduto).Methods("GET")
	pages.HandleFunc("/produtos/{id:[0-9]+}/excluir", s.excluirProduto).Methods("POST")
	pages.HandleFunc("/produtos/{id:[0-9]+}/destacar", s.destacarProduto).Methods("POST")

	// Propostas
	pages.HandleFunc("/propostas", s.montarPropostas).Methods("GET")
	pages.HandleFunc("/propostas/cliente/{clienteId}", s.montarPropostasCliente).Methods("GET")
	pages.HandleFunc("/propostas/atual", s.propostasAtual).Methods("GET")
	pages.HandleFunc("/propostas", s.enviarProposta).Methods("POST")
	pages.HandleFunc("/propostas/{id:[0-9]+}/excluir", s.confirmarExclusaoProposta).Methods("GET")
	pages.HandleFunc("/propostas/{id:[0-9]+}/excluir", s.excluirProposta).Methods("POST")

	pages.HandleFunc("/auditoria", s.auditoria).Methods("GET")
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"versao":  s.cfg.AppVersion,
		"sessoes": s.sessions.Count(),
	})
}

func (s *Server) auditoria(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Habilitada": s.audit.Enabled()}
	if !s.audit.Enabled() {
		s.views.render(w, r, http.StatusOK, "auditoria.html", data)
		return
	}

	q := r.URL.Query()
	filter := models.AuditLogFilter{Action: q.Get("acao"), Actor: q.Get("autor")}
	if l, err := strconv.Atoi(q.Get("limite")); err == nil {
		filter.Limit = l
	}
	entries, total, err := s.audit.GetAuditLogs(r.Context(), filter)
	if err != nil {
		appLogger.Errorf("Erro ao consultar auditoria: %v", err)
		data["Erro"] = "Erro ao consultar a auditoria."
	}
	data["Entradas"] = entries
	data["Total"] = total
	data["Filtro"] = filter
	s.views.render(w, r, http.StatusOK, "auditoria.html", data)
}

// renderErro mostra uma página simples de erro dentro do layout.
func (s *Server) renderErro(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.views.render(w, r, status, "erro.html", map[string]any{"Mensagem": msg})
}

// renderCarregando mostra o indicador de carregamento que recarrega a instância atual.
func (s *Server) renderCarregando(w http.ResponseWriter, r *http.Request, atual string) {
	s.views.render(w, r, http.StatusOK, "carregando.html", map[string]any{"Recarregar": atual})
}

// redirectSeeOther conclui um POST voltando para a instância atual da tela.
func redirectSeeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
