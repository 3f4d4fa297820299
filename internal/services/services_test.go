package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/apiclient"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/auth"
	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/repositories"
)

type recorded struct {
	Method, Path, Auth, Body string
}

// fakeAPI grava as requisições e responde com o handler informado.
type fakeAPI struct {
	mu   sync.Mutex
	reqs []recorded
	srv  *httptest.Server
}

func newFakeAPI(t *testing.T, h http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.reqs = append(f.reqs, recorded{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(body)})
		f.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.reqs...)
}

func setupAudit(t *testing.T) (AuditLogService, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLogEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAuditLogService(repositories.NewGormAuditLogRepository(db)), db
}

func civicForm() models.ProdutoForm {
	return models.ProdutoForm{
		Modelo: "Civic", MarcaID: "3", Ano: "2020", Acessorios: "ar",
		Foto: "https://x.com/a.jpg", Preco: "95000.50",
	}
}

func TestCreateProdutoSendsNumericBody(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":10,"modelo":"Civic","marcaId":3,"ano":2020,"preco":"95000.50","destaque":false}`))
	})
	audit, db := setupAudit(t)
	svc := NewProdutoService(repositories.NewAPIProdutoRepository(apiclient.NewClient(api.srv.URL, 0)), audit)

	ctx := apiclient.WithToken(context.Background(), "tok")
	ctx = auth.WithActor(ctx, auth.Actor{Nome: "Marina", TokenFingerprint: auth.Fingerprint("tok")})
	criado, err := svc.CreateProduto(ctx, civicForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if criado.ID != 10 {
		t.Errorf("expected id 10 got %d", criado.ID)
	}

	reqs := api.requests()
	if len(reqs) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(reqs))
	}
	want := `{"modelo":"Civic","marcaId":3,"ano":2020,"acessorios":"ar","foto":"https://x.com/a.jpg","preco":95000.5}`
	if reqs[0].Body != want {
		t.Errorf("unexpected body\n got: %s\nwant: %s", reqs[0].Body, want)
	}
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/produtos" || reqs[0].Auth != "Bearer tok" {
		t.Errorf("unexpected request %+v", reqs[0])
	}

	var entry models.AuditLogEntry
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("audit entry: %v", err)
	}
	if entry.Action != models.AcaoProdutoCriado || entry.Actor != "Marina" {
		t.Errorf("unexpected audit entry %+v", entry)
	}
	if entry.TokenFingerprint == nil || *entry.TokenFingerprint != auth.Fingerprint("tok") {
		t.Errorf("expected token fingerprint in audit")
	}
}

func TestCreateProdutoInvalidFotoSendsNothing(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewProdutoService(repositories.NewAPIProdutoRepository(apiclient.NewClient(api.srv.URL, 0)), NewDisabledAuditLogService())

	form := civicForm()
	form.Foto = "not a url"
	_, err := svc.CreateProduto(context.Background(), form)
	if !errors.Is(err, appErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := len(api.requests()); n != 0 {
		t.Fatalf("expected zero requests, got %d", n)
	}
}

func TestCreateProdutoAPIFailurePropagates(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	audit, db := setupAudit(t)
	svc := NewProdutoService(repositories.NewAPIProdutoRepository(apiclient.NewClient(api.srv.URL, 0)), audit)

	_, err := svc.CreateProduto(context.Background(), civicForm())
	var ae *appErrors.APIError
	if !errors.As(err, &ae) || ae.Status != 401 {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	var count int64
	db.Model(&models.AuditLogEntry{}).Count(&count)
	if count != 0 {
		t.Errorf("failed create must not be audited")
	}
}

func TestDeleteAndToggleProduto(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	audit, db := setupAudit(t)
	svc := NewProdutoService(repositories.NewAPIProdutoRepository(apiclient.NewClient(api.srv.URL, 0)), audit)
	ctx := apiclient.WithToken(context.Background(), "tok")

	if err := svc.DeleteProduto(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.ToggleDestaque(ctx, 8); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	reqs := api.requests()
	if reqs[0].Method != http.MethodDelete || reqs[0].Path != "/produtos/7" {
		t.Errorf("unexpected delete %+v", reqs[0])
	}
	if reqs[1].Method != http.MethodPut || reqs[1].Path != "/produtos/destacar/8" {
		t.Errorf("unexpected toggle %+v", reqs[1])
	}
	var count int64
	db.Model(&models.AuditLogEntry{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 audit entries, got %d", count)
	}
}

func TestMarcasSortedByNome(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":2,"nome":"volkswagen"},{"id":1,"nome":"Fiat"},{"id":3,"nome":"Honda"}]`))
	})
	svc := NewMarcaService(repositories.NewAPIMarcaRepository(apiclient.NewClient(api.srv.URL, 0)))
	marcas, err := svc.ListMarcas(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if marcas[0].Nome != "Fiat" || marcas[2].Nome != "volkswagen" {
		t.Errorf("unexpected order %+v", marcas)
	}
}

func TestCreatePropostaOmitsEmptyCliente(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":5,"produtoId":10,"clienteId":0,"preco":80000,"descricao":"à vista","resposta":null}`))
	})
	svc := NewPropostaService(repositories.NewAPIPropostaRepository(apiclient.NewClient(api.srv.URL, 0)), NewDisabledAuditLogService())

	criada, err := svc.CreateProposta(context.Background(), models.PropostaForm{ProdutoID: "10", Preco: "80000", Descricao: "à vista"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if criada.ID != 5 || criada.Respondida() {
		t.Errorf("unexpected proposta %+v", criada)
	}
	reqs := api.requests()
	want := `{"produtoId":10,"preco":80000,"descricao":"à vista"}`
	if reqs[0].Body != want {
		t.Errorf("unexpected body %s", reqs[0].Body)
	}
	if reqs[0].Auth != "" {
		t.Errorf("proposals do not carry credentials")
	}
}

func TestListPropostasByCliente(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"produtoId":2,"clienteId":4,"preco":"1.00","descricao":"x","resposta":"2026-03-01T10:00:00.000Z"}]`))
	})
	svc := NewPropostaService(repositories.NewAPIPropostaRepository(apiclient.NewClient(api.srv.URL, 0)), NewDisabledAuditLogService())
	propostas, err := svc.ListPropostas(context.Background(), 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if api.requests()[0].Path != "/propostas/4" {
		t.Errorf("unexpected path %s", api.requests()[0].Path)
	}
	if len(propostas) != 1 || !propostas[0].Respondida() {
		t.Errorf("unexpected propostas %+v", propostas)
	}
}

func TestLogActionTruncatesOnRuneBoundary(t *testing.T) {
	audit, db := setupAudit(t)
	desc := strings.Repeat("ç", 4100)

	if err := audit.LogAction(context.Background(), models.AuditLogEntry{Action: "teste", Description: desc}); err != nil {
		t.Fatalf("log: %v", err)
	}
	var entry models.AuditLogEntry
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("audit entry: %v", err)
	}
	if !utf8.ValidString(entry.Description) {
		t.Fatalf("description must stay valid UTF-8")
	}
	if n := utf8.RuneCountInString(entry.Description); n != 4000 || !strings.HasSuffix(entry.Description, "...") {
		t.Errorf("expected 4000 runes ending in ellipsis, got %d", n)
	}
}

func TestLogAuditSwallowsFailures(t *testing.T) {
	audit, _ := setupAudit(t)
	// Ação vazia é rejeitada pelo serviço; LogAudit só registra o aviso.
	LogAudit(context.Background(), audit, models.AuditLogEntry{Description: "sem ação"})
	logs, total, err := audit.GetAuditLogs(context.Background(), models.AuditLogFilter{})
	if err != nil || total != 0 || len(logs) != 0 {
		t.Errorf("expected nothing persisted, got %d (%v)", total, err)
	}
}
