package repositories

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/apiclient"
	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

func TestProdutoAddToleratesUnreadableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	repo := NewAPIProdutoRepository(apiclient.NewClient(srv.URL, 0))
	criado, err := repo.Add(context.Background(), models.ProdutoCreate{Modelo: "Uno", MarcaID: 1, Ano: 2010, Preco: "15000"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if criado.Modelo != "Uno" || criado.Preco.String() != "15000" {
		t.Errorf("expected entity built from payload, got %+v", criado)
	}
}

func TestPropostaAddFailureKeepsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Produto inexistente"}`))
	}))
	defer srv.Close()

	repo := NewAPIPropostaRepository(apiclient.NewClient(srv.URL, 0))
	_, err := repo.Add(context.Background(), models.PropostaCreate{ProdutoID: 1, Preco: "1", Descricao: "x"})
	var ae *appErrors.APIError
	if !errors.As(err, &ae) || ae.MessageOr("") != "Produto inexistente" {
		t.Fatalf("expected APIError with message, got %v", err)
	}
}

func TestGetAllEmptyBodyIsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	produtos, err := NewAPIProdutoRepository(apiclient.NewClient(srv.URL, 0)).GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if produtos == nil || len(produtos) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", produtos)
	}
}

func TestAuditLogFilterAndOrder(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLogEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewGormAuditLogRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, acao := range []string{models.AcaoProdutoCriado, models.AcaoProdutoExcluido, models.AcaoProdutoCriado} {
		_, err := repo.Create(ctx, models.AuditLogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Action:    acao, Description: "d", Severity: "info", Actor: "Marina",
			Metadata: models.JSONMetadata{"i": i},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	entries, total, err := repo.GetFiltered(ctx, models.AuditLogFilter{Action: "produto_criado"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d/%d", total, len(entries))
	}
	if !entries[0].Timestamp.After(entries[1].Timestamp) {
		t.Errorf("expected newest first")
	}
	if entries[0].Severity != "INFO" {
		t.Errorf("severity must be normalized, got %s", entries[0].Severity)
	}

	entries, _, err = repo.GetFiltered(ctx, models.AuditLogFilter{Limit: 1})
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected limit 1, got %d (%v)", len(entries), err)
	}
}
