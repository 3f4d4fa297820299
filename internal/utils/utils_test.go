package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

func validForm() models.ProdutoForm {
	return models.ProdutoForm{
		Modelo: "Civic", MarcaID: "3", Ano: "2020", Acessorios: "ar",
		Foto: "https://x.com/a.jpg", Preco: "95000.50",
	}
}

func TestValidateStructAcceptsValidProduto(t *testing.T) {
	if err := ValidateStruct(validForm(), "Dados inválidos."); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidateStructRejectsBadFoto(t *testing.T) {
	f := validForm()
	f.Foto = "not a url"
	err := ValidateStruct(f, "Corrija os campos destacados.")
	if !errors.Is(err, appErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *appErrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError")
	}
	if _, ok := ve.Fields["foto"]; !ok {
		t.Errorf("expected foto field error, got %v", ve.Fields)
	}
	if len(ve.Fields) != 1 {
		t.Errorf("expected only foto to fail, got %v", ve.Fields)
	}
}

func TestValidateStructRequiredAndNumeric(t *testing.T) {
	f := models.ProdutoForm{MarcaID: "tres", Preco: "abc"}
	err := ValidateStruct(f, "x")
	var ve *appErrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, campo := range []string{"modelo", "marcaId", "ano", "acessorios", "foto", "preco"} {
		if _, ok := ve.Fields[campo]; !ok {
			t.Errorf("expected error for %s", campo)
		}
	}
	if ve.Fields["marcaId"] != "deve ser um número inteiro" {
		t.Errorf("unexpected marcaId message %q", ve.Fields["marcaId"])
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 7 "); err != nil || id != 7 {
		t.Fatalf("expected 7, got %d %v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := ParseID(raw); !errors.Is(err, appErrors.ErrInvalidInput) {
			t.Errorf("%q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func sampleProdutos() []models.Produto {
	return []models.Produto{
		{ID: 1, Modelo: "Civic", Marca: &models.Marca{ID: 3, Nome: "Honda"}, Ano: 2020, Preco: decimal.RequireFromString("95000.5"), Destaque: true},
		{ID: 2, Modelo: "Uno", Ano: 2010, Preco: decimal.RequireFromString("15000")},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ProdutosTabela(sampleProdutos())); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines got %d: %q", len(lines), buf.String())
	}
	if lines[1] != "1;Civic;Honda;2020;;;95000.50;Sim" {
		t.Errorf("unexpected row %q", lines[1])
	}
	if lines[2] != "2;Uno;;2010;;;15000.00;Não" {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestWriteXLSXReadsBack(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, ProdutosTabela(sampleProdutos())); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Produtos")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 || rows[1][1] != "Civic" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Tabela{}, "pdf"); !errors.Is(err, appErrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExportToFileBacksUpExisting(t *testing.T) {
	dir := t.TempDir()
	tab := ProdutosTabela(sampleProdutos())
	first, err := ExportToFile(tab, "produtos.csv", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Dir(first) != dir {
		t.Fatalf("expected file inside %s, got %s", dir, first)
	}
	if _, err := ExportToFile(tab, "produtos.csv", dir); err != nil {
		t.Fatalf("second export: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("expected file plus backup, got %d entries", len(entries))
	}
}
