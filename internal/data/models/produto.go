package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
)

// Produto representa um veículo anunciado, como devolvido pela API.
// Preco aceita tanto número JSON quanto string decimal.
type Produto struct {
	ID         int             `json:"id"`
	Modelo     string          `json:"modelo"`
	MarcaID    int             `json:"marcaId"`
	Marca      *Marca          `json:"marca,omitempty"`
	Ano        int             `json:"ano"`
	Acessorios string          `json:"acessorios"`
	Foto       string          `json:"foto"`
	Preco      decimal.Decimal `json:"preco"`
	Destaque   bool            `json:"destaque"`
}

// GetID implementa Identificavel.
func (p Produto) GetID() int { return p.ID }

// NomeMarca devolve o nome da marca embutida, ou vazio se a API não a incluiu.
func (p Produto) NomeMarca() string {
	if p.Marca == nil {
		return ""
	}
	return p.Marca.Nome
}

// ProdutoForm guarda os valores crus digitados no formulário de cadastro.
type ProdutoForm struct {
	Modelo     string `json:"modelo" validate:"required"`
	MarcaID    string `json:"marcaId" validate:"required,number"`
	Ano        string `json:"ano" validate:"required,number"`
	Acessorios string `json:"acessorios" validate:"required"`
	Foto       string `json:"foto" validate:"required,url"`
	Preco      string `json:"preco" validate:"required,numeric"`
}

// Trim remove espaços das pontas de todos os campos.
func (f ProdutoForm) Trim() ProdutoForm {
	return ProdutoForm{
		Modelo:     strings.TrimSpace(f.Modelo),
		MarcaID:    strings.TrimSpace(f.MarcaID),
		Ano:        strings.TrimSpace(f.Ano),
		Acessorios: strings.TrimSpace(f.Acessorios),
		Foto:       strings.TrimSpace(f.Foto),
		Preco:      strings.TrimSpace(f.Preco),
	}
}

// ProdutoCreate é o corpo do POST /produtos. Os campos numéricos saem como números JSON.
type ProdutoCreate struct {
	Modelo     string      `json:"modelo"`
	MarcaID    int         `json:"marcaId"`
	Ano        int         `json:"ano"`
	Acessorios string      `json:"acessorios"`
	Foto       string      `json:"foto"`
	Preco      json.Number `json:"preco"`
}

// ToCreate converte o formulário no corpo da requisição.
func (f ProdutoForm) ToCreate() (ProdutoCreate, error) {
	f = f.Trim()
	fields := map[string]string{}

	marcaID, err := strconv.Atoi(f.MarcaID)
	if err != nil {
		fields["marcaId"] = "deve ser um número inteiro"
	}
	ano, err := strconv.Atoi(f.Ano)
	if err != nil {
		fields["ano"] = "deve ser um número inteiro"
	}
	preco, err := decimal.NewFromString(f.Preco)
	if err != nil {
		fields["preco"] = "deve ser um número"
	}
	if len(fields) > 0 {
		return ProdutoCreate{}, appErrors.NewValidationError("Campos numéricos inválidos.", fields)
	}

	return ProdutoCreate{
		Modelo:     f.Modelo,
		MarcaID:    marcaID,
		Ano:        ano,
		Acessorios: f.Acessorios,
		Foto:       f.Foto,
		Preco:      json.Number(preco.String()),
	}, nil
}
