package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
)

// Proposta é a oferta de um cliente sobre um produto.
// Resposta é nil enquanto a proposta não foi respondida.
type Proposta struct {
	ID        int             `json:"id"`
	ProdutoID int             `json:"produtoId"`
	Produto   *Produto        `json:"produto,omitempty"`
	ClienteID int             `json:"clienteId"`
	Preco     decimal.Decimal `json:"preco"`
	Descricao string          `json:"descricao"`
	Resposta  *DataAPI        `json:"resposta"`
}

// GetID implementa Identificavel.
func (p Proposta) GetID() int { return p.ID }

// Respondida indica se a API já registrou a resposta.
func (p Proposta) Respondida() bool { return p.Resposta != nil && !p.Resposta.IsZero() }

// RespondidaEm devolve o instante da resposta, ou nil.
func (p Proposta) RespondidaEm() *time.Time {
	if !p.Respondida() {
		return nil
	}
	t := p.Resposta.Time
	return &t
}

// ModeloProduto devolve o modelo do produto embutido ou vazio.
func (p Proposta) ModeloProduto() string {
	if p.Produto == nil {
		return ""
	}
	return p.Produto.Modelo
}

// PropostaForm guarda os valores crus do formulário de proposta.
// ClienteID pode ficar vazio; nesse caso o campo não é enviado.
type PropostaForm struct {
	ClienteID string `json:"clienteId" validate:"omitempty,number"`
	ProdutoID string `json:"produtoId" validate:"required,number"`
	Preco     string `json:"preco" validate:"required,numeric"`
	Descricao string `json:"descricao" validate:"required,max=255"`
}

// Trim remove espaços das pontas de todos os campos.
func (f PropostaForm) Trim() PropostaForm {
	return PropostaForm{
		ClienteID: strings.TrimSpace(f.ClienteID),
		ProdutoID: strings.TrimSpace(f.ProdutoID),
		Preco:     strings.TrimSpace(f.Preco),
		Descricao: strings.TrimSpace(f.Descricao),
	}
}

// PropostaCreate é o corpo do POST /propostas.
type PropostaCreate struct {
	ClienteID int         `json:"clienteId,omitempty"`
	ProdutoID int         `json:"produtoId"`
	Preco     json.Number `json:"preco"`
	Descricao string      `json:"descricao"`
}

// ToCreate converte o formulário no corpo da requisição.
func (f PropostaForm) ToCreate() (PropostaCreate, error) {
	f = f.Trim()
	fields := map[string]string{}

	var clienteID int
	if f.ClienteID != "" {
		v, err := strconv.Atoi(f.ClienteID)
		if err != nil {
			fields["clienteId"] = "deve ser um número inteiro"
		}
		clienteID = v
	}
	produtoID, err := strconv.Atoi(f.ProdutoID)
	if err != nil {
		fields["produtoId"] = "deve ser um número inteiro"
	}
	preco, err := decimal.NewFromString(f.Preco)
	if err != nil {
		fields["preco"] = "deve ser um número"
	}
	if len(fields) > 0 {
		return PropostaCreate{}, appErrors.NewValidationError("Campos numéricos inválidos.", fields)
	}

	return PropostaCreate{
		ClienteID: clienteID,
		ProdutoID: produtoID,
		Preco:     json.Number(preco.String()),
		Descricao: f.Descricao,
	}, nil
}
