package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/apiclient"
	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

// PropostaRepository define as operações de propostas expostas pela API.
type PropostaRepository interface {
	GetByCliente(ctx context.Context, clienteID int) ([]models.Proposta, error)
	Add(ctx context.Context, data models.PropostaCreate) (*models.Proposta, error)
	Delete(ctx context.Context, propostaID int) error
}

type apiPropostaRepository struct {
	api *apiclient.Client
}

// NewAPIPropostaRepository cria o repositório de propostas sobre o cliente da API.
func NewAPIPropostaRepository(api *apiclient.Client) PropostaRepository {
	if api == nil {
		appLogger.Fatalf("apiclient.Client não pode ser nil para NewAPIPropostaRepository")
	}
	return &apiPropostaRepository{api: api}
}

// GetByCliente busca GET /propostas/:clienteId.
func (r *apiPropostaRepository) GetByCliente(ctx context.Context, clienteID int) ([]models.Proposta, error) {
	var propostas []models.Proposta
	path := fmt.Sprintf("/propostas/%d", clienteID)
	if err := r.api.Get(ctx, path, &propostas, apiclient.RequestOptions{}); err != nil {
		appLogger.Errorf("Erro ao buscar propostas do cliente %d: %v", clienteID, err)
		return nil, appErrors.WrapErrorf(err, "falha ao buscar propostas do cliente %d", clienteID)
	}
	if propostas == nil {
		propostas = []models.Proposta{}
	}
	return propostas, nil
}

// Add envia POST /propostas.
func (r *apiPropostaRepository) Add(ctx context.Context, data models.PropostaCreate) (*models.Proposta, error) {
	var criada models.Proposta
	err := r.api.Do(ctx, http.MethodPost, "/propostas", data, &criada, apiclient.RequestOptions{})
	switch {
	case errors.Is(err, appErrors.ErrInvalidResponse):
		appLogger.Warnf("Proposta para produto %d cadastrada, mas a resposta não pôde ser lida: %v", data.ProdutoID, err)
	case err != nil:
		appLogger.Errorf("Erro ao cadastrar proposta para produto %d: %v", data.ProdutoID, err)
		return nil, err
	}
	// Respostas sem eco do corpo ainda produzem uma linha coerente na tela.
	if criada.ProdutoID == 0 {
		criada.ProdutoID = data.ProdutoID
		criada.ClienteID = data.ClienteID
		criada.Descricao = data.Descricao
		criada.Preco, _ = decimal.NewFromString(data.Preco.String())
	}
	return &criada, nil
}

// Delete envia DELETE /propostas/:id.
func (r *apiPropostaRepository) Delete(ctx context.Context, propostaID int) error {
	path := fmt.Sprintf("/propostas/%d", propostaID)
	if err := r.api.Do(ctx, http.MethodDelete, path, nil, nil, apiclient.RequestOptions{}); err != nil {
		appLogger.Errorf("Erro ao excluir proposta ID %d: %v", propostaID, err)
		return err
	}
	appLogger.Infof("Proposta ID %d excluída na API", propostaID)
	return nil
}
