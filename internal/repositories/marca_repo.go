package repositories

import (
	"context"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/apiclient"
	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

// MarcaRepository lê as marcas da API.
type MarcaRepository interface {
	GetAll(ctx context.Context) ([]models.Marca, error)
}

type apiMarcaRepository struct {
	api *apiclient.Client
}

// NewAPIMarcaRepository cria o repositório de marcas sobre o cliente da API.
func NewAPIMarcaRepository(api *apiclient.Client) MarcaRepository {
	if api == nil {
		appLogger.Fatalf("apiclient.Client não pode ser nil para NewAPIMarcaRepository")
	}
	return &apiMarcaRepository{api: api}
}

// GetAll busca GET /marcas.
func (r *apiMarcaRepository) GetAll(ctx context.Context) ([]models.Marca, error) {
	var marcas []models.Marca
	if err := r.api.Get(ctx, "/marcas", &marcas, apiclient.RequestOptions{}); err != nil {
		appLogger.Errorf("Erro ao buscar marcas: %v", err)
		return nil, appErrors.WrapErrorf(err, "falha ao buscar marcas")
	}
	if marcas == nil {
		marcas = []models.Marca{}
	}
	return marcas, nil
}
