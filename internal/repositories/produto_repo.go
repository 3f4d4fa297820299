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

// ProdutoRepository define as operações de produtos expostas pela API.
// Add, Delete e ToggleDestaque exigem o token do administrador no contexto.
type ProdutoRepository interface {
	GetAll(ctx context.Context) ([]models.Produto, error)
	Add(ctx context.Context, data models.ProdutoCreate) (*models.Produto, error)
	Delete(ctx context.Context, produtoID int) error
	ToggleDestaque(ctx context.Context, produtoID int) error
}

type apiProdutoRepository struct {
	api *apiclient.Client
}

// NewAPIProdutoRepository cria o repositório de produtos sobre o cliente da API.
func NewAPIProdutoRepository(api *apiclient.Client) ProdutoRepository {
	if api == nil {
		appLogger.Fatalf("apiclient.Client não pode ser nil para NewAPIProdutoRepository")
	}
	return &apiProdutoRepository{api: api}
}

// GetAll busca GET /produtos.
func (r *apiProdutoRepository) GetAll(ctx context.Context) ([]models.Produto, error) {
	var produtos []models.Produto
	if err := r.api.Get(ctx, "/produtos", &produtos, apiclient.RequestOptions{}); err != nil {
		appLogger.Errorf("Erro ao buscar produtos: %v", err)
		return nil, appErrors.WrapErrorf(err, "falha ao buscar produtos")
	}
	if produtos == nil {
		produtos = []models.Produto{}
	}
	return produtos, nil
}

// Add envia POST /produtos e devolve o produto criado.
func (r *apiProdutoRepository) Add(ctx context.Context, data models.ProdutoCreate) (*models.Produto, error) {
	var criado models.Produto
	err := r.api.Do(ctx, http.MethodPost, "/produtos", data, &criado, apiclient.RequestOptions{Auth: true})
	switch {
	case errors.Is(err, appErrors.ErrInvalidResponse):
		appLogger.Warnf("Produto '%s' cadastrado, mas a resposta não pôde ser lida: %v", data.Modelo, err)
	case err != nil:
		appLogger.Errorf("Erro ao cadastrar produto '%s': %v", data.Modelo, err)
		return nil, err
	}
	if criado.Modelo == "" {
		criado.Modelo = data.Modelo
		criado.MarcaID = data.MarcaID
		criado.Ano = data.Ano
		criado.Acessorios = data.Acessorios
		criado.Foto = data.Foto
		criado.Preco, _ = decimal.NewFromString(data.Preco.String())
	}
	appLogger.Infof("Produto cadastrado na API: '%s' (ID: %d)", data.Modelo, criado.ID)
	return &criado, nil
}

// Delete envia DELETE /produtos/:id.
func (r *apiProdutoRepository) Delete(ctx context.Context, produtoID int) error {
	path := fmt.Sprintf("/produtos/%d", produtoID)
	if err := r.api.Do(ctx, http.MethodDelete, path, nil, nil, apiclient.RequestOptions{Auth: true}); err != nil {
		appLogger.Errorf("Erro ao excluir produto ID %d: %v", produtoID, err)
		return err
	}
	appLogger.Infof("Produto ID %d excluído na API", produtoID)
	return nil
}

// ToggleDestaque envia PUT /produtos/destacar/:id. A API inverte o flag.
func (r *apiProdutoRepository) ToggleDestaque(ctx context.Context, produtoID int) error {
	path := fmt.Sprintf("/produtos/destacar/%d", produtoID)
	if err := r.api.Do(ctx, http.MethodPut, path, nil, nil, apiclient.RequestOptions{Auth: true}); err != nil {
		appLogger.Errorf("Erro ao alterar destaque do produto ID %d: %v", produtoID, err)
		return err
	}
	return nil
}
