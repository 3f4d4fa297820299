package services

import (
	"context"
	"fmt"

	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/repositories"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/utils"
)

// ProdutoService define a interface para o serviço de produtos.
type ProdutoService interface {
	ListProdutos(ctx context.Context) ([]models.Produto, error)
	// CreateProduto valida o formulário antes de qualquer requisição. Formulário inválido não gera tráfego.
	CreateProduto(ctx context.Context, form models.ProdutoForm) (*models.Produto, error)
	DeleteProduto(ctx context.Context, produtoID int) error
	ToggleDestaque(ctx context.Context, produtoID int) error
}

type produtoServiceImpl struct {
	repo            repositories.ProdutoRepository
	auditLogService AuditLogService
}

// NewProdutoService cria uma nova instância de ProdutoService.
func NewProdutoService(repo repositories.ProdutoRepository, auditLogService AuditLogService) ProdutoService {
	if repo == nil || auditLogService == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewProdutoService")
	}
	return &produtoServiceImpl{repo: repo, auditLogService: auditLogService}
}

func (s *produtoServiceImpl) ListProdutos(ctx context.Context) ([]models.Produto, error) {
	return s.repo.GetAll(ctx)
}

// CreateProduto valida, converte e envia o produto.
func (s *produtoServiceImpl) CreateProduto(ctx context.Context, form models.ProdutoForm) (*models.Produto, error) {
	form = form.Trim()
	if err := utils.ValidateStruct(form, "Verifique os campos do produto."); err != nil {
		appLogger.Warnf("Formulário de produto inválido: %v", err)
		return nil, err
	}
	payload, err := form.ToCreate()
	if err != nil {
		return nil, err
	}

	criado, err := s.repo.Add(ctx, payload)
	if err != nil {
		return nil, err
	}

	id := criado.ID
	LogAudit(ctx, s.auditLogService, models.AuditLogEntry{
		Action:      models.AcaoProdutoCriado,
		Description: fmt.Sprintf("Produto '%s' (%d) cadastrado.", payload.Modelo, payload.Ano),
		Severity:    "INFO",
		EntityID:    &id,
		Metadata:    models.JSONMetadata{"marcaId": payload.MarcaID, "preco": payload.Preco.String()},
	})
	return criado, nil
}

// DeleteProduto exclui o produto na API.
func (s *produtoServiceImpl) DeleteProduto(ctx context.Context, produtoID int) error {
	if err := s.repo.Delete(ctx, produtoID); err != nil {
		return err
	}
	LogAudit(ctx, s.auditLogService, models.AuditLogEntry{
		Action:      models.AcaoProdutoExcluido,
		Description: fmt.Sprintf("Produto ID %d excluído.", produtoID),
		Severity:    "WARNING",
		EntityID:    &produtoID,
	})
	return nil
}

// ToggleDestaque pede à API para inverter o destaque do produto.
func (s *produtoServiceImpl) ToggleDestaque(ctx context.Context, produtoID int) error {
	if err := s.repo.ToggleDestaque(ctx, produtoID); err != nil {
		return err
	}
	LogAudit(ctx, s.auditLogService, models.AuditLogEntry{
		Action:      models.AcaoProdutoDestacado,
		Description: fmt.Sprintf("Destaque do produto ID %d alterado.", produtoID),
		Severity:    "INFO",
		EntityID:    &produtoID,
	})
	return nil
}
