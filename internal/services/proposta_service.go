package services

import (
	"context"
	"fmt"

	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/repositories"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/utils"
)

// PropostaService define a interface para o serviço de propostas.
type PropostaService interface {
	ListPropostas(ctx context.Context, clienteID int) ([]models.Proposta, error)
	CreateProposta(ctx context.Context, form models.PropostaForm) (*models.Proposta, error)
	DeleteProposta(ctx context.Context, propostaID int) error
}

type propostaServiceImpl struct {
	repo            repositories.PropostaRepository
	auditLogService AuditLogService
}

// NewPropostaService cria uma nova instância de PropostaService.
func NewPropostaService(repo repositories.PropostaRepository, auditLogService AuditLogService) PropostaService {
	if repo == nil || auditLogService == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewPropostaService")
	}
	return &propostaServiceImpl{repo: repo, auditLogService: auditLogService}
}

func (s *propostaServiceImpl) ListPropostas(ctx context.Context, clienteID int) ([]models.Proposta, error) {
	return s.repo.GetByCliente(ctx, clienteID)
}

// CreateProposta valida e envia a proposta.
func (s *propostaServiceImpl) CreateProposta(ctx context.Context, form models.PropostaForm) (*models.Proposta, error) {
	form = form.Trim()
	if err := utils.ValidateStruct(form, "Verifique os campos da proposta."); err != nil {
		return nil, err
	}
	payload, err := form.ToCreate()
	if err != nil {
		return nil, err
	}

	criada, err := s.repo.Add(ctx, payload)
	if err != nil {
		return nil, err
	}

	id := criada.ID
	LogAudit(ctx, s.auditLogService, models.AuditLogEntry{
		Action:      models.AcaoPropostaCriada,
		Description: fmt.Sprintf("Proposta para produto ID %d cadastrada.", payload.ProdutoID),
		Severity:    "INFO",
		EntityID:    &id,
		Metadata:    models.JSONMetadata{"clienteId": payload.ClienteID, "preco": payload.Preco.String()},
	})
	return criada, nil
}

// DeleteProposta exclui a proposta na API.
func (s *propostaServiceImpl) DeleteProposta(ctx context.Context, propostaID int) error {
	if err := s.repo.Delete(ctx, propostaID); err != nil {
		return err
	}
	LogAudit(ctx, s.auditLogService, models.AuditLogEntry{
		Action:      models.AcaoPropostaExcluida,
		Description: fmt.Sprintf("Proposta ID %d excluída.", propostaID),
		Severity:    "WARNING",
		EntityID:    &propostaID,
	})
	return nil
}
