package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/auth"
	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/repositories"
)

const maxDescricaoAuditoria = 4000

// AuditLogService define a interface para o serviço de log de auditoria.
type AuditLogService interface {
	// LogAction registra uma ação. O autor vem do contexto (auth.WithActor) quando não preenchido.
	LogAction(ctx context.Context, entry models.AuditLogEntry) error

	// GetAuditLogs busca logs de auditoria com base no filtro.
	GetAuditLogs(ctx context.Context, filter models.AuditLogFilter) (logs []models.AuditLogEntry, totalCount int64, err error)

	// Enabled indica se a auditoria está gravando.
	Enabled() bool
}

// auditLogServiceImpl é a implementação de AuditLogService.
type auditLogServiceImpl struct {
	repo repositories.AuditLogRepository
}

// NewAuditLogService cria uma nova instância de AuditLogService.
func NewAuditLogService(repo repositories.AuditLogRepository) AuditLogService {
	if repo == nil {
		appLogger.Fatalf("AuditLogRepository não pode ser nil para NewAuditLogService")
	}
	return &auditLogServiceImpl{repo: repo}
}

// LogAction registra uma ação de auditoria no banco de dados.
func (s *auditLogServiceImpl) LogAction(ctx context.Context, entry models.AuditLogEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return appErrors.WrapErrorf(appErrors.ErrInvalidInput, "ação do log de auditoria não pode ser vazia")
	}
	if strings.TrimSpace(entry.Description) == "" {
		return appErrors.WrapErrorf(appErrors.ErrInvalidInput, "descrição do log de auditoria não pode ser vazia")
	}

	normalizedSeverity := strings.ToUpper(strings.TrimSpace(entry.Severity))
	if _, ok := models.ValidSeverities[normalizedSeverity]; !ok {
		if entry.Severity != "" {
			appLogger.Warnf("Nível de severidade inválido '%s' fornecido para log. Usando 'INFO'. Ação: %s", entry.Severity, entry.Action)
		}
		entry.Severity = "INFO"
	} else {
		entry.Severity = normalizedSeverity
	}

	if actor, ok := auth.ActorFrom(ctx); ok {
		if entry.Actor == "" {
			entry.Actor = actor.Nome
		}
		if entry.TokenFingerprint == nil && actor.TokenFingerprint != "" {
			fp := actor.TokenFingerprint
			entry.TokenFingerprint = &fp
		}
		if (entry.IPAddress == nil || *entry.IPAddress == "") && actor.IP != "" {
			ip := actor.IP
			entry.IPAddress = &ip
		}
	}
	if entry.Actor == "" {
		entry.Actor = "system"
	}

	if utf8.RuneCountInString(entry.Description) > maxDescricaoAuditoria {
		entry.Description = truncateRunes(entry.Description, maxDescricaoAuditoria-3) + "..."
		appLogger.Warnf("Descrição do log de auditoria truncada para 4000 caracteres. Ação: %s", entry.Action)
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if _, err := s.repo.Create(ctx, entry); err != nil {
		return appErrors.WrapErrorf(err, "falha ao persistir log de auditoria (Ação: %s)", entry.Action)
	}
	return nil
}

// GetAuditLogs busca logs de auditoria com base no filtro.
func (s *auditLogServiceImpl) GetAuditLogs(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
		appLogger.Warnf("Solicitação de GetAuditLogs com limite > 1000. Reduzido para 1000.")
	}
	logs, totalCount, err := s.repo.GetFiltered(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.WrapErrorf(err, "falha ao buscar logs de auditoria do repositório")
	}
	return logs, totalCount, nil
}

func (s *auditLogServiceImpl) Enabled() bool { return true }

// disabledAuditLogService é usado com APP_AUDIT_ENABLED=false.
type disabledAuditLogService struct{}

// NewDisabledAuditLogService devolve um AuditLogService que descarta tudo.
func NewDisabledAuditLogService() AuditLogService { return disabledAuditLogService{} }

func (disabledAuditLogService) LogAction(context.Context, models.AuditLogEntry) error { return nil }

func (disabledAuditLogService) GetAuditLogs(context.Context, models.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	return []models.AuditLogEntry{}, 0, nil
}

func (disabledAuditLogService) Enabled() bool { return false }

// truncateRunes corta s em n runas sem partir caracteres multibyte.
func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// LogAudit grava uma entrada sem deixar a falha da auditoria afetar a operação principal.
func LogAudit(ctx context.Context, audit AuditLogService, entry models.AuditLogEntry) {
	if err := audit.LogAction(context.WithoutCancel(ctx), entry); err != nil {
		appLogger.Warnf("Falha ao registrar log de auditoria (%s): %v", entry.Action, err)
	}
}
