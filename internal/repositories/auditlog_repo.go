package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

// AuditLogRepository define a interface para operações no repositório de logs de auditoria.
type AuditLogRepository interface {
	// Create insere uma nova entrada de log de auditoria.
	Create(ctx context.Context, entry models.AuditLogEntry) (*models.AuditLogEntry, error)

	// GetFiltered busca as entradas mais recentes que atendem ao filtro.
	// Retorna também a contagem total antes do limite.
	GetFiltered(ctx context.Context, filter models.AuditLogFilter) (logs []models.AuditLogEntry, totalCount int64, err error)
}

// gormAuditLogRepository é a implementação GORM de AuditLogRepository.
type gormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository cria uma nova instância de gormAuditLogRepository.
func NewGormAuditLogRepository(db *gorm.DB) AuditLogRepository {
	if db == nil {
		appLogger.Fatalf("gorm.DB não pode ser nil para NewGormAuditLogRepository")
	}
	return &gormAuditLogRepository{db: db}
}

// Create insere uma nova entrada de log de auditoria no banco de dados.
func (r *gormAuditLogRepository) Create(ctx context.Context, entry models.AuditLogEntry) (*models.AuditLogEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Severity = strings.ToUpper(entry.Severity)

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		// Metadata fica fora da mensagem.
		appLogger.Errorf("Erro ao criar entrada de log de auditoria (Ação: %s, Autor: %s): %v",
			entry.Action, entry.Actor, err)
		return nil, appErrors.NewDatabaseErrorDetail("gravando auditoria", err)
	}
	return &entry, nil
}

// GetFiltered busca logs de auditoria, mais recentes primeiro.
func (r *gormAuditLogRepository) GetFiltered(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	var entries []models.AuditLogEntry
	var totalCount int64

	query := r.db.WithContext(ctx).Model(&models.AuditLogEntry{})

	if filter.Since != nil {
		query = query.Where("timestamp >= ?", filter.Since.UTC())
	}
	if filter.Action != "" {
		query = query.Where("UPPER(action) = UPPER(?)", filter.Action)
	}
	if filter.Actor != "" {
		query = query.Where("LOWER(actor) = LOWER(?)", filter.Actor)
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&totalCount).Error; err != nil {
		appLogger.Errorf("Erro ao contar logs de auditoria filtrados: %v", err)
		return nil, 0, appErrors.NewDatabaseErrorDetail("contando auditoria", err)
	}
	if totalCount == 0 {
		return []models.AuditLogEntry{}, 0, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	} else if limit > 1000 {
		limit = 1000
	}

	if err := query.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		appLogger.Errorf("Erro ao buscar logs de auditoria filtrados: %v", err)
		return nil, 0, appErrors.NewDatabaseErrorDetail("buscando auditoria", err)
	}
	return entries, totalCount, nil
}
