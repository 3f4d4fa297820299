package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONMetadata é um tipo customizado para o campo metadata gravado como JSON no banco.
// Implementa sql.Scanner e driver.Valuer.
type JSONMetadata map[string]interface{}

// Value converte JSONMetadata para uma string JSON.
func (jm JSONMetadata) Value() (driver.Value, error) {
	if jm == nil {
		return nil, nil
	}
	b, err := json.Marshal(jm)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan converte o JSON do banco para JSONMetadata.
func (jm *JSONMetadata) Scan(value interface{}) error {
	if value == nil {
		*jm = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, okStr := value.(string)
		if !okStr {
			return errors.New("tipo de valor inválido para JSONMetadata scan, esperado []byte ou string")
		}
		b = []byte(s)
	}
	if len(b) == 0 {
		*jm = make(JSONMetadata)
		return nil
	}
	return json.Unmarshal(b, jm)
}

// Ações registradas na auditoria.
const (
	AcaoProdutoCriado     = "PRODUTO_CRIADO"
	AcaoProdutoExcluido   = "PRODUTO_EXCLUIDO"
	AcaoProdutoDestacado  = "PRODUTO_DESTAQUE_ALTERADO"
	AcaoPropostaCriada    = "PROPOSTA_CRIADA"
	AcaoPropostaExcluida  = "PROPOSTA_EXCLUIDA"
	AcaoProdutosExportado = "PRODUTOS_EXPORTADOS"
)

// AuditLogEntry registra uma mutação feita pelo painel.
// Guarda a ação, nunca a entidade: os dados continuam na API remota.
type AuditLogEntry struct {
	ID               uint64       `gorm:"primaryKey;autoIncrement"`
	Timestamp        time.Time    `gorm:"not null;index"`
	Action           string       `gorm:"type:varchar(100);not null;index"`
	Description      string       `gorm:"type:text;not null"`
	Severity         string       `gorm:"type:varchar(10);not null;index"` // DEBUG, INFO, WARNING, ERROR, CRITICAL
	Actor            string       `gorm:"type:varchar(100);not null;index"`
	TokenFingerprint *string      `gorm:"type:varchar(16)"`
	EntityID         *int         `gorm:"index"`
	IPAddress        *string      `gorm:"type:varchar(45)"`
	Metadata         JSONMetadata `gorm:"type:text"`
}

// TableName especifica o nome da tabela para GORM.
func (AuditLogEntry) TableName() string {
	return "audit_logs"
}

// AuditLogFilter filtra a listagem da auditoria. Campos vazios não filtram.
type AuditLogFilter struct {
	Action string
	Actor  string
	Since  *time.Time
	Limit  int
}

// ValidSeverities define os níveis de severidade válidos.
var ValidSeverities = map[string]bool{
	"DEBUG":    true,
	"INFO":     true,
	"WARNING":  true,
	"ERROR":    true,
	"CRITICAL": true,
}
