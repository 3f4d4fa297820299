package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Erros sentinela pré-definidos para tipos comuns de falha na aplicação.
// Estes podem ser verificados usando errors.Is(err, ErrNotFound).
var (
	// --- Erros Gerais ---
	ErrInternal      = errors.New("erro interno da aplicação")
	ErrConfiguration = errors.New("erro de configuração da aplicação")

	// --- Erros da API remota ---
	ErrConnection      = errors.New("falha de conexão com a API")           // Requisição não chegou a produzir resposta
	ErrAPI             = errors.New("a API respondeu com status de erro")   // Status fora da faixa 2xx
	ErrInvalidResponse = errors.New("resposta da API em formato inesperado") // Corpo 2xx que não decodifica
	ErrUnauthorized    = errors.New("não autenticado")                      // 401 da API
	ErrNotFound        = errors.New("registro não encontrado")              // 404 da API

	// --- Erros de Banco de Dados (log de auditoria) ---
	ErrDatabase = errors.New("erro na operação com o banco de dados")

	// --- Erros de Validação e Entrada ---
	ErrValidation   = errors.New("erro de validação nos dados fornecidos")
	ErrInvalidInput = errors.New("entrada de dados inválida ou mal formatada")

	// --- Erros de Tela ---
	ErrActionPending = errors.New("ação já em andamento para este item")
	ErrNotConfirmed  = errors.New("ação não confirmada pelo usuário")

	// --- Erros Específicos da Aplicação ---
	ErrExport = errors.New("falha ao exportar dados")
)

// ValidationError é um tipo de erro que contém detalhes sobre os campos que falharam na validação.
type ValidationError struct {
	// Message é uma mensagem geral sobre a falha de validação.
	Message string
	// Fields mapeia nomes de campos para suas respectivas mensagens de erro.
	Fields map[string]string
	// Underlying é o erro original que pode ter causado a falha de validação (opcional).
	Underlying error
}

// NewValidationError cria uma nova instância de ValidationError.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  fields,
	}
}

// Error implementa a interface error.
func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Message != "" {
		sb.WriteString(ve.Message)
	} else {
		sb.WriteString("Erro de validação")
	}

	if len(ve.Fields) > 0 {
		keys := make([]string, 0, len(ve.Fields))
		for field := range ve.Fields {
			keys = append(keys, field)
		}
		sort.Strings(keys)
		fieldErrors := make([]string, 0, len(keys))
		for _, field := range keys {
			fieldErrors = append(fieldErrors, fmt.Sprintf("%s: %s", field, ve.Fields[field]))
		}
		sb.WriteString(" (Detalhes: ")
		sb.WriteString(strings.Join(fieldErrors, ", "))
		sb.WriteString(")")
	}
	if ve.Underlying != nil {
		sb.WriteString(fmt.Sprintf(" | Erro original: %v", ve.Underlying))
	}
	return sb.String()
}

// Unwrap retorna o erro encapsulado, permitindo o uso de errors.Is e errors.As com o erro original.
func (ve *ValidationError) Unwrap() error {
	return ve.Underlying
}

// Is permite que `errors.Is(err, ErrValidation)` funcione mesmo sem Underlying.
func (ve *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorBody é o corpo de erro devolvido pela API. Message é opcional.
type ErrorBody struct {
	Message *string `json:"message,omitempty"`
}

// APIError representa uma resposta não-2xx da API.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   ErrorBody
}

// NewAPIError cria um APIError para a requisição informada.
func NewAPIError(method, path string, status int, body ErrorBody) *APIError {
	return &APIError{Method: method, Path: path, Status: status, Body: body}
}

// Error implementa a interface error.
func (ae *APIError) Error() string {
	msg := fmt.Sprintf("API respondeu %d para %s %s", ae.Status, ae.Method, ae.Path)
	if ae.Body.Message != nil && *ae.Body.Message != "" {
		msg += ": " + *ae.Body.Message
	}
	return msg
}

// Is classifica o APIError dentro dos sentinelas.
func (ae *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrUnauthorized:
		return ae.Status == 401
	case ErrNotFound:
		return ae.Status == 404
	}
	return false
}

// MessageOr devolve a mensagem da API ou o fallback quando ausente.
func (ae *APIError) MessageOr(fallback string) string {
	if ae.Body.Message != nil && strings.TrimSpace(*ae.Body.Message) != "" {
		return *ae.Body.Message
	}
	return fallback
}

// TransportError envolve falhas de rede, DNS, timeout ou cancelamento.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implementa a interface error.
func (te *TransportError) Error() string {
	return fmt.Sprintf("falha de conexão em %s %s: %v", te.Method, te.Path, te.Err)
}

// Unwrap retorna o erro de rede original.
func (te *TransportError) Unwrap() error {
	return te.Err
}

// Is faz todo TransportError ser um ErrConnection.
func (te *TransportError) Is(target error) bool {
	return target == ErrConnection
}

// DatabaseErrorDetail é um tipo de erro para carregar mais informações sobre um erro de banco de dados.
type DatabaseErrorDetail struct {
	// Operation descreve a operação que estava sendo realizada (ex: "gravando auditoria").
	Operation string
	// Err é o erro original retornado pelo driver do banco de dados ou ORM.
	Err error
}

// NewDatabaseErrorDetail cria um novo DatabaseErrorDetail.
func NewDatabaseErrorDetail(operation string, originalErr error) *DatabaseErrorDetail {
	if originalErr == nil {
		originalErr = ErrDatabase
	}
	return &DatabaseErrorDetail{Operation: operation, Err: originalErr}
}

// Error implementa a interface error.
func (de *DatabaseErrorDetail) Error() string {
	return fmt.Sprintf("erro de banco de dados durante %s: %v", de.Operation, de.Err)
}

// Unwrap retorna o erro original do banco de dados.
func (de *DatabaseErrorDetail) Unwrap() error {
	return de.Err
}

// Is faz todo DatabaseErrorDetail ser um ErrDatabase.
func (de *DatabaseErrorDetail) Is(target error) bool {
	if target == ErrDatabase {
		return true
	}
	return errors.Is(de.Err, target)
}

// --- Funções Helper ---

// WrapErrorf cria um novo erro que envolve um erro existente com uma mensagem formatada,
// preservando o erro original para verificação com `errors.Is` e `errors.As`.
func WrapErrorf(originalErr error, format string, args ...interface{}) error {
	if originalErr == nil {
		return fmt.Errorf(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), originalErr)
}

// UserMessage traduz um erro para a mensagem que a tela mostra ao usuário.
// fallback é usado para erros da API sem mensagem no corpo.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Message != "" {
			return ve.Message
		}
		return "Dados inválidos."
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.MessageOr(fallback)
	}
	if errors.Is(err, ErrConnection) {
		return "Erro de conexão. Tente novamente."
	}
	return fallback
}
