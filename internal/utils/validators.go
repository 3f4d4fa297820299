package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance devolve o validador compartilhado, reportando campos pelo nome JSON.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct aplica as tags `validate` e traduz as falhas para um *core.ValidationError.
// message é a mensagem geral exibida ao usuário.
func ValidateStruct(s interface{}, message string) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.WrapErrorf(appErrors.ErrInternal, "falha ao validar %T: %v", s, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describeFieldError(fe)
	}
	return appErrors.NewValidationError(message, fields)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "url":
		return "deve ser uma URL válida (ex: https://site.com/foto.jpg)"
	case "number":
		return "deve ser um número inteiro"
	case "numeric":
		return "deve ser um número"
	case "max":
		return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
	default:
		return "valor inválido"
	}
}

// ParseID converte um identificador de rota em inteiro positivo.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: identificador inválido '%s'", appErrors.ErrInvalidInput, raw)
	}
	return id, nil
}
