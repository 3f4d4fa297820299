package services

import (
	"context"
	"sort"
	"strings"

	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/repositories"
)

// MarcaService define a interface para o serviço de marcas.
type MarcaService interface {
	// ListMarcas devolve as marcas ordenadas por nome, para o seletor do formulário.
	ListMarcas(ctx context.Context) ([]models.Marca, error)
}

type marcaServiceImpl struct {
	repo repositories.MarcaRepository
}

// NewMarcaService cria uma nova instância de MarcaService.
func NewMarcaService(repo repositories.MarcaRepository) MarcaService {
	if repo == nil {
		appLogger.Fatalf("MarcaRepository não pode ser nil para NewMarcaService")
	}
	return &marcaServiceImpl{repo: repo}
}

func (s *marcaServiceImpl) ListMarcas(ctx context.Context) ([]models.Marca, error) {
	marcas, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(marcas, func(i, j int) bool {
		return strings.ToLower(marcas[i].Nome) < strings.ToLower(marcas[j].Nome)
	})
	return marcas, nil
}
