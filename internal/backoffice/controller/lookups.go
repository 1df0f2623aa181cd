package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/cache"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"go.uber.org/zap"
)

type UbigeoRepository interface {
	Departments(ctx context.Context) ([]models.Department, error)
	ProvincesOf(ctx context.Context, departmentID string) ([]models.Province, error)
	DistrictsOf(ctx context.Context, provinceID string) ([]models.District, error)
}

// UbigeoService serves the department/province/district cascade. Provinces
// and districts are memoised in the cache for ttl.
type UbigeoService struct {
	repo   UbigeoRepository
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewUbigeoService(repo UbigeoRepository, store cache.Store, ttl time.Duration, logger *zap.Logger) *UbigeoService {
	return &UbigeoService{
		repo:   repo,
		store:  store,
		ttl:    ttl,
		logger: logger.Named("ubigeo_service"),
	}
}

func (s *UbigeoService) Departments(ctx context.Context) ([]models.Department, error) {
	out, err := s.repo.Departments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return out, nil
}

func (s *UbigeoService) Provinces(ctx context.Context, departmentID string) ([]models.Province, error) {
	out, err := cache.Remember(ctx, s.store, "provinces_dept_"+departmentID, s.ttl,
		func(ctx context.Context) ([]models.Province, error) {
			s.logger.Debug("loading provinces", zap.String("department_id", departmentID))
			return s.repo.ProvincesOf(ctx, departmentID)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}
	return out, nil
}

func (s *UbigeoService) Districts(ctx context.Context, provinceID string) ([]models.District, error) {
	out, err := cache.Remember(ctx, s.store, "districts_prov_"+provinceID, s.ttl,
		func(ctx context.Context) ([]models.District, error) {
			s.logger.Debug("loading districts", zap.String("province_id", provinceID))
			return s.repo.DistrictsOf(ctx, provinceID)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}
	return out, nil
}

type CatalogRepository interface {
	Positions(ctx context.Context) ([]models.Position, error)
	Banks(ctx context.Context) ([]models.Bank, error)
	PensionSystems(ctx context.Context) ([]models.PensionSystem, error)
}

// CatalogService lists the payroll master catalogs used by worker forms.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Positions(ctx context.Context) ([]models.Position, error) {
	out, err := s.repo.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return out, nil
}

func (s *CatalogService) Banks(ctx context.Context) ([]models.Bank, error) {
	out, err := s.repo.Banks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	return out, nil
}

func (s *CatalogService) PensionSystems(ctx context.Context) ([]models.PensionSystem, error) {
	out, err := s.repo.PensionSystems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pension systems: %w", err)
	}
	return out, nil
}
