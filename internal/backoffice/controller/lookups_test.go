package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/cache"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockUbigeoRepository counts loads per lookup.
type MockUbigeoRepository struct {
	provinces     func(context.Context, string) ([]models.Province, error)
	districts     func(context.Context, string) ([]models.District, error)
	provinceLoads int
	districtLoads int
}

func (m *MockUbigeoRepository) Departments(context.Context) ([]models.Department, error) {
	return []models.Department{{ID: "15", Name: "LIMA"}}, nil
}

func (m *MockUbigeoRepository) ProvincesOf(ctx context.Context, id string) ([]models.Province, error) {
	m.provinceLoads++
	return m.provinces(ctx, id)
}

func (m *MockUbigeoRepository) DistrictsOf(ctx context.Context, id string) ([]models.District, error) {
	m.districtLoads++
	return m.districts(ctx, id)
}

func TestUbigeoService_MemoisesLookups(t *testing.T) {
	repo := &MockUbigeoRepository{
		provinces: func(_ context.Context, id string) ([]models.Province, error) {
			return []models.Province{{ID: id + "01", Name: "LIMA", DepartmentID: id}}, nil
		},
		districts: func(_ context.Context, id string) ([]models.District, error) {
			return []models.District{{ID: id + "01", Name: "LIMA", ProvinceID: id}}, nil
		},
	}
	store := cache.NewMemory()
	svc := NewUbigeoService(repo, store, time.Hour, zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		provinces, err := svc.Provinces(ctx, "15")
		require.NoError(t, err)
		require.Len(t, provinces, 1)
		assert.Equal(t, "1501", provinces[0].ID)
	}
	assert.Equal(t, 1, repo.provinceLoads)

	_, ok, err := store.Get(ctx, "provinces_dept_15")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Provinces(ctx, "04")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.provinceLoads)

	for i := 0; i < 2; i++ {
		_, err := svc.Districts(ctx, "1501")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.districtLoads)
	_, ok, _ = store.Get(ctx, "districts_prov_1501")
	assert.True(t, ok)

	departments, err := svc.Departments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 1)
}

func TestUbigeoService_DoesNotCacheFailures(t *testing.T) {
	boom := errors.New("database error")
	repo := &MockUbigeoRepository{
		provinces: func(context.Context, string) ([]models.Province, error) { return nil, boom },
	}
	svc := NewUbigeoService(repo, cache.NewMemory(), time.Hour, zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		_, err := svc.Provinces(context.Background(), "15")
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 2, repo.provinceLoads)
}

func TestUbigeoService_AgainstDatabase(t *testing.T) {
	repo := setupRepo(t)
	seedLima(t, repo)
	svc := NewUbigeoService(repo, cache.NewMemory(), time.Hour, zaptest.NewLogger(t))

	districts, err := svc.Districts(context.Background(), "1501")
	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, "LIMA", districts[0].Name)
	assert.Equal(t, "MIRAFLORES", districts[1].Name)
}

func TestCatalogService(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, []models.Position{{Name: "Operario", IsActive: true}, {Name: "Peón", IsActive: true}}))
	require.NoError(t, repo.Seed(ctx, []models.Bank{{Name: "Banco de Crédito del Perú", ShortName: "BCP"}}))
	require.NoError(t, repo.Seed(ctx, []models.PensionSystem{{Name: "ONP", Type: "PUBLIC", IsActive: true}}))

	svc := NewCatalogService(repo)
	positions, err := svc.Positions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 2)
	banks, err := svc.Banks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BCP", banks[0].ShortName)
	pensions, err := svc.PensionSystems(ctx)
	require.NoError(t, err)
	assert.Len(t, pensions, 1)
}
