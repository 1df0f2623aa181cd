package db

import (
	"context"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"gorm.io/gorm/clause"
)

func (r *Repository) Departments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, translate(err)
}

func (r *Repository) ProvincesOf(ctx context.Context, departmentID string) ([]models.Province, error) {
	var out []models.Province
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&out).Error
	return out, translate(err)
}

func (r *Repository) DistrictsOf(ctx context.Context, provinceID string) ([]models.District, error) {
	var out []models.District
	err := r.db.WithContext(ctx).
		Where("province_id = ?", provinceID).
		Order("name ASC").
		Find(&out).Error
	return out, translate(err)
}

// DistrictInProvince checks the department/province/district chain.
func (r *Repository) DistrictInProvince(ctx context.Context, departmentID, provinceID, districtID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.District{}).
		Where("id = ? AND province_id = ? AND department_id = ?", districtID, provinceID, departmentID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *Repository) Positions(ctx context.Context) ([]models.Position, error) {
	var out []models.Position
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&out).Error
	return out, translate(err)
}

func (r *Repository) Banks(ctx context.Context) ([]models.Bank, error) {
	var out []models.Bank
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, translate(err)
}

func (r *Repository) PensionSystems(ctx context.Context) ([]models.PensionSystem, error) {
	var out []models.PensionSystem
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&out).Error
	return out, translate(err)
}

// Seed inserts rows that are not present yet, matching on primary key.
func (r *Repository) Seed(ctx context.Context, rows interface{}) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error)
}
