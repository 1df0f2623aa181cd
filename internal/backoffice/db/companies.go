package db

import (
	"context"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"gorm.io/gorm/clause"
)

var companyColumns = []string{
	"RUC", "Name", "Email", "Phone", "Address", "IssuesPaymentOrder",
	"LegalRepresentative", "RepresentativeDNI", "RepresentativePhone",
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

func (r *Repository) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// UpdateCompany writes the editable columns. The logo column is only touched
// when withLogo is set, so an update without upload keeps the stored logo.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company, withLogo bool) error {
	columns := companyColumns
	if withLogo {
		columns = append(append([]string(nil), companyColumns...), "LogoPath")
	}
	result := r.db.WithContext(ctx).Model(&models.Company{ID: company.ID}).
		Select(columns).
		Updates(company)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		_, err := r.GetCompany(ctx, company.ID)
		return err
	}
	return nil
}

// DeleteCompany removes the company with its memberships and detaches the
// projects it owned. Workers still referencing it make the delete fail with a
// constraint error on engines that enforce foreign keys.
func (r *Repository) DeleteCompany(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("company_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Unscoped().Model(&models.Project{}).
		Where("company_id = ?", id).
		Update("company_id", nil).Error; err != nil {
		return translate(err)
	}
	result := db.Delete(&models.Company{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListCompanies(ctx context.Context, q models.ListQuery) (models.Page[models.Company], error) {
	query := r.db.WithContext(ctx).Model(&models.Company{})
	if q.Search != "" {
		pattern := like(q.Search)
		query = query.Where(clause.Or(
			clause.Like{Column: clause.Column{Name: "name"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "ruc"}, Value: pattern},
		))
	}
	return paginate[models.Company](query.Order("id DESC"), q)
}

func (r *Repository) CompanyOptions(ctx context.Context) ([]models.Option, error) {
	var out []models.Option
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Select("id", "name").
		Order("name ASC").
		Scan(&out).Error
	return out, translate(err)
}

// ExistingCompanyIDs returns the subset of ids that name stored companies.
func (r *Repository) ExistingCompanyIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error
	return out, translate(err)
}
