package db

import (
	"context"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var consortiumColumns = []string{
	"RUC", "Name", "LegalRepresentative", "RepresentativeDNI",
	"RepresentativeEmail", "RepresentativePhone",
}

func preloadMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).Preload("Members.Company")
}

func (r *Repository) CreateConsortium(ctx context.Context, consortium *models.Consortium) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(consortium).Error)
}

func (r *Repository) GetConsortium(ctx context.Context, id uint) (*models.Consortium, error) {
	var consortium models.Consortium
	if err := preloadMembers(r.db.WithContext(ctx)).First(&consortium, id).Error; err != nil {
		return nil, translate(err)
	}
	return &consortium, nil
}

func (r *Repository) UpdateConsortium(ctx context.Context, consortium *models.Consortium, withLogo bool) error {
	columns := consortiumColumns
	if withLogo {
		columns = append(append([]string(nil), consortiumColumns...), "LogoPath")
	}
	result := r.db.WithContext(ctx).Model(&models.Consortium{ID: consortium.ID}).
		Select(columns).
		Omit(clause.Associations).
		Updates(consortium)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(r.db.WithContext(ctx).Select("id").First(&models.Consortium{}, consortium.ID).Error)
	}
	return nil
}

// DeleteConsortium removes the consortium and its memberships and detaches
// the projects it owned.
func (r *Repository) DeleteConsortium(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("consortium_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Unscoped().Model(&models.Project{}).
		Where("consortium_id = ?", id).
		Update("consortium_id", nil).Error; err != nil {
		return translate(err)
	}
	result := db.Delete(&models.Consortium{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListConsortia(ctx context.Context, q models.ListQuery) (models.Page[models.Consortium], error) {
	query := preloadMembers(r.db.WithContext(ctx).Model(&models.Consortium{}))
	if q.Search != "" {
		pattern := like(q.Search)
		query = query.Where(clause.Or(
			clause.Like{Column: clause.Column{Name: "name"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "ruc"}, Value: pattern},
		))
	}
	return paginate[models.Consortium](query.Order("id DESC"), q)
}

func (r *Repository) ConsortiumOptions(ctx context.Context) ([]models.Option, error) {
	var out []models.Option
	err := r.db.WithContext(ctx).Model(&models.Consortium{}).
		Select("id", "name").
		Order("name ASC").
		Scan(&out).Error
	return out, translate(err)
}

// Memberships returns the current members of a consortium ordered by id.
func (r *Repository) Memberships(ctx context.Context, consortiumID uint) ([]models.Membership, error) {
	var out []models.Membership
	err := r.db.WithContext(ctx).
		Where("consortium_id = ?", consortiumID).
		Order("id ASC").
		Find(&out).Error
	return out, translate(err)
}

func (r *Repository) DeleteMemberships(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Membership{}).Error)
}

func (r *Repository) UpdateMembershipPercentage(ctx context.Context, id uint, percentage decimal.Decimal) error {
	return translate(r.db.WithContext(ctx).Model(&models.Membership{ID: id}).
		Update("participation_percentage", percentage).Error)
}

func (r *Repository) CreateMemberships(ctx context.Context, memberships []models.Membership) error {
	if len(memberships) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&memberships).Error)
}
