package db

import (
	"context"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/tree"
	"gorm.io/gorm/clause"
)

// "group" is a reserved word, so every condition on it goes through clause
// builders that quote the column.
var groupColumn = clause.Column{Name: "group"}

func (r *Repository) CreateParameter(ctx context.Context, p *models.Parameter) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *Repository) GetParameter(ctx context.Context, id uint) (*models.Parameter, error) {
	var p models.Parameter
	if err := r.db.WithContext(ctx).Preload("Parent").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// UpdateParameter writes every editable column, zero values included.
func (r *Repository) UpdateParameter(ctx context.Context, p *models.Parameter) error {
	result := r.db.WithContext(ctx).Model(&models.Parameter{ID: p.ID}).
		Select("Group", "Name", "Description", "ParentID", "Level", "IsActive").
		Omit(clause.Associations).
		Updates(p)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(r.db.WithContext(ctx).Select("id").First(&models.Parameter{}, p.ID).Error)
	}
	return nil
}

// SetParameterLevel moves a batch of parameters to the same level.
func (r *Repository) SetParameterLevel(ctx context.Context, ids []uint, level int) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.Parameter{}).
		Where("id IN ?", ids).
		Update("level", level).Error)
}

// ParameterForest loads the id/parent pairs of the whole taxonomy.
func (r *Repository) ParameterForest(ctx context.Context) (*tree.Forest, error) {
	var rows []tree.Node
	err := r.db.WithContext(ctx).Model(&models.Parameter{}).
		Select("id", "parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return tree.New(rows), nil
}

func (r *Repository) DeleteParameters(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Parameter{})
	return result.RowsAffected, translate(result.Error)
}

// ListParameters orders by level, group then id; the admin tree view relies on it.
func (r *Repository) ListParameters(ctx context.Context, q models.ListQuery) (models.Page[models.Parameter], error) {
	query := r.db.WithContext(ctx).Model(&models.Parameter{}).Preload("Parent")
	if q.Search != "" {
		pattern := like(q.Search)
		query = query.Where(clause.Or(
			clause.Like{Column: clause.Column{Name: "name"}, Value: pattern},
			clause.Like{Column: groupColumn, Value: pattern},
			clause.Like{Column: clause.Column{Name: "description"}, Value: pattern},
		))
	}
	query = query.Order("level ASC").
		Order(clause.OrderByColumn{Column: groupColumn}).
		Order("id ASC")
	return paginate[models.Parameter](query, q)
}

func (r *Repository) ParametersByGroup(ctx context.Context, group string, activeOnly bool) ([]models.Parameter, error) {
	query := r.db.WithContext(ctx).Where(clause.Eq{Column: groupColumn, Value: group})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var out []models.Parameter
	if err := query.Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *Repository) RootParameters(ctx context.Context) ([]models.Parameter, error) {
	var out []models.Parameter
	err := r.db.WithContext(ctx).
		Where("level = ? AND is_active = ?", 0, true).
		Order("name ASC").
		Find(&out).Error
	return out, translate(err)
}

// ParentCandidates lists active parameters that may receive children.
func (r *Repository) ParentCandidates(ctx context.Context, maxLevel int) ([]models.Parameter, error) {
	var out []models.Parameter
	err := r.db.WithContext(ctx).
		Where("level <= ? AND is_active = ?", maxLevel, true).
		Order("level ASC").
		Order("name ASC").
		Find(&out).Error
	return out, translate(err)
}

// ParameterInGroup reports whether id names a parameter of the given group.
func (r *Repository) ParameterInGroup(ctx context.Context, id uint, group string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Parameter{}).
		Where("id = ?", id).
		Where(clause.Eq{Column: groupColumn, Value: group}).
		Count(&count).Error
	return count > 0, translate(err)
}
