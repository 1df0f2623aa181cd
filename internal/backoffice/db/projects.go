package db

import (
	"context"
	"errors"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var projectColumns = []string{
	"ProjectCode", "ProjectName", "ShortName", "TypeID", "StatusID",
	"ContractualAmount", "ProjectedAmount", "StartDate", "EndDateContractual",
	"EndDateReal", "DepartmentID", "ProvinceID", "DistrictID", "Address",
	"CompanyID", "ConsortiumID",
}

func preloadProject(db *gorm.DB) *gorm.DB {
	return db.Preload("Type").
		Preload("Status").
		Preload("Department").
		Preload("Province").
		Preload("District").
		Preload("Company").
		Preload("Consortium.Members.Company")
}

func (r *Repository) CreateProject(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error)
}

func (r *Repository) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := preloadProject(r.db.WithContext(ctx)).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *Repository) UpdateProject(ctx context.Context, project *models.Project, withCover bool) error {
	columns := projectColumns
	if withCover {
		columns = append(append([]string(nil), projectColumns...), "CoverImage")
	}
	result := r.db.WithContext(ctx).Model(&models.Project{ID: project.ID}).
		Select(columns).
		Omit(clause.Associations).
		Updates(project)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(r.db.WithContext(ctx).Select("id").First(&models.Project{}, project.ID).Error)
	}
	return nil
}

// DeleteProject soft-deletes the project.
func (r *Repository) DeleteProject(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListProjects(ctx context.Context, q models.ListQuery) (models.Page[models.Project], error) {
	query := preloadProject(r.db.WithContext(ctx).Model(&models.Project{}))
	if q.Search != "" {
		pattern := like(q.Search)
		query = query.Where(clause.Or(
			clause.Like{Column: clause.Column{Name: "project_name"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "project_code"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "short_name"}, Value: pattern},
		))
	}
	return paginate[models.Project](query.Order("id DESC"), q)
}

func (r *Repository) ProjectOptions(ctx context.Context) ([]models.Option, error) {
	var out []models.Option
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Select("id", "short_name AS name").
		Order("short_name ASC").
		Scan(&out).Error
	return out, translate(err)
}

// LatestProjectCode returns the code of the most recently inserted project
// whose code starts with prefix, soft-deleted rows included. ok is false when
// no such project exists.
func (r *Repository) LatestProjectCode(ctx context.Context, prefix string) (code string, ok bool, err error) {
	var project models.Project
	err = r.db.WithContext(ctx).Unscoped().
		Select("id", "project_code").
		Where("project_code LIKE ?", prefix+"%").
		Order("id DESC").
		Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, translate(err)
	}
	return project.ProjectCode, true, nil
}

// ShortNameTaken reports whether another project, soft-deleted or not, uses
// shortName. except, when set, excludes that project from the check.
func (r *Repository) ShortNameTaken(ctx context.Context, shortName string, except *uint) (bool, error) {
	query := r.db.WithContext(ctx).Unscoped().Model(&models.Project{}).Where("short_name = ?", shortName)
	if except != nil {
		query = query.Where("id <> ?", *except)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, translate(err)
}
