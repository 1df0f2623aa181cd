package db

import (
	"context"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var workerColumns = []string{
	"DocumentTypeID", "DocumentNumber", "FirstName", "LastNamePaternal",
	"LastNameMaternal", "BirthDate", "GenderID", "Phone", "Email", "Address",
	"WorkerTypeID", "PositionID", "ProjectID", "CompanyID", "DailySalary",
	"MonthlySalary", "PaymentTypeID", "BankID", "PensionSystemID",
	"BankAccount", "CCI", "CUSPP", "HireDate", "IsActive",
}

func preloadWorker(db *gorm.DB) *gorm.DB {
	return db.Preload("DocumentType").
		Preload("Gender").
		Preload("WorkerType").
		Preload("PaymentType").
		Preload("Position").
		Preload("Project").
		Preload("Company").
		Preload("Bank").
		Preload("PensionSystem")
}

func (r *Repository) CreateWorker(ctx context.Context, worker *models.Worker) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(worker).Error)
}

func (r *Repository) GetWorker(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	var worker models.Worker
	if err := preloadWorker(r.db.WithContext(ctx)).Where("uuid = ?", id).First(&worker).Error; err != nil {
		return nil, translate(err)
	}
	return &worker, nil
}

// UpdateWorker updates by numeric id; the UUID column is never written.
func (r *Repository) UpdateWorker(ctx context.Context, worker *models.Worker, withPhoto bool) error {
	columns := workerColumns
	if withPhoto {
		columns = append(append([]string(nil), workerColumns...), "PhotoPath")
	}
	result := r.db.WithContext(ctx).Model(&models.Worker{ID: worker.ID}).
		Select(columns).
		Omit(clause.Associations).
		Updates(worker)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteWorker soft-deletes the worker identified by its UUID.
func (r *Repository) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ?", id).Delete(&models.Worker{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListWorkers(ctx context.Context, q models.ListQuery) (models.Page[models.Worker], error) {
	query := preloadWorker(r.db.WithContext(ctx).Model(&models.Worker{}))
	if q.Search != "" {
		pattern := like(q.Search)
		query = query.Where(clause.Or(
			clause.Like{Column: clause.Column{Name: "document_number"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "first_name"}, Value: pattern},
			clause.Like{Column: clause.Column{Name: "last_name_paternal"}, Value: pattern},
		))
	}
	return paginate[models.Worker](query.Order("id DESC"), q)
}

// EachWorker streams the whole roster in batches ordered by id.
func (r *Repository) EachWorker(ctx context.Context, batchSize int, fn func(batch []models.Worker) error) error {
	var batch []models.Worker
	result := preloadWorker(r.db.WithContext(ctx)).
		Order("id ASC").
		FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})
	return translate(result.Error)
}

// DocumentNumberTaken reports whether another worker already uses the
// document number. Soft-deleted workers still hold their number. except, when
// set, excludes that worker from the check.
func (r *Repository) DocumentNumberTaken(ctx context.Context, number string, except *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Unscoped().Model(&models.Worker{}).Where("document_number = ?", number)
	if except != nil {
		query = query.Where("uuid <> ?", *except)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, translate(err)
}

// WorkersByUUID resolves external ids to stored workers. Unknown ids are
// silently skipped; callers compare lengths.
func (r *Repository) WorkersByUUID(ctx context.Context, ids []uuid.UUID) ([]models.Worker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Worker
	err := r.db.WithContext(ctx).Where("uuid IN ?", ids).Order("id ASC").Find(&out).Error
	return out, translate(err)
}
