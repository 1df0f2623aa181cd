package db

import (
	"context"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"gorm.io/gorm/clause"
)

// SaveAttendance upserts the record of a worker on a project for one day.
func (r *Repository) SaveAttendance(ctx context.Context, a *models.Attendance) error {
	var existing models.Attendance
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND project_id = ? AND date = ?", a.WorkerID, a.ProjectID, a.Date).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return translate(err)
	}
	if existing.ID != 0 {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error)
}

// ListAttendance returns the records of a project between two dates,
// both inclusive.
func (r *Repository) ListAttendance(ctx context.Context, projectID uint, from, to time.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Preload("Status").
		Where("project_id = ? AND date BETWEEN ? AND ?", projectID, from, to).
		Order("date ASC").
		Order("worker_id ASC").
		Find(&out).Error
	return out, translate(err)
}
