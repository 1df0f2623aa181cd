package db

import (
	"context"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"gorm.io/gorm"
)

// CreateSafetyTalk inserts the talk together with its participants.
func (r *Repository) CreateSafetyTalk(ctx context.Context, talk *models.SafetyTalk) error {
	return translate(r.db.WithContext(ctx).Omit("Participants.Worker").Create(talk).Error)
}

func (r *Repository) GetSafetyTalk(ctx context.Context, id uint) (*models.SafetyTalk, error) {
	var talk models.SafetyTalk
	err := r.db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Participants.Worker").
		First(&talk, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &talk, nil
}

func (r *Repository) ListSafetyTalks(ctx context.Context, projectID uint) ([]models.SafetyTalk, error) {
	var out []models.SafetyTalk
	err := r.db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Participants.Worker").
		Where("project_id = ?", projectID).
		Order("date DESC").
		Order("id DESC").
		Find(&out).Error
	return out, translate(err)
}

// SignSafetyTalk marks the participation of a worker as signed. The worker
// must be listed as a participant of the talk.
func (r *Repository) SignSafetyTalk(ctx context.Context, talkID, workerID uint) error {
	result := r.db.WithContext(ctx).Model(&models.SafetyTalkParticipant{}).
		Where("safety_talk_id = ? AND worker_id = ?", talkID, workerID).
		Update("signed", true)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
