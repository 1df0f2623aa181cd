package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SafetyTalkRepository interface {
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	GetWorker(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	WorkersByUUID(ctx context.Context, ids []uuid.UUID) ([]models.Worker, error)
	CreateSafetyTalk(ctx context.Context, talk *models.SafetyTalk) error
	GetSafetyTalk(ctx context.Context, id uint) (*models.SafetyTalk, error)
	ListSafetyTalks(ctx context.Context, projectID uint) ([]models.SafetyTalk, error)
	SignSafetyTalk(ctx context.Context, talkID, workerID uint) error
}

// SafetyTalkService records toolbox talks and their signed attendance.
type SafetyTalkService struct {
	repo      SafetyTalkRepository
	validator Validator
	files     FileStore
	bucket    string
	logger    *zap.Logger
}

func NewSafetyTalkService(repo SafetyTalkRepository, validator Validator, files FileStore, bucket string, logger *zap.Logger) *SafetyTalkService {
	return &SafetyTalkService{
		repo:      repo,
		validator: validator,
		files:     files,
		bucket:    bucket,
		logger:    logger.Named("safety_talk_service"),
	}
}

// participants resolves the distinct worker UUIDs of a talk. Unknown ids
// fail validation.
func (s *SafetyTalkService) participants(ctx context.Context, raw []string) ([]models.SafetyTalkParticipant, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for i, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, e.NewValidationError(fmt.Sprintf("worker_uuids.%d", i), "must be a valid UUID")
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	workers, err := s.repo.WorkersByUUID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workers: %w", err)
	}
	if len(workers) != len(ids) {
		found := make(map[uuid.UUID]bool, len(workers))
		for _, w := range workers {
			found[w.UUID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, e.NewValidationError("worker_uuids", fmt.Sprintf("worker %s does not exist", id))
			}
		}
	}

	out := make([]models.SafetyTalkParticipant, 0, len(workers))
	for _, w := range workers {
		out = append(out, models.SafetyTalkParticipant{WorkerID: w.ID})
	}
	return out, nil
}

// CreateSafetyTalk stores a talk held on a project with its expected
// participants and an optional evidence photo.
func (s *SafetyTalkService) CreateSafetyTalk(ctx context.Context, projectID uint, input models.SafetyTalkInput, evidence *storage.Upload) (*models.SafetyTalk, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	participants, err := s.participants(ctx, input.WorkerUUIDs)
	if err != nil {
		return nil, err
	}

	evidencePath, err := storeUpload(ctx, s.files, s.bucket, evidence)
	if err != nil {
		return nil, err
	}
	talk := &models.SafetyTalk{
		ProjectID:      projectID,
		Date:           day(input.Date),
		Topic:          input.Topic,
		Description:    input.Description,
		InstructorName: input.InstructorName,
		EvidencePath:   evidencePath,
		Participants:   participants,
	}
	if err := s.repo.CreateSafetyTalk(ctx, talk); err != nil {
		s.files.Remove(ctx, evidencePath)
		return nil, fmt.Errorf("failed to create safety talk: %w", err)
	}

	s.logger.Info("safety talk created",
		zap.Uint("safety_talk_id", talk.ID),
		zap.Uint("project_id", projectID),
		zap.Int("participants", len(participants)),
	)
	return s.repo.GetSafetyTalk(ctx, talk.ID)
}

// SignAttendance marks the worker's participation in the talk as signed.
func (s *SafetyTalkService) SignAttendance(ctx context.Context, talkID uint, workerID uuid.UUID) error {
	worker, err := s.repo.GetWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get worker: %w", err)
	}
	if err := s.repo.SignSafetyTalk(ctx, talkID, worker.ID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return fmt.Errorf("%w: worker %s is not a participant of talk %d", err, workerID, talkID)
		}
		return fmt.Errorf("failed to sign safety talk: %w", err)
	}
	return nil
}

func (s *SafetyTalkService) GetSafetyTalk(ctx context.Context, id uint) (*models.SafetyTalk, error) {
	talk, err := s.repo.GetSafetyTalk(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get safety talk: %w", err)
	}
	return talk, nil
}

func (s *SafetyTalkService) ListSafetyTalks(ctx context.Context, projectID uint) ([]models.SafetyTalk, error) {
	out, err := s.repo.ListSafetyTalks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list safety talks: %w", err)
	}
	return out, nil
}
