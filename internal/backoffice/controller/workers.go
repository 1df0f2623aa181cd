package controller

import (
	"context"
	"errors"
	"fmt"
	"io"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/export"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const exportBatchSize = 200

type WorkerRepository interface {
	CreateWorker(ctx context.Context, worker *models.Worker) error
	GetWorker(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	UpdateWorker(ctx context.Context, worker *models.Worker, withPhoto bool) error
	DeleteWorker(ctx context.Context, id uuid.UUID) error
	ListWorkers(ctx context.Context, q models.ListQuery) (models.Page[models.Worker], error)
	EachWorker(ctx context.Context, batchSize int, fn func(batch []models.Worker) error) error
	DocumentNumberTaken(ctx context.Context, number string, except *uuid.UUID) (bool, error)
}

// WorkerService manages the workforce registry. Workers are addressed by
// their generated UUID only.
type WorkerService struct {
	repo      WorkerRepository
	producer  EventProducer
	validator Validator
	files     FileStore
	bucket    string
	logger    *zap.Logger
	newUUID   func() uuid.UUID
}

func NewWorkerService(repo WorkerRepository, producer EventProducer, validator Validator, files FileStore, bucket string, logger *zap.Logger) *WorkerService {
	return &WorkerService{
		repo:      repo,
		producer:  producer,
		validator: validator,
		files:     files,
		bucket:    bucket,
		logger:    logger.Named("worker_service"),
		newUUID:   uuid.New,
	}
}

func applyWorkerInput(w *models.Worker, in models.WorkerInput) {
	w.DocumentTypeID = in.DocumentTypeID
	w.DocumentNumber = in.DocumentNumber
	w.FirstName = in.FirstName
	w.LastNamePaternal = in.LastNamePaternal
	w.LastNameMaternal = in.LastNameMaternal
	w.BirthDate = in.BirthDate
	w.GenderID = in.GenderID
	w.Phone = in.Phone
	w.Email = in.Email
	w.Address = in.Address
	w.WorkerTypeID = in.WorkerTypeID
	w.PositionID = in.PositionID
	w.ProjectID = in.ProjectID
	w.CompanyID = in.CompanyID
	w.DailySalary = in.DailySalary
	w.MonthlySalary = in.MonthlySalary
	w.PaymentTypeID = in.PaymentTypeID
	w.BankID = in.BankID
	w.PensionSystemID = in.PensionSystemID
	w.BankAccount = in.BankAccount
	w.CCI = in.CCI
	w.CUSPP = in.CUSPP
	w.HireDate = in.HireDate
	w.IsActive = in.IsActive
}

// validate checks the payload and that no other worker holds the document
// number. except excludes the worker being updated.
func (s *WorkerService) validate(ctx context.Context, input models.WorkerInput, except *uuid.UUID) error {
	salaries := &e.ValidationError{}
	if input.DailySalary.LessThan(decimal.Zero) {
		salaries.Add("daily_salary", "must be at least 0")
	}
	if input.MonthlySalary.LessThan(decimal.Zero) {
		salaries.Add("monthly_salary", "must be at least 0")
	}
	if err := mergeValidation(s.validator.Struct(input), salaries.OrNil()); err != nil {
		return err
	}

	taken, err := s.repo.DocumentNumberTaken(ctx, input.DocumentNumber, except)
	if err != nil {
		return fmt.Errorf("failed to check document number: %w", err)
	}
	if taken {
		return e.NewValidationError("document_number", "is already registered")
	}
	return nil
}

// CreateWorker registers a worker under a freshly generated UUID.
func (s *WorkerService) CreateWorker(ctx context.Context, input models.WorkerInput, photo *storage.Upload) (*models.Worker, error) {
	if err := s.validate(ctx, input, nil); err != nil {
		return nil, err
	}
	photoPath, err := storeUpload(ctx, s.files, s.bucket, photo)
	if err != nil {
		return nil, err
	}

	worker := &models.Worker{UUID: s.newUUID(), PhotoPath: photoPath}
	applyWorkerInput(worker, input)
	if err := s.repo.CreateWorker(ctx, worker); err != nil {
		s.files.Remove(ctx, photoPath)
		if errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	s.logger.Info("worker created", zap.String("worker_uuid", worker.UUID.String()))
	s.producer.Produce(events.WorkerCreated, worker.UUID.String(), worker)
	return worker, nil
}

// UpdateWorker rewrites the worker identified by id. A new photo replaces the
// stored file after the update.
func (s *WorkerService) UpdateWorker(ctx context.Context, id uuid.UUID, input models.WorkerInput, photo *storage.Upload) (*models.Worker, error) {
	worker, err := s.repo.GetWorker(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	if err := s.validate(ctx, input, &id); err != nil {
		return nil, err
	}

	photoPath, err := storeUpload(ctx, s.files, s.bucket, photo)
	if err != nil {
		return nil, err
	}
	previous := worker.PhotoPath
	applyWorkerInput(worker, input)
	if photoPath != nil {
		worker.PhotoPath = photoPath
	}

	if err := s.repo.UpdateWorker(ctx, worker, photoPath != nil); err != nil {
		s.files.Remove(ctx, photoPath)
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	if photoPath != nil {
		s.files.Remove(ctx, previous)
	}

	updated, err := s.repo.GetWorker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload worker: %w", err)
	}
	s.producer.Produce(events.WorkerUpdated, id.String(), updated)
	return updated, nil
}

// DeleteWorker soft-deletes the worker. The photo is kept so the record can
// be restored.
func (s *WorkerService) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteWorker(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete worker: %w", err)
	}
	s.producer.Produce(events.WorkerDeleted, id.String(), map[string]string{"uuid": id.String()})
	return nil
}

func (s *WorkerService) GetWorker(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	worker, err := s.repo.GetWorker(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return worker, nil
}

func (s *WorkerService) ListWorkers(ctx context.Context, q models.ListQuery) (models.Page[models.Worker], error) {
	page, err := s.repo.ListWorkers(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list workers: %w", err)
	}
	return page, nil
}

// ExportWorkers writes the whole roster as an xlsx workbook to w.
func (s *WorkerService) ExportWorkers(ctx context.Context, w io.Writer) error {
	rows, err := export.Roster(w, func(fn func([]models.Worker) error) error {
		return s.repo.EachWorker(ctx, exportBatchSize, fn)
	})
	if err != nil {
		return fmt.Errorf("failed to export workers: %w", err)
	}
	s.logger.Info("worker roster exported", zap.Int("rows", rows))
	return nil
}
