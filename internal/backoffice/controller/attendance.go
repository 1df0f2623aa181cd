package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const clockLayout = "15:04"

type AttendanceRepository interface {
	GetWorker(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	ParameterInGroup(ctx context.Context, id uint, group string) (bool, error)
	SaveAttendance(ctx context.Context, a *models.Attendance) error
	ListAttendance(ctx context.Context, projectID uint, from, to time.Time) ([]models.Attendance, error)
}

// AttendanceService records the daily check-in of workers on projects.
type AttendanceService struct {
	repo      AttendanceRepository
	validator Validator
	logger    *zap.Logger
}

func NewAttendanceService(repo AttendanceRepository, validator Validator, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		repo:      repo,
		validator: validator,
		logger:    logger.Named("attendance_service"),
	}
}

// day drops the clock part of t.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func checkClock(verr *e.ValidationError, field string, value *string) {
	if value == nil {
		return
	}
	if _, err := time.Parse(clockLayout, *value); err != nil {
		verr.Add(field, "must be a time in HH:MM format")
	}
}

// RecordAttendance stores the record of one worker-day on a project,
// replacing any earlier record of the same day.
func (s *AttendanceService) RecordAttendance(ctx context.Context, projectID uint, input models.AttendanceInput) (*models.Attendance, error) {
	verr := &e.ValidationError{}
	checkClock(verr, "check_in", input.CheckIn)
	checkClock(verr, "check_out", input.CheckOut)
	if input.HoursWorked.LessThan(decimal.Zero) {
		verr.Add("hours_worked", "must be at least 0")
	}
	if input.OvertimeHours.LessThan(decimal.Zero) {
		verr.Add("overtime_hours", "must be at least 0")
	}
	if err := mergeValidation(s.validator.Struct(input), verr.OrNil()); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	workerID, err := uuid.Parse(input.WorkerUUID)
	if err != nil {
		return nil, e.NewValidationError("worker_uuid", "must be a valid UUID")
	}
	worker, err := s.repo.GetWorker(ctx, workerID)
	if errors.Is(err, e.ErrNotFound) {
		return nil, e.NewValidationError("worker_uuid", "does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	ok, err := s.repo.ParameterInGroup(ctx, input.StatusID, models.GroupAttendanceStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance status: %w", err)
	}
	if !ok {
		return nil, e.NewValidationError("status_id", "is not an attendance status")
	}

	record := &models.Attendance{
		WorkerID:      worker.ID,
		ProjectID:     projectID,
		Date:          day(input.Date),
		CheckIn:       input.CheckIn,
		CheckOut:      input.CheckOut,
		StatusID:      input.StatusID,
		HoursWorked:   input.HoursWorked,
		OvertimeHours: input.OvertimeHours,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Observation:   input.Observation,
	}
	if err := s.repo.SaveAttendance(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}

	s.logger.Debug("attendance recorded",
		zap.Uint("project_id", projectID),
		zap.String("worker_uuid", workerID.String()),
		zap.Time("date", record.Date),
	)
	record.Worker = worker
	return record, nil
}

// ListAttendance returns the records of a project between from and to,
// both inclusive.
func (s *AttendanceService) ListAttendance(ctx context.Context, projectID uint, from, to time.Time) ([]models.Attendance, error) {
	from, to = day(from), day(to)
	if to.Before(from) {
		return nil, e.NewValidationError("to", "must be a date after or equal to from")
	}
	out, err := s.repo.ListAttendance(ctx, projectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return out, nil
}
