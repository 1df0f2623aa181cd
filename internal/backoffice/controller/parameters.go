package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/backoffice/internal/backoffice/db"
	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"go.uber.org/zap"
)

// MaxParentLevel is the deepest level offered as a parent in selectors.
const MaxParentLevel = 1

type ParameterRepository interface {
	CreateParameter(ctx context.Context, p *models.Parameter) error
	GetParameter(ctx context.Context, id uint) (*models.Parameter, error)
	ListParameters(ctx context.Context, q models.ListQuery) (models.Page[models.Parameter], error)
	ParametersByGroup(ctx context.Context, group string, activeOnly bool) ([]models.Parameter, error)
	RootParameters(ctx context.Context) ([]models.Parameter, error)
	ParentCandidates(ctx context.Context, maxLevel int) ([]models.Parameter, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// ParameterService maintains the global parameter taxonomy.
type ParameterService struct {
	repo      ParameterRepository
	producer  EventProducer
	validator Validator
	logger    *zap.Logger
}

func NewParameterService(repo ParameterRepository, producer EventProducer, validator Validator, logger *zap.Logger) *ParameterService {
	return &ParameterService{
		repo:      repo,
		producer:  producer,
		validator: validator,
		logger:    logger.Named("parameter_service"),
	}
}

type parentGetter interface {
	GetParameter(ctx context.Context, id uint) (*models.Parameter, error)
}

// levelFor returns the level implied by parentID: 0 for roots, parent+1
// otherwise.
func levelFor(ctx context.Context, repo parentGetter, parentID *uint) (int, error) {
	if parentID == nil {
		return 0, nil
	}
	parent, err := repo.GetParameter(ctx, *parentID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return 0, fmt.Errorf("%w: parent parameter %d", e.ErrNotFound, *parentID)
		}
		return 0, fmt.Errorf("failed to get parent parameter: %w", err)
	}
	return parent.Level + 1, nil
}

// CreateParameter stores a new parameter one level below its parent, or at
// level 0 without parent.
func (s *ParameterService) CreateParameter(ctx context.Context, input models.ParameterInput) (*models.Parameter, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	level, err := levelFor(ctx, s.repo, input.ParentID)
	if err != nil {
		return nil, err
	}

	p := &models.Parameter{
		Group:       input.Group,
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
		Level:       level,
		IsActive:    input.IsActive,
	}
	if err := s.repo.CreateParameter(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create parameter: %w", err)
	}
	s.producer.Produce(events.ParameterCreated, key(p.ID), p)
	return p, nil
}

// UpdateParameter rewrites a parameter and, when its level moves, the
// levels of its whole subtree. Moving a parameter below itself or one of its
// descendants is rejected.
func (s *ParameterService) UpdateParameter(ctx context.Context, id uint, input models.ParameterInput) (*models.Parameter, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	var updated *models.Parameter
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current, err := tx.GetParameter(ctx, id)
		if err != nil {
			return err
		}
		forest, err := tx.ParameterForest(ctx)
		if err != nil {
			return fmt.Errorf("failed to load parameter tree: %w", err)
		}
		if !forest.CanReparent(id, input.ParentID) {
			return e.NewValidationError("parent_id", "cannot be the parameter itself or one of its descendants")
		}
		level, err := levelFor(ctx, tx, input.ParentID)
		if err != nil {
			return err
		}

		previous := current.Level
		current.Group = input.Group
		current.Name = input.Name
		current.Description = input.Description
		current.ParentID = input.ParentID
		current.Level = level
		current.IsActive = input.IsActive
		current.Parent = nil
		if err := tx.UpdateParameter(ctx, current); err != nil {
			return err
		}

		if level != previous {
			for depth, ids := range forest.Levels(id) {
				if err := tx.SetParameterLevel(ctx, ids, level+depth+1); err != nil {
					return fmt.Errorf("failed to move subtree: %w", err)
				}
			}
		}
		updated = current
		return nil
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update parameter: %w", err)
	}
	s.producer.Produce(events.ParameterUpdated, key(updated.ID), updated)
	return updated, nil
}

// DeleteParameter removes a parameter and every descendant, deepest level
// first, in one transaction. It returns the number of removed rows. Rows
// still referenced elsewhere make the whole delete fail with ErrConstraint on
// engines enforcing foreign keys.
func (s *ParameterService) DeleteParameter(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if _, err := tx.GetParameter(ctx, id); err != nil {
			return err
		}
		forest, err := tx.ParameterForest(ctx)
		if err != nil {
			return fmt.Errorf("failed to load parameter tree: %w", err)
		}
		levels := forest.Levels(id)
		for i := len(levels) - 1; i >= 0; i-- {
			n, err := tx.DeleteParameters(ctx, levels[i])
			if err != nil {
				return err
			}
			removed += n
		}
		n, err := tx.DeleteParameters(ctx, []uint{id})
		if err != nil {
			return err
		}
		removed += n
		return nil
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to delete parameter: %w", err)
	}

	s.logger.Info("parameter deleted",
		zap.Uint("parameter_id", id),
		zap.Int64("removed", removed),
	)
	s.producer.Produce(events.ParameterDeleted, key(id), map[string]int64{"removed": removed})
	return removed, nil
}

func (s *ParameterService) GetParameter(ctx context.Context, id uint) (*models.Parameter, error) {
	p, err := s.repo.GetParameter(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get parameter: %w", err)
	}
	return p, nil
}

// ListParameters pages through parameters ordered by level, group and id.
func (s *ParameterService) ListParameters(ctx context.Context, q models.ListQuery) (models.Page[models.Parameter], error) {
	page, err := s.repo.ListParameters(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list parameters: %w", err)
	}
	return page, nil
}

func (s *ParameterService) ListByGroup(ctx context.Context, group string, activeOnly bool) ([]models.Parameter, error) {
	out, err := s.repo.ParametersByGroup(ctx, group, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters of group %s: %w", group, err)
	}
	return out, nil
}

func (s *ParameterService) ListRoots(ctx context.Context) ([]models.Parameter, error) {
	out, err := s.repo.RootParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list root parameters: %w", err)
	}
	return out, nil
}

// ParentOptions lists the active parameters that can receive children.
func (s *ParameterService) ParentOptions(ctx context.Context) ([]models.Parameter, error) {
	out, err := s.repo.ParentCandidates(ctx, MaxParentLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list parent options: %w", err)
	}
	return out, nil
}
