package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/backoffice/internal/backoffice/db"
	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/ledger"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"go.uber.org/zap"
)

type ConsortiumRepository interface {
	GetConsortium(ctx context.Context, id uint) (*models.Consortium, error)
	ListConsortia(ctx context.Context, q models.ListQuery) (models.Page[models.Consortium], error)
	ConsortiumOptions(ctx context.Context) ([]models.Option, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// ConsortiumService manages consortia and reconciles their memberships.
type ConsortiumService struct {
	repo      ConsortiumRepository
	producer  EventProducer
	validator Validator
	files     FileStore
	bucket    string
	logger    *zap.Logger
}

func NewConsortiumService(repo ConsortiumRepository, producer EventProducer, validator Validator, files FileStore, bucket string, logger *zap.Logger) *ConsortiumService {
	return &ConsortiumService{
		repo:      repo,
		producer:  producer,
		validator: validator,
		files:     files,
		bucket:    bucket,
		logger:    logger.Named("consortium_service"),
	}
}

// mergeValidation folds several validation results into one. A
// non-validation error is returned as is.
func mergeValidation(errs ...error) error {
	out := &e.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		v, ok := e.AsValidation(err)
		if !ok {
			return err
		}
		for field, msg := range v.Fields {
			out.Add(field, msg)
		}
	}
	return out.OrNil()
}

func applyConsortiumInput(c *models.Consortium, in models.ConsortiumInput) {
	c.RUC = in.RUC
	c.Name = in.Name
	c.LegalRepresentative = in.LegalRepresentative
	c.RepresentativeDNI = in.RepresentativeDNI
	c.RepresentativeEmail = in.RepresentativeEmail
	c.RepresentativePhone = in.RepresentativePhone
}

// checkCompanies fails with a validation error naming every member whose
// company does not exist.
func checkCompanies(ctx context.Context, tx *db.Repository, members []models.MemberInput) error {
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.CompanyID)
	}
	found, err := tx.ExistingCompanyIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check companies: %w", err)
	}
	exists := make(map[uint]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	verr := &e.ValidationError{}
	for i, m := range members {
		if !exists[m.CompanyID] {
			verr.Add(fmt.Sprintf("selected_companies.%d.company_id", i), fmt.Sprintf("company %d does not exist", m.CompanyID))
		}
	}
	return verr.OrNil()
}

// synchronizeMembers makes the memberships of a consortium match members:
// rows of companies no longer listed are deleted, changed percentages are
// updated and new companies are inserted. It must run inside the caller's
// transaction.
func (s *ConsortiumService) synchronizeMembers(ctx context.Context, tx *db.Repository, consortiumID uint, members []models.MemberInput) error {
	current, err := tx.Memberships(ctx, consortiumID)
	if err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}
	plan := ledger.Reconcile(current, members)
	if plan.Empty() {
		return nil
	}

	if err := tx.DeleteMemberships(ctx, plan.Delete); err != nil {
		return fmt.Errorf("failed to remove members: %w", err)
	}
	for _, u := range plan.Update {
		if err := tx.UpdateMembershipPercentage(ctx, u.MembershipID, u.Percentage); err != nil {
			return fmt.Errorf("failed to update member %d: %w", u.CompanyID, err)
		}
	}
	inserts := make([]models.Membership, 0, len(plan.Insert))
	for _, in := range plan.Insert {
		inserts = append(inserts, models.Membership{
			ConsortiumID:            consortiumID,
			CompanyID:               in.CompanyID,
			ParticipationPercentage: in.Percentage,
		})
	}
	if err := tx.CreateMemberships(ctx, inserts); err != nil {
		return fmt.Errorf("failed to add members: %w", err)
	}

	s.logger.Debug("memberships synchronized",
		zap.Uint("consortium_id", consortiumID),
		zap.Int("deleted", len(plan.Delete)),
		zap.Int("updated", len(plan.Update)),
		zap.Int("inserted", len(plan.Insert)),
	)
	return nil
}

// CreateConsortium stores a consortium with at least two distinct member
// companies, atomically.
func (s *ConsortiumService) CreateConsortium(ctx context.Context, input models.ConsortiumInput, members []models.MemberInput, logo *storage.Upload) (*models.Consortium, error) {
	if err := mergeValidation(s.validator.Struct(input), ledger.Validate(members)); err != nil {
		return nil, err
	}
	logoPath, err := storeUpload(ctx, s.files, s.bucket, logo)
	if err != nil {
		return nil, err
	}

	consortium := &models.Consortium{LogoPath: logoPath}
	applyConsortiumInput(consortium, input)
	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := checkCompanies(ctx, tx, members); err != nil {
			return err
		}
		if err := tx.CreateConsortium(ctx, consortium); err != nil {
			return err
		}
		return s.synchronizeMembers(ctx, tx, consortium.ID, members)
	})
	if err != nil {
		s.files.Remove(ctx, logoPath)
		if errors.Is(err, e.ErrInvalidInput) || errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create consortium: %w", err)
	}

	created, err := s.repo.GetConsortium(ctx, consortium.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload consortium: %w", err)
	}
	s.producer.Produce(events.ConsortiumCreated, key(created.ID), created)
	return created, nil
}

// UpdateConsortium rewrites the scalar fields and, when members is not nil,
// re-synchronises the membership set. A new logo replaces the previous file
// after the transaction commits.
func (s *ConsortiumService) UpdateConsortium(ctx context.Context, id uint, input models.ConsortiumInput, members *[]models.MemberInput, logo *storage.Upload) (*models.Consortium, error) {
	var memberErr error
	if members != nil {
		memberErr = ledger.Validate(*members)
	}
	if err := mergeValidation(s.validator.Struct(input), memberErr); err != nil {
		return nil, err
	}

	consortium, err := s.repo.GetConsortium(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get consortium: %w", err)
	}

	logoPath, err := storeUpload(ctx, s.files, s.bucket, logo)
	if err != nil {
		return nil, err
	}
	previous := consortium.LogoPath
	applyConsortiumInput(consortium, input)
	if logoPath != nil {
		consortium.LogoPath = logoPath
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.UpdateConsortium(ctx, consortium, logoPath != nil); err != nil {
			return err
		}
		if members == nil {
			return nil
		}
		if err := checkCompanies(ctx, tx, *members); err != nil {
			return err
		}
		return s.synchronizeMembers(ctx, tx, id, *members)
	})
	if err != nil {
		s.files.Remove(ctx, logoPath)
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput) || errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update consortium: %w", err)
	}
	if logoPath != nil {
		s.files.Remove(ctx, previous)
	}

	updated, err := s.repo.GetConsortium(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload consortium: %w", err)
	}
	s.producer.Produce(events.ConsortiumUpdated, key(id), updated)
	return updated, nil
}

// DeleteConsortium removes the consortium with all its memberships, then its
// logo file.
func (s *ConsortiumService) DeleteConsortium(ctx context.Context, id uint) error {
	var consortium *models.Consortium
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		consortium, err = tx.GetConsortium(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteConsortium(ctx, id)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return err
		}
		return fmt.Errorf("failed to delete consortium: %w", err)
	}

	s.files.Remove(ctx, consortium.LogoPath)
	s.producer.Produce(events.ConsortiumDeleted, key(id), consortium)
	return nil
}

// GetConsortium returns the consortium with its members and their companies.
func (s *ConsortiumService) GetConsortium(ctx context.Context, id uint) (*models.Consortium, error) {
	consortium, err := s.repo.GetConsortium(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get consortium: %w", err)
	}
	return consortium, nil
}

func (s *ConsortiumService) ListConsortia(ctx context.Context, q models.ListQuery) (models.Page[models.Consortium], error) {
	page, err := s.repo.ListConsortia(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list consortia: %w", err)
	}
	return page, nil
}

func (s *ConsortiumService) AllConsortia(ctx context.Context) ([]models.Option, error) {
	out, err := s.repo.ConsortiumOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list consortium options: %w", err)
	}
	return out, nil
}
