package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/backoffice/internal/backoffice/db"
	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"go.uber.org/zap"
)

type CompanyRepository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company, withLogo bool) error
	ListCompanies(ctx context.Context, q models.ListQuery) (models.Page[models.Company], error)
	CompanyOptions(ctx context.Context) ([]models.Option, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// CompanyService manages companies and their logos.
type CompanyService struct {
	repo      CompanyRepository
	producer  EventProducer
	validator Validator
	files     FileStore
	bucket    string
	logger    *zap.Logger
}

func NewCompanyService(repo CompanyRepository, producer EventProducer, validator Validator, files FileStore, bucket string, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:      repo,
		producer:  producer,
		validator: validator,
		files:     files,
		bucket:    bucket,
		logger:    logger.Named("company_service"),
	}
}

func applyCompanyInput(c *models.Company, in models.CompanyInput) {
	c.RUC = in.RUC
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.IssuesPaymentOrder = in.IssuesPaymentOrder
	c.LegalRepresentative = in.LegalRepresentative
	c.RepresentativeDNI = in.RepresentativeDNI
	c.RepresentativePhone = in.RepresentativePhone
}

// CreateCompany validates input, stores the optional logo and inserts the
// company. The logo is removed again when the insert fails.
func (s *CompanyService) CreateCompany(ctx context.Context, input models.CompanyInput, logo *storage.Upload) (*models.Company, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	logoPath, err := storeUpload(ctx, s.files, s.bucket, logo)
	if err != nil {
		return nil, err
	}

	company := &models.Company{LogoPath: logoPath}
	applyCompanyInput(company, input)
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		s.files.Remove(ctx, logoPath)
		if errors.Is(err, e.ErrConstraint) {
			return nil, fmt.Errorf("%w: ruc %s is already registered", err, input.RUC)
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.producer.Produce(events.CompanyCreated, key(company.ID), company)
	return company, nil
}

// UpdateCompany rewrites the company. With a new logo the previous file is
// deleted once the row is updated; without one the stored logo is kept.
func (s *CompanyService) UpdateCompany(ctx context.Context, id uint, input models.CompanyInput, logo *storage.Upload) (*models.Company, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	logoPath, err := storeUpload(ctx, s.files, s.bucket, logo)
	if err != nil {
		return nil, err
	}
	previous := company.LogoPath
	applyCompanyInput(company, input)
	if logoPath != nil {
		company.LogoPath = logoPath
	}

	if err := s.repo.UpdateCompany(ctx, company, logoPath != nil); err != nil {
		s.files.Remove(ctx, logoPath)
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	if logoPath != nil {
		s.files.Remove(ctx, previous)
	}

	s.producer.Produce(events.CompanyUpdated, key(company.ID), company)
	return company, nil
}

// DeleteCompany removes the company and its memberships in one transaction,
// then its logo file.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uint) error {
	var company *models.Company
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		company, err = tx.GetCompany(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteCompany(ctx, id)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.files.Remove(ctx, company.LogoPath)
	s.producer.Produce(events.CompanyDeleted, key(id), company)
	return nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListCompanies pages through companies, newest first.
func (s *CompanyService) ListCompanies(ctx context.Context, q models.ListQuery) (models.Page[models.Company], error) {
	page, err := s.repo.ListCompanies(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list companies: %w", err)
	}
	return page, nil
}

// AllCompanies returns id/name options ordered by name.
func (s *CompanyService) AllCompanies(ctx context.Context) ([]models.Option, error) {
	out, err := s.repo.CompanyOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list company options: %w", err)
	}
	return out, nil
}
