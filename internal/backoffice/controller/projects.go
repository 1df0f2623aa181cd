package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/backoffice/internal/backoffice/cache"
	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/gartstein/backoffice/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	codeLockTTL     = 10 * time.Second
	maxCodeAttempts = 3
)

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project, withCover bool) error
	DeleteProject(ctx context.Context, id uint) error
	ListProjects(ctx context.Context, q models.ListQuery) (models.Page[models.Project], error)
	ProjectOptions(ctx context.Context) ([]models.Option, error)
	LatestProjectCode(ctx context.Context, prefix string) (string, bool, error)
	ShortNameTaken(ctx context.Context, shortName string, except *uint) (bool, error)
	GetParameter(ctx context.Context, id uint) (*models.Parameter, error)
	ParameterInGroup(ctx context.Context, id uint, group string) (bool, error)
	DistrictInProvince(ctx context.Context, departmentID, provinceID, districtID string) (bool, error)
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	GetConsortium(ctx context.Context, id uint) (*models.Consortium, error)
}

// ProjectService manages projects, their numbering and cover images.
type ProjectService struct {
	repo      ProjectRepository
	producer  EventProducer
	validator Validator
	files     FileStore
	locker    cache.Locker
	bucket    string
	logger    *zap.Logger
	now       func() time.Time
	newPolicy func() backoff.BackOff
}

func NewProjectService(repo ProjectRepository, producer EventProducer, validator Validator, files FileStore, locker cache.Locker, bucket string, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		repo:      repo,
		producer:  producer,
		validator: validator,
		files:     files,
		locker:    locker,
		bucket:    bucket,
		logger:    logger.Named("project_service"),
		now:       time.Now,
		newPolicy: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = 200 * time.Millisecond
			return b
		},
	}
}

// checkOwnership enforces that exactly one owner is set and the amounts are
// not negative.
func checkOwnership(input models.ProjectInput) error {
	verr := &e.ValidationError{}
	switch {
	case input.CompanyID != nil && input.ConsortiumID != nil:
		verr.Add("company_id", "select either a company or a consortium, not both")
	case input.CompanyID == nil && input.ConsortiumID == nil:
		verr.Add("company_id", "select a company or a consortium")
	}
	if input.ContractualAmount.LessThan(decimal.Zero) {
		verr.Add("contractual_amount", "must be at least 0")
	}
	if input.ProjectedAmount.LessThan(decimal.Zero) {
		verr.Add("projected_amount", "must be at least 0")
	}
	return verr.OrNil()
}

// checkReferences verifies that type, status, location and owner exist and
// that the short name is free. It returns the project type on success.
func (s *ProjectService) checkReferences(ctx context.Context, input models.ProjectInput, except *uint) (*models.Parameter, error) {
	verr := &e.ValidationError{}

	taken, err := s.repo.ShortNameTaken(ctx, input.ShortName, except)
	if err != nil {
		return nil, fmt.Errorf("failed to check short name: %w", err)
	}
	if taken {
		verr.Add("short_name", "is already registered")
	}

	projectType, err := s.repo.GetParameter(ctx, input.TypeID)
	switch {
	case errors.Is(err, e.ErrNotFound):
		verr.Add("type_id", "does not exist")
	case err != nil:
		return nil, fmt.Errorf("failed to get project type: %w", err)
	case projectType.Group != models.GroupProjectType:
		verr.Add("type_id", "is not a project type")
	}

	ok, err := s.repo.ParameterInGroup(ctx, input.StatusID, models.GroupProjectStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to check project status: %w", err)
	}
	if !ok {
		verr.Add("status_id", "is not a project status")
	}

	ok, err = s.repo.DistrictInProvince(ctx, input.DepartmentID, input.ProvinceID, input.DistrictID)
	if err != nil {
		return nil, fmt.Errorf("failed to check location: %w", err)
	}
	if !ok {
		verr.Add("district_id", "does not belong to the selected province")
	}

	if input.CompanyID != nil {
		if _, err := s.repo.GetCompany(ctx, *input.CompanyID); errors.Is(err, e.ErrNotFound) {
			verr.Add("company_id", "does not exist")
		} else if err != nil {
			return nil, fmt.Errorf("failed to get company: %w", err)
		}
	}
	if input.ConsortiumID != nil {
		if _, err := s.repo.GetConsortium(ctx, *input.ConsortiumID); errors.Is(err, e.ErrNotFound) {
			verr.Add("consortium_id", "does not exist")
		} else if err != nil {
			return nil, fmt.Errorf("failed to get consortium: %w", err)
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return projectType, nil
}

func (s *ProjectService) validate(ctx context.Context, input models.ProjectInput, except *uint) (*models.Parameter, error) {
	if err := mergeValidation(s.validator.Struct(input), checkOwnership(input)); err != nil {
		return nil, err
	}
	return s.checkReferences(ctx, input, except)
}

func applyProjectInput(p *models.Project, in models.ProjectInput) {
	p.ProjectName = in.ProjectName
	p.ShortName = in.ShortName
	p.TypeID = in.TypeID
	p.StatusID = in.StatusID
	p.ContractualAmount = in.ContractualAmount
	p.ProjectedAmount = in.ProjectedAmount
	p.StartDate = in.StartDate
	p.EndDateContractual = in.EndDateContractual
	p.EndDateReal = in.EndDateReal
	p.DepartmentID = in.DepartmentID
	p.ProvinceID = in.ProvinceID
	p.DistrictID = in.DistrictID
	p.Address = in.Address
	p.CompanyID = in.CompanyID
	p.ConsortiumID = in.ConsortiumID
}

// createNumbered inserts project under the next free code of prefix for the
// current year. Numbering of one prefix-year runs under a lock, and a code
// taken concurrently by another process is retried with a fresh number.
func (s *ProjectService) createNumbered(ctx context.Context, project *models.Project, prefix string) error {
	stem := codeStem(prefix, s.now().Year())
	unlock, err := s.locker.Lock(ctx, "project_code:"+stem, codeLockTTL)
	if err != nil {
		return fmt.Errorf("failed to reserve project code: %w", err)
	}
	defer unlock()

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newPolicy(), maxCodeAttempts), ctx)
	return backoff.Retry(func() error {
		latest, _, err := s.repo.LatestProjectCode(ctx, stem)
		if err != nil {
			return backoff.Permanent(err)
		}
		project.ID = 0
		project.ProjectCode = NextCode(stem, latest)
		err = s.repo.CreateProject(ctx, project)
		if errors.Is(err, e.ErrConstraint) {
			s.logger.Warn("project code collision, retrying",
				zap.String("project_code", project.ProjectCode),
				zap.Error(err),
			)
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, policy)
}

// CreateProject validates and stores a project. Without a caller supplied
// code the next {PFX}-{YYYY}-{NNNN} code is assigned.
func (s *ProjectService) CreateProject(ctx context.Context, input models.ProjectInput, cover *storage.Upload) (*models.Project, error) {
	projectType, err := s.validate(ctx, input, nil)
	if err != nil {
		return nil, err
	}
	coverPath, err := storeUpload(ctx, s.files, s.bucket, cover)
	if err != nil {
		return nil, err
	}

	project := &models.Project{CoverImage: coverPath}
	applyProjectInput(project, input)
	if code := strings.TrimSpace(utils.Deref(input.ProjectCode, "")); code != "" {
		project.ProjectCode = code
		err = s.repo.CreateProject(ctx, project)
	} else {
		err = s.createNumbered(ctx, project, CodePrefix(projectType.Name))
	}
	if err != nil {
		s.files.Remove(ctx, coverPath)
		if errors.Is(err, e.ErrConstraint) {
			return nil, fmt.Errorf("%w: project code %s or short name %s already in use", err, project.ProjectCode, input.ShortName)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.Uint("project_id", project.ID),
		zap.String("project_code", project.ProjectCode),
	)
	created, err := s.repo.GetProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}
	s.producer.Produce(events.ProjectCreated, key(created.ID), created)
	return created, nil
}

// UpdateProject rewrites a project. The code is only changed when a new one
// is supplied, and a new cover replaces the stored file after the update.
func (s *ProjectService) UpdateProject(ctx context.Context, id uint, input models.ProjectInput, cover *storage.Upload) (*models.Project, error) {
	if _, err := s.validate(ctx, input, &id); err != nil {
		return nil, err
	}
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	coverPath, err := storeUpload(ctx, s.files, s.bucket, cover)
	if err != nil {
		return nil, err
	}
	previous := project.CoverImage
	applyProjectInput(project, input)
	if code := strings.TrimSpace(utils.Deref(input.ProjectCode, "")); code != "" {
		project.ProjectCode = code
	}
	if coverPath != nil {
		project.CoverImage = coverPath
	}

	if err := s.repo.UpdateProject(ctx, project, coverPath != nil); err != nil {
		s.files.Remove(ctx, coverPath)
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if coverPath != nil {
		s.files.Remove(ctx, previous)
	}

	updated, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}
	s.producer.Produce(events.ProjectUpdated, key(id), updated)
	return updated, nil
}

// DeleteProject soft-deletes the project and removes its cover file.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get project: %w", err)
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.files.Remove(ctx, project.CoverImage)
	s.producer.Produce(events.ProjectDeleted, key(id), map[string]string{"project_code": project.ProjectCode})
	return nil
}

// GetProject returns the project with type, status, location and owner.
func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjects pages through projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, q models.ListQuery) (models.Page[models.Project], error) {
	page, err := s.repo.ListProjects(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list projects: %w", err)
	}
	return page, nil
}

func (s *ProjectService) ProjectOptions(ctx context.Context) ([]models.Option, error) {
	out, err := s.repo.ProjectOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list project options: %w", err)
	}
	return out, nil
}
