// Package handlers exposes the back-office services over HTTP with gin and
// runs the gRPC health endpoint next to it.
package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ParameterController interface {
	CreateParameter(ctx context.Context, input models.ParameterInput) (*models.Parameter, error)
	UpdateParameter(ctx context.Context, id uint, input models.ParameterInput) (*models.Parameter, error)
	DeleteParameter(ctx context.Context, id uint) (int64, error)
	GetParameter(ctx context.Context, id uint) (*models.Parameter, error)
	ListParameters(ctx context.Context, q models.ListQuery) (models.Page[models.Parameter], error)
	ListByGroup(ctx context.Context, group string, activeOnly bool) ([]models.Parameter, error)
	ListRoots(ctx context.Context) ([]models.Parameter, error)
	ParentOptions(ctx context.Context) ([]models.Parameter, error)
}

type CompanyController interface {
	CreateCompany(ctx context.Context, input models.CompanyInput, logo *storage.Upload) (*models.Company, error)
	UpdateCompany(ctx context.Context, id uint, input models.CompanyInput, logo *storage.Upload) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uint) error
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	ListCompanies(ctx context.Context, q models.ListQuery) (models.Page[models.Company], error)
	AllCompanies(ctx context.Context) ([]models.Option, error)
}

type ConsortiumController interface {
	CreateConsortium(ctx context.Context, input models.ConsortiumInput, members []models.MemberInput, logo *storage.Upload) (*models.Consortium, error)
	UpdateConsortium(ctx context.Context, id uint, input models.ConsortiumInput, members *[]models.MemberInput, logo *storage.Upload) (*models.Consortium, error)
	DeleteConsortium(ctx context.Context, id uint) error
	GetConsortium(ctx context.Context, id uint) (*models.Consortium, error)
	ListConsortia(ctx context.Context, q models.ListQuery) (models.Page[models.Consortium], error)
	AllConsortia(ctx context.Context) ([]models.Option, error)
}

type ProjectController interface {
	CreateProject(ctx context.Context, input models.ProjectInput, cover *storage.Upload) (*models.Project, error)
	UpdateProject(ctx context.Context, id uint, input models.ProjectInput, cover *storage.Upload) (*models.Project, error)
	DeleteProject(ctx context.Context, id uint) error
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	ListProjects(ctx context.Context, q models.ListQuery) (models.Page[models.Project], error)
	ProjectOptions(ctx context.Context) ([]models.Option, error)
}

type WorkerController interface {
	CreateWorker(ctx context.Context, input models.WorkerInput, photo *storage.Upload) (*models.Worker, error)
	UpdateWorker(ctx context.Context, id uuid.UUID, input models.WorkerInput, photo *storage.Upload) (*models.Worker, error)
	DeleteWorker(ctx context.Context, id uuid.UUID) error
	GetWorker(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	ListWorkers(ctx context.Context, q models.ListQuery) (models.Page[models.Worker], error)
	ExportWorkers(ctx context.Context, w io.Writer) error
}

type UbigeoController interface {
	Departments(ctx context.Context) ([]models.Department, error)
	Provinces(ctx context.Context, departmentID string) ([]models.Province, error)
	Districts(ctx context.Context, provinceID string) ([]models.District, error)
}

type CatalogController interface {
	Positions(ctx context.Context) ([]models.Position, error)
	Banks(ctx context.Context) ([]models.Bank, error)
	PensionSystems(ctx context.Context) ([]models.PensionSystem, error)
}

type AttendanceController interface {
	RecordAttendance(ctx context.Context, projectID uint, input models.AttendanceInput) (*models.Attendance, error)
	ListAttendance(ctx context.Context, projectID uint, from, to time.Time) ([]models.Attendance, error)
}

type SafetyTalkController interface {
	CreateSafetyTalk(ctx context.Context, projectID uint, input models.SafetyTalkInput, evidence *storage.Upload) (*models.SafetyTalk, error)
	SignAttendance(ctx context.Context, talkID uint, workerID uuid.UUID) error
	GetSafetyTalk(ctx context.Context, id uint) (*models.SafetyTalk, error)
	ListSafetyTalks(ctx context.Context, projectID uint) ([]models.SafetyTalk, error)
}

// Services groups the controllers served over HTTP.
type Services struct {
	Parameters  ParameterController
	Companies   CompanyController
	Consortia   ConsortiumController
	Projects    ProjectController
	Workers     WorkerController
	Ubigeo      UbigeoController
	Catalogs    CatalogController
	Attendance  AttendanceController
	SafetyTalks SafetyTalkController

	// Ping reports the health of the backing store. Optional.
	Ping func(ctx context.Context) error
}

// Handler serves the HTTP API.
type Handler struct {
	svc       Services
	presenter *view.Presenter
	maxUpload int64
	logger    *zap.Logger
}

// NewHandler constructs a Handler. maxUpload bounds the bytes read from each
// uploaded file.
func NewHandler(svc Services, presenter *view.Presenter, maxUpload int64, logger *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		presenter: presenter,
		maxUpload: maxUpload,
		logger:    logger.Named("http_handler"),
	}
}
