package handlers

import (
	"context"
	"io"
	"time"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/google/uuid"
)

// fakeBackoffice implements every controller interface. Calls are recorded
// and err, when set, is returned by every operation.
type fakeBackoffice struct {
	err error

	companyInput    *models.CompanyInput
	companyLogo     *storage.Upload
	companies       models.Page[models.Company]
	consortiumInput *models.ConsortiumInput
	members         *[]models.MemberInput
	createdMembers  []models.MemberInput
	projectInput    *models.ProjectInput
	workerInput     *models.WorkerInput
	deletedWorker   uuid.UUID
	attendanceFrom  time.Time
	attendanceTo    time.Time
	signed          uuid.UUID
	talkInput       *models.SafetyTalkInput
	provinceOf      string
}

func (f *fakeBackoffice) CreateParameter(_ context.Context, input models.ParameterInput) (*models.Parameter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Parameter{ID: 1, Group: input.Group, Name: input.Name}, nil
}

func (f *fakeBackoffice) UpdateParameter(_ context.Context, id uint, input models.ParameterInput) (*models.Parameter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Parameter{ID: id, Group: input.Group, Name: input.Name}, nil
}

func (f *fakeBackoffice) DeleteParameter(_ context.Context, _ uint) (int64, error) {
	return 1, f.err
}

func (f *fakeBackoffice) GetParameter(_ context.Context, id uint) (*models.Parameter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Parameter{ID: id, Group: models.GroupRoot, Name: "Tipo de documento"}, nil
}

func (f *fakeBackoffice) ListParameters(_ context.Context, q models.ListQuery) (models.Page[models.Parameter], error) {
	return models.Page[models.Parameter]{Page: q.Page, PerPage: q.PerPage}, f.err
}

func (f *fakeBackoffice) ListByGroup(_ context.Context, group string, _ bool) ([]models.Parameter, error) {
	return []models.Parameter{{ID: 2, Group: group, Name: "DNI", IsActive: true}}, f.err
}

func (f *fakeBackoffice) ListRoots(_ context.Context) ([]models.Parameter, error) {
	return nil, f.err
}

func (f *fakeBackoffice) ParentOptions(_ context.Context) ([]models.Parameter, error) {
	return nil, f.err
}

func (f *fakeBackoffice) CreateCompany(_ context.Context, input models.CompanyInput, logo *storage.Upload) (*models.Company, error) {
	f.companyInput, f.companyLogo = &input, logo
	if f.err != nil {
		return nil, f.err
	}
	return &models.Company{ID: 1, RUC: input.RUC, Name: input.Name}, nil
}

func (f *fakeBackoffice) UpdateCompany(_ context.Context, id uint, input models.CompanyInput, logo *storage.Upload) (*models.Company, error) {
	f.companyInput, f.companyLogo = &input, logo
	if f.err != nil {
		return nil, f.err
	}
	return &models.Company{ID: id, RUC: input.RUC, Name: input.Name}, nil
}

func (f *fakeBackoffice) DeleteCompany(_ context.Context, _ uint) error {
	return f.err
}

func (f *fakeBackoffice) GetCompany(_ context.Context, id uint) (*models.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Company{ID: id, RUC: "20123456789", Name: "Constructora Andina SAC"}, nil
}

func (f *fakeBackoffice) ListCompanies(_ context.Context, q models.ListQuery) (models.Page[models.Company], error) {
	page := f.companies
	page.Page, page.PerPage = q.Page, q.PerPage
	return page, f.err
}

func (f *fakeBackoffice) AllCompanies(_ context.Context) ([]models.Option, error) {
	return []models.Option{{ID: 1, Name: "Constructora Andina SAC"}}, f.err
}

func (f *fakeBackoffice) CreateConsortium(_ context.Context, input models.ConsortiumInput, members []models.MemberInput, _ *storage.Upload) (*models.Consortium, error) {
	f.consortiumInput, f.createdMembers = &input, members
	if f.err != nil {
		return nil, f.err
	}
	return &models.Consortium{ID: 1, Name: input.Name}, nil
}

func (f *fakeBackoffice) UpdateConsortium(_ context.Context, id uint, input models.ConsortiumInput, members *[]models.MemberInput, _ *storage.Upload) (*models.Consortium, error) {
	f.consortiumInput, f.members = &input, members
	if f.err != nil {
		return nil, f.err
	}
	return &models.Consortium{ID: id, Name: input.Name}, nil
}

func (f *fakeBackoffice) DeleteConsortium(_ context.Context, _ uint) error {
	return f.err
}

func (f *fakeBackoffice) GetConsortium(_ context.Context, id uint) (*models.Consortium, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Consortium{ID: id, Name: "Consorcio Vial Sur"}, nil
}

func (f *fakeBackoffice) ListConsortia(_ context.Context, q models.ListQuery) (models.Page[models.Consortium], error) {
	return models.Page[models.Consortium]{Page: q.Page, PerPage: q.PerPage}, f.err
}

func (f *fakeBackoffice) AllConsortia(_ context.Context) ([]models.Option, error) {
	return nil, f.err
}

func (f *fakeBackoffice) CreateProject(_ context.Context, input models.ProjectInput, _ *storage.Upload) (*models.Project, error) {
	f.projectInput = &input
	if f.err != nil {
		return nil, f.err
	}
	return &models.Project{ID: 1, ProjectCode: "OBR-2026-0001", ProjectName: input.ProjectName}, nil
}

func (f *fakeBackoffice) UpdateProject(_ context.Context, id uint, input models.ProjectInput, _ *storage.Upload) (*models.Project, error) {
	f.projectInput = &input
	if f.err != nil {
		return nil, f.err
	}
	return &models.Project{ID: id, ProjectName: input.ProjectName}, nil
}

func (f *fakeBackoffice) DeleteProject(_ context.Context, _ uint) error {
	return f.err
}

func (f *fakeBackoffice) GetProject(_ context.Context, id uint) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Project{ID: id, ProjectCode: "OBR-2026-0001"}, nil
}

func (f *fakeBackoffice) ListProjects(_ context.Context, q models.ListQuery) (models.Page[models.Project], error) {
	return models.Page[models.Project]{Page: q.Page, PerPage: q.PerPage}, f.err
}

func (f *fakeBackoffice) ProjectOptions(_ context.Context) ([]models.Option, error) {
	return nil, f.err
}

func (f *fakeBackoffice) CreateWorker(_ context.Context, input models.WorkerInput, _ *storage.Upload) (*models.Worker, error) {
	f.workerInput = &input
	if f.err != nil {
		return nil, f.err
	}
	return &models.Worker{ID: 1, UUID: uuid.New()}, nil
}

func (f *fakeBackoffice) UpdateWorker(_ context.Context, id uuid.UUID, input models.WorkerInput, _ *storage.Upload) (*models.Worker, error) {
	f.workerInput = &input
	if f.err != nil {
		return nil, f.err
	}
	return &models.Worker{ID: 1, UUID: id}, nil
}

func (f *fakeBackoffice) DeleteWorker(_ context.Context, id uuid.UUID) error {
	f.deletedWorker = id
	return f.err
}

func (f *fakeBackoffice) GetWorker(_ context.Context, id uuid.UUID) (*models.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Worker{ID: 1, UUID: id, FirstName: "Rosa", LastNamePaternal: "Quispe", LastNameMaternal: "Mamani"}, nil
}

func (f *fakeBackoffice) ListWorkers(_ context.Context, q models.ListQuery) (models.Page[models.Worker], error) {
	return models.Page[models.Worker]{Page: q.Page, PerPage: q.PerPage}, f.err
}

func (f *fakeBackoffice) ExportWorkers(_ context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("PK\x03\x04"))
	return err
}

func (f *fakeBackoffice) Departments(_ context.Context) ([]models.Department, error) {
	return []models.Department{{ID: "15", Name: "LIMA"}}, f.err
}

func (f *fakeBackoffice) Provinces(_ context.Context, departmentID string) ([]models.Province, error) {
	f.provinceOf = departmentID
	return []models.Province{{ID: "1501", Name: "LIMA", DepartmentID: departmentID}}, f.err
}

func (f *fakeBackoffice) Districts(_ context.Context, provinceID string) ([]models.District, error) {
	return []models.District{{ID: "150122", Name: "MIRAFLORES", ProvinceID: provinceID, DepartmentID: "15"}}, f.err
}

func (f *fakeBackoffice) Positions(_ context.Context) ([]models.Position, error) {
	return []models.Position{{ID: 1, Name: "Operario", IsActive: true}}, f.err
}

func (f *fakeBackoffice) Banks(_ context.Context) ([]models.Bank, error) {
	return nil, f.err
}

func (f *fakeBackoffice) PensionSystems(_ context.Context) ([]models.PensionSystem, error) {
	return nil, f.err
}

func (f *fakeBackoffice) RecordAttendance(_ context.Context, projectID uint, input models.AttendanceInput) (*models.Attendance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Attendance{ID: 1, ProjectID: projectID, Date: input.Date, HoursWorked: input.HoursWorked}, nil
}

func (f *fakeBackoffice) ListAttendance(_ context.Context, _ uint, from, to time.Time) ([]models.Attendance, error) {
	f.attendanceFrom, f.attendanceTo = from, to
	return nil, f.err
}

func (f *fakeBackoffice) CreateSafetyTalk(_ context.Context, projectID uint, input models.SafetyTalkInput, _ *storage.Upload) (*models.SafetyTalk, error) {
	f.talkInput = &input
	if f.err != nil {
		return nil, f.err
	}
	return &models.SafetyTalk{ID: 1, ProjectID: projectID, Date: input.Date, Topic: input.Topic, InstructorName: input.InstructorName}, nil
}

func (f *fakeBackoffice) SignAttendance(_ context.Context, _ uint, workerID uuid.UUID) error {
	f.signed = workerID
	return f.err
}

func (f *fakeBackoffice) GetSafetyTalk(_ context.Context, id uint) (*models.SafetyTalk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SafetyTalk{ID: id}, nil
}

func (f *fakeBackoffice) ListSafetyTalks(_ context.Context, _ uint) ([]models.SafetyTalk, error) {
	return nil, f.err
}

var errValidation = e.NewValidationError("ruc", "must have 11 digits")
