package db

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SetupTestDB opens a private in-memory SQLite database for the running test.
func SetupTestDB(t *testing.T) *Repository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := NewRepository(&Config{
		Driver: "sqlite",
		DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNewRepository_UnsupportedDriver(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestParameterCRUD(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	root := &models.Parameter{Group: models.GroupProjectType, Name: "Tipo de proyecto", IsActive: true}
	require.NoError(t, repo.CreateParameter(ctx, root))
	child := &models.Parameter{Group: models.GroupProjectType, Name: "Obra", ParentID: &root.ID, Level: 1, IsActive: true}
	require.NoError(t, repo.CreateParameter(ctx, child))

	got, err := repo.GetParameter(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Parent)
	assert.Equal(t, root.ID, got.Parent.ID)

	got.IsActive = false
	got.Name = "Obra civil"
	require.NoError(t, repo.UpdateParameter(ctx, got))
	got, err = repo.GetParameter(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Obra civil", got.Name)

	_, err = repo.GetParameter(ctx, 999)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateParameter(ctx, &models.Parameter{ID: 999, Group: "X", Name: "Y"}), e.ErrNotFound)
}

func TestParameterQueries(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	root := &models.Parameter{Group: models.GroupRoot, Name: "Estados", IsActive: true}
	require.NoError(t, repo.CreateParameter(ctx, root))
	for _, name := range []string{"Planificado", "En ejecución", "Cerrado"} {
		p := &models.Parameter{Group: models.GroupProjectStatus, Name: name, ParentID: &root.ID, Level: 1, IsActive: name != "Cerrado"}
		require.NoError(t, repo.CreateParameter(ctx, p))
	}

	active, err := repo.ParametersByGroup(ctx, models.GroupProjectStatus, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "En ejecución", active[0].Name)

	all, err := repo.ParametersByGroup(ctx, models.GroupProjectStatus, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	roots, err := repo.RootParameters(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)

	page, err := repo.ListParameters(ctx, models.ListQuery{Search: "STATUS", PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 2)

	page, err = repo.ListParameters(ctx, models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Equal(t, 0, page.Items[0].Level)

	ok, err := repo.ParameterInGroup(ctx, active[0].ID, models.GroupProjectStatus)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ParameterInGroup(ctx, active[0].ID, models.GroupProjectType)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParameterForestAndBulkDelete(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	var parent *uint
	var ids []uint
	for level := 0; level < 4; level++ {
		p := &models.Parameter{Group: "G", Name: fmt.Sprintf("L%d", level), ParentID: parent, Level: level, IsActive: true}
		require.NoError(t, repo.CreateParameter(ctx, p))
		ids = append(ids, p.ID)
		parent = utils.Ptr(p.ID)
	}

	forest, err := repo.ParameterForest(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[1:], forest.Descendants(ids[0]))

	require.NoError(t, repo.SetParameterLevel(ctx, ids[2:], 7))
	p, err := repo.GetParameter(ctx, ids[3])
	require.NoError(t, err)
	assert.Equal(t, 7, p.Level)

	n, err := repo.DeleteParameters(ctx, ids)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func newCompany(ruc, name string) *models.Company {
	return &models.Company{RUC: ruc, Name: name}
}

func TestCompanyCRUD(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := newCompany("20123456789", "Constructora Andina")
	company.LogoPath = utils.Ptr("companies_logos/a.png")
	require.NoError(t, repo.CreateCompany(ctx, company))

	err := repo.CreateCompany(ctx, newCompany("20123456789", "Duplicate"))
	assert.ErrorIs(t, err, e.ErrConstraint)

	company.Name = "Constructora Andina SAC"
	company.LogoPath = nil
	require.NoError(t, repo.UpdateCompany(ctx, company, false))
	got, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Constructora Andina SAC", got.Name)
	require.NotNil(t, got.LogoPath, "logo must survive an update without upload")

	got.LogoPath = utils.Ptr("companies_logos/b.png")
	require.NoError(t, repo.UpdateCompany(ctx, got, true))
	got, err = repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "companies_logos/b.png", *got.LogoPath)

	assert.ErrorIs(t, repo.UpdateCompany(ctx, &models.Company{ID: 404, RUC: "20999999999", Name: "x"}, false), e.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteCompany(ctx, 404), e.ErrNotFound)
}

func TestCompanyListingAndOptions(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCompany(ctx, newCompany("20000000001", "Beta")))
	require.NoError(t, repo.CreateCompany(ctx, newCompany("20000000002", "Alfa")))
	require.NoError(t, repo.CreateCompany(ctx, newCompany("10000000003", "Gamma")))

	page, err := repo.ListCompanies(ctx, models.ListQuery{Search: "2000"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, "Alfa", page.Items[0].Name, "newest first")

	options, err := repo.CompanyOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "Alfa", options[0].Name)

	ids, err := repo.ExistingCompanyIDs(ctx, []uint{options[0].ID, 999})
	require.NoError(t, err)
	assert.Equal(t, []uint{options[0].ID}, ids)
}

func TestConsortiumMemberships(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	a, b := newCompany("20000000001", "A"), newCompany("20000000002", "B")
	require.NoError(t, repo.CreateCompany(ctx, a))
	require.NoError(t, repo.CreateCompany(ctx, b))

	consortium := &models.Consortium{Name: "Consorcio Vial"}
	require.NoError(t, repo.CreateConsortium(ctx, consortium))
	require.NoError(t, repo.CreateMemberships(ctx, []models.Membership{
		{ConsortiumID: consortium.ID, CompanyID: a.ID, ParticipationPercentage: decimal.NewFromInt(60)},
		{ConsortiumID: consortium.ID, CompanyID: b.ID, ParticipationPercentage: decimal.NewFromInt(40)},
	}))

	err := repo.CreateMemberships(ctx, []models.Membership{
		{ConsortiumID: consortium.ID, CompanyID: a.ID, ParticipationPercentage: decimal.NewFromInt(1)},
	})
	assert.ErrorIs(t, err, e.ErrConstraint)

	got, err := repo.GetConsortium(ctx, consortium.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	assert.Equal(t, "A", got.Members[0].Company.Name)

	require.NoError(t, repo.UpdateMembershipPercentage(ctx, got.Members[0].ID, decimal.NewFromInt(55)))
	require.NoError(t, repo.DeleteMemberships(ctx, []uint{got.Members[1].ID}))
	members, err := repo.Memberships(ctx, consortium.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].ParticipationPercentage.Equal(decimal.NewFromInt(55)))

	require.NoError(t, repo.DeleteConsortium(ctx, consortium.ID))
	members, err = repo.Memberships(ctx, consortium.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
	_, err = repo.GetConsortium(ctx, consortium.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteCompanyDetachesDependents(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	a, b := newCompany("20000000001", "A"), newCompany("20000000002", "B")
	require.NoError(t, repo.CreateCompany(ctx, a))
	require.NoError(t, repo.CreateCompany(ctx, b))
	consortium := &models.Consortium{Name: "C"}
	require.NoError(t, repo.CreateConsortium(ctx, consortium))
	require.NoError(t, repo.CreateMemberships(ctx, []models.Membership{
		{ConsortiumID: consortium.ID, CompanyID: a.ID, ParticipationPercentage: decimal.NewFromInt(50)},
		{ConsortiumID: consortium.ID, CompanyID: b.ID, ParticipationPercentage: decimal.NewFromInt(50)},
	}))
	project := testProject("OBR-2026-0001", "P1")
	project.CompanyID = &a.ID
	require.NoError(t, repo.CreateProject(ctx, project))

	require.NoError(t, repo.WithTransaction(ctx, func(tx *Repository) error {
		return tx.DeleteCompany(ctx, a.ID)
	}))

	members, err := repo.Memberships(ctx, consortium.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, b.ID, members[0].CompanyID)

	got, err := repo.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompanyID)
}

func testProject(code, short string) *models.Project {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &models.Project{
		ProjectCode:        code,
		ProjectName:        "Proyecto " + short,
		ShortName:          short,
		TypeID:             1,
		StatusID:           2,
		ContractualAmount:  decimal.NewFromInt(1000),
		ProjectedAmount:    decimal.NewFromInt(400),
		StartDate:          start,
		EndDateContractual: start.AddDate(1, 0, 0),
		DepartmentID:       "15",
		ProvinceID:         "1501",
		DistrictID:         "150101",
	}
}

func TestProjectCodesIncludeSoftDeleted(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	_, ok, err := repo.LatestProjectCode(ctx, "OBR-2026-")
	require.NoError(t, err)
	assert.False(t, ok)

	first := testProject("OBR-2026-0001", "P1")
	require.NoError(t, repo.CreateProject(ctx, first))
	require.NoError(t, repo.CreateProject(ctx, testProject("SER-2026-0001", "S1")))
	second := testProject("OBR-2026-0002", "P2")
	require.NoError(t, repo.CreateProject(ctx, second))
	require.NoError(t, repo.DeleteProject(ctx, second.ID))

	code, ok, err := repo.LatestProjectCode(ctx, "OBR-2026-")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "OBR-2026-0002", code)

	_, err = repo.GetProject(ctx, second.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteProject(ctx, second.ID), e.ErrNotFound)

	err = repo.CreateProject(ctx, testProject("OBR-2026-0001", "P3"))
	assert.ErrorIs(t, err, e.ErrConstraint)
}

func TestProjectUpdateKeepsCover(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	project := testProject("OBR-2026-0001", "P1")
	project.CoverImage = utils.Ptr("projects/covers/x.jpg")
	require.NoError(t, repo.CreateProject(ctx, project))

	project.CoverImage = nil
	project.ProjectName = "Renamed"
	require.NoError(t, repo.UpdateProject(ctx, project, false))

	got, err := repo.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.ProjectName)
	require.NotNil(t, got.CoverImage)

	page, err := repo.ListProjects(ctx, models.ListQuery{Search: "OBR"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	options, err := repo.ProjectOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "P1", options[0].Name)
}

func testWorker(doc string) *models.Worker {
	return &models.Worker{
		UUID:             uuid.New(),
		DocumentTypeID:   1,
		DocumentNumber:   doc,
		FirstName:        "Juan",
		LastNamePaternal: "Quispe",
		LastNameMaternal: "Mamani",
		WorkerTypeID:     1,
		PositionID:       1,
		CompanyID:        1,
		IsActive:         true,
	}
}

func TestWorkerByUUID(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	w := testWorker("45678912")
	require.NoError(t, repo.CreateWorker(ctx, w))

	got, err := repo.GetWorker(ctx, w.UUID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	taken, err := repo.DocumentNumberTaken(ctx, "45678912", nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.DocumentNumberTaken(ctx, "45678912", &w.UUID)
	require.NoError(t, err)
	assert.False(t, taken, "own document must not count as taken")

	got.FirstName = "José"
	require.NoError(t, repo.UpdateWorker(ctx, got, false))
	got, err = repo.GetWorker(ctx, w.UUID)
	require.NoError(t, err)
	assert.Equal(t, "José", got.FirstName)
	assert.Equal(t, w.UUID, got.UUID)

	found, err := repo.WorkersByUUID(ctx, []uuid.UUID{w.UUID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.DeleteWorker(ctx, w.UUID))
	_, err = repo.GetWorker(ctx, w.UUID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteWorker(ctx, w.UUID), e.ErrNotFound)

	taken, err = repo.DocumentNumberTaken(ctx, "45678912", nil)
	require.NoError(t, err)
	assert.True(t, taken, "soft-deleted worker keeps its document number")
}

func TestEachWorker(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateWorker(ctx, testWorker(fmt.Sprintf("4000000%d", i))))
	}
	var seen, batches int
	require.NoError(t, repo.EachWorker(ctx, 2, func(batch []models.Worker) error {
		batches++
		seen += len(batch)
		return nil
	}))
	assert.Equal(t, 5, seen)
	assert.Equal(t, 3, batches)

	page, err := repo.ListWorkers(ctx, models.ListQuery{Search: "Quispe", PerPage: 2, Page: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestUbigeoAndCatalogs(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, &[]models.Department{{ID: "15", Name: "Lima"}, {ID: "04", Name: "Arequipa"}}))
	require.NoError(t, repo.Seed(ctx, &[]models.Province{{ID: "1501", Name: "Lima", DepartmentID: "15"}, {ID: "1502", Name: "Barranca", DepartmentID: "15"}}))
	require.NoError(t, repo.Seed(ctx, &[]models.District{{ID: "150101", Name: "Lima", ProvinceID: "1501", DepartmentID: "15"}}))
	require.NoError(t, repo.Seed(ctx, &[]models.Department{{ID: "15", Name: "Lima"}}), "seeding twice is a no-op")

	departments, err := repo.Departments(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "Arequipa", departments[0].Name)

	provinces, err := repo.ProvincesOf(ctx, "15")
	require.NoError(t, err)
	require.Len(t, provinces, 2)
	assert.Equal(t, "Barranca", provinces[0].Name)

	districts, err := repo.DistrictsOf(ctx, "1501")
	require.NoError(t, err)
	assert.Len(t, districts, 1)

	ok, err := repo.DistrictInProvince(ctx, "15", "1501", "150101")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.DistrictInProvince(ctx, "04", "1501", "150101")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Seed(ctx, &[]models.Bank{{Name: "BCP", ShortName: "BCP"}}))
	banks, err := repo.Banks(ctx)
	require.NoError(t, err)
	assert.Len(t, banks, 1)
}

func TestAttendanceUpsertAndRange(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rec := &models.Attendance{WorkerID: 1, ProjectID: 9, Date: day, StatusID: 3, HoursWorked: decimal.NewFromInt(8)}
	require.NoError(t, repo.SaveAttendance(ctx, rec))

	again := &models.Attendance{WorkerID: 1, ProjectID: 9, Date: day, StatusID: 3, HoursWorked: decimal.NewFromInt(10)}
	require.NoError(t, repo.SaveAttendance(ctx, again))
	assert.Equal(t, rec.ID, again.ID)

	require.NoError(t, repo.SaveAttendance(ctx, &models.Attendance{WorkerID: 1, ProjectID: 9, Date: day.AddDate(0, 0, 5), StatusID: 3}))

	list, err := repo.ListAttendance(ctx, 9, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].HoursWorked.Equal(decimal.NewFromInt(10)))
}

func TestSafetyTalkSigning(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	w := testWorker("45678912")
	require.NoError(t, repo.CreateWorker(ctx, w))

	talk := &models.SafetyTalk{
		ProjectID:      3,
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Topic:          "Trabajos en altura",
		InstructorName: "Ing. Rojas",
		Participants:   []models.SafetyTalkParticipant{{WorkerID: w.ID}},
	}
	require.NoError(t, repo.CreateSafetyTalk(ctx, talk))

	require.NoError(t, repo.SignSafetyTalk(ctx, talk.ID, w.ID))
	assert.ErrorIs(t, repo.SignSafetyTalk(ctx, talk.ID, w.ID+1), e.ErrNotFound)

	got, err := repo.GetSafetyTalk(ctx, talk.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	assert.True(t, got.Participants[0].Signed)
	assert.Equal(t, "Juan", got.Participants[0].Worker.FirstName)

	talks, err := repo.ListSafetyTalks(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, talks, 1)
}

func TestWithTransactionRollsBack(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(tx *Repository) error {
		require.NoError(t, tx.CreateCompany(ctx, newCompany("20000000001", "A")))
		return e.ErrInvalidInput
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	page, err := repo.ListCompanies(ctx, models.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
