// Package view turns stored entities into the JSON read models served by the
// HTTP layer, adding the derived fields (URLs, full names, owner, balances).
package view

import (
	"strings"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/ledger"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Unassigned      = "Sin asignar"
	NotAvailable    = "N/A"
	OwnerCompany    = "Empresa"
	OwnerConsortium = "Consorcio"
	Currency        = "S/"
	dateLayout      = "2006-01-02"
)

// URLResolver maps a stored file path to a public URL.
type URLResolver interface {
	URL(name *string, fallback string) string
}

// Presenter builds read models. Defaults are the placeholder assets used
// when an entity has no image.
type Presenter struct {
	files        URLResolver
	defaultLogo  string
	defaultPhoto string
	now          func() time.Time
}

func NewPresenter(files URLResolver, defaultLogo, defaultPhoto string) *Presenter {
	return &Presenter{files: files, defaultLogo: defaultLogo, defaultPhoto: defaultPhoto, now: time.Now}
}

type Parameter struct {
	ID          uint    `json:"id"`
	Group       string  `json:"group"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	ParentName  *string `json:"parent_name"`
	Level       int     `json:"level"`
	IsActive    bool    `json:"is_active"`
}

func (p *Presenter) Parameter(m *models.Parameter) Parameter {
	out := Parameter{
		ID:          m.ID,
		Group:       m.Group,
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
		Level:       m.Level,
		IsActive:    m.IsActive,
	}
	if m.Parent != nil {
		out.ParentName = &m.Parent.Name
	}
	return out
}

type Company struct {
	ID                  uint      `json:"id"`
	RUC                 string    `json:"ruc"`
	Name                string    `json:"name"`
	Email               *string   `json:"email"`
	Phone               *string   `json:"phone"`
	Address             *string   `json:"address"`
	LogoURL             string    `json:"logo_url"`
	IssuesPaymentOrder  bool      `json:"issues_payment_order"`
	LegalRepresentative *string   `json:"legal_representative"`
	RepresentativeDNI   *string   `json:"representative_dni"`
	RepresentativePhone *string   `json:"representative_phone"`
	CreatedAt           time.Time `json:"created_at"`
}

func (p *Presenter) Company(m *models.Company) Company {
	return Company{
		ID:                  m.ID,
		RUC:                 m.RUC,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
		LogoURL:             p.files.URL(m.LogoPath, p.defaultLogo),
		IssuesPaymentOrder:  m.IssuesPaymentOrder,
		LegalRepresentative: m.LegalRepresentative,
		RepresentativeDNI:   m.RepresentativeDNI,
		RepresentativePhone: m.RepresentativePhone,
		CreatedAt:           m.CreatedAt,
	}
}

type Member struct {
	MembershipID uint            `json:"membership_id"`
	CompanyID    uint            `json:"company_id"`
	CompanyName  string          `json:"company_name"`
	Percentage   decimal.Decimal `json:"participation_percentage"`
}

type Consortium struct {
	ID                  uint            `json:"id"`
	RUC                 *string         `json:"ruc"`
	Name                string          `json:"name"`
	LogoURL             string          `json:"logo_url"`
	LegalRepresentative *string         `json:"legal_representative"`
	RepresentativeDNI   *string         `json:"representative_dni"`
	RepresentativeEmail *string         `json:"representative_email"`
	RepresentativePhone *string         `json:"representative_phone"`
	Members             []Member        `json:"members"`
	TotalPercentage     decimal.Decimal `json:"total_percentage"`
	Balanced            bool            `json:"balanced"`
}

func (p *Presenter) Consortium(m *models.Consortium) Consortium {
	out := Consortium{
		ID:                  m.ID,
		RUC:                 m.RUC,
		Name:                m.Name,
		LogoURL:             p.files.URL(m.LogoPath, p.defaultLogo),
		LegalRepresentative: m.LegalRepresentative,
		RepresentativeDNI:   m.RepresentativeDNI,
		RepresentativeEmail: m.RepresentativeEmail,
		RepresentativePhone: m.RepresentativePhone,
		Members:             make([]Member, 0, len(m.Members)),
		TotalPercentage:     ledger.Total(m.Members),
		Balanced:            ledger.Balanced(m.Members),
	}
	for _, ms := range m.Members {
		member := Member{MembershipID: ms.ID, CompanyID: ms.CompanyID, Percentage: ms.ParticipationPercentage}
		if ms.Company != nil {
			member.CompanyName = ms.Company.Name
		}
		out.Members = append(out.Members, member)
	}
	return out
}

type Amounts struct {
	Contractual      decimal.Decimal `json:"contractual"`
	Projected        decimal.Decimal `json:"projected"`
	BalanceToExecute decimal.Decimal `json:"balance_to_execute"`
	Currency         string          `json:"currency"`
}

type Location struct {
	Department    string  `json:"department"`
	Province      string  `json:"province"`
	District      string  `json:"district"`
	FullAddress   string  `json:"full_address"`
	AddressDetail *string `json:"address_detail"`
	DepartmentID  string  `json:"department_id"`
	ProvinceID    string  `json:"province_id"`
	DistrictID    string  `json:"district_id"`
}

type Dates struct {
	Start          string  `json:"start"`
	EndContractual string  `json:"end_contractual"`
	EndReal        *string `json:"end_real"`
	IsExpired      bool    `json:"is_expired"`
}

type Owner struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   *uint  `json:"id"`
}

type Project struct {
	ID           uint     `json:"id"`
	ProjectCode  string   `json:"project_code"`
	ProjectName  string   `json:"project_name"`
	ShortName    string   `json:"short_name"`
	TypeID       uint     `json:"type_id"`
	TypeName     string   `json:"type_name"`
	StatusID     uint     `json:"status_id"`
	StatusName   string   `json:"status_name"`
	Amounts      Amounts  `json:"amounts"`
	Location     Location `json:"location"`
	Dates        Dates    `json:"dates"`
	Owner        Owner    `json:"owner"`
	OwnerName    string   `json:"owner_name"`
	Members      []Member `json:"members,omitempty"`
	CoverURL     *string  `json:"cover_url"`
	CompanyID    *uint    `json:"company_id"`
	ConsortiumID *uint    `json:"consortium_id"`
}

// OwnerName is the consortium name for consortium projects, else the company
// name, else Unassigned.
func OwnerName(m *models.Project) string {
	if m.ConsortiumID != nil && m.Consortium != nil {
		return m.Consortium.Name
	}
	if m.Company != nil {
		return m.Company.Name
	}
	return Unassigned
}

func nameOr(name *string, fallback string) string {
	if name == nil || *name == "" {
		return fallback
	}
	return *name
}

func (p *Presenter) Project(m *models.Project) Project {
	out := Project{
		ID:          m.ID,
		ProjectCode: m.ProjectCode,
		ProjectName: m.ProjectName,
		ShortName:   m.ShortName,
		TypeID:      m.TypeID,
		StatusID:    m.StatusID,
		Amounts: Amounts{
			Contractual:      m.ContractualAmount,
			Projected:        m.ProjectedAmount,
			BalanceToExecute: m.ContractualAmount.Sub(m.ProjectedAmount),
			Currency:         Currency,
		},
		Dates: Dates{
			Start:          m.StartDate.Format(dateLayout),
			EndContractual: m.EndDateContractual.Format(dateLayout),
			IsExpired:      !m.EndDateContractual.IsZero() && p.now().After(m.EndDateContractual),
		},
		OwnerName:    OwnerName(m),
		CompanyID:    m.CompanyID,
		ConsortiumID: m.ConsortiumID,
	}
	if m.Type != nil {
		out.TypeName = m.Type.Name
	}
	if m.Status != nil {
		out.StatusName = m.Status.Name
	}
	if m.EndDateReal != nil {
		s := m.EndDateReal.Format(dateLayout)
		out.Dates.EndReal = &s
	}

	var dep, prov, dist *string
	if m.Department != nil {
		dep = &m.Department.Name
	}
	if m.Province != nil {
		prov = &m.Province.Name
	}
	if m.District != nil {
		dist = &m.District.Name
	}
	out.Location = Location{
		Department:    nameOr(dep, NotAvailable),
		Province:      nameOr(prov, NotAvailable),
		District:      nameOr(dist, NotAvailable),
		FullAddress:   strings.Join([]string{nameOr(dep, ""), nameOr(prov, ""), nameOr(dist, "")}, " - "),
		AddressDetail: m.Address,
		DepartmentID:  m.DepartmentID,
		ProvinceID:    m.ProvinceID,
		DistrictID:    m.DistrictID,
	}

	if m.ConsortiumID != nil {
		out.Owner = Owner{Type: OwnerConsortium, Name: out.OwnerName, ID: m.ConsortiumID}
		if m.Consortium != nil {
			out.Members = p.Consortium(m.Consortium).Members
		}
	} else {
		out.Owner = Owner{Type: OwnerCompany, Name: out.OwnerName, ID: m.CompanyID}
	}

	if m.CoverImage != nil && *m.CoverImage != "" {
		url := p.files.URL(m.CoverImage, "")
		out.CoverURL = &url
	}
	return out
}

type Worker struct {
	UUID             uuid.UUID       `json:"uuid"`
	FullName         string          `json:"full_name"`
	PhotoURL         string          `json:"photo_url"`
	DocumentTypeID   uint            `json:"document_type_id"`
	DocumentType     string          `json:"document_type"`
	DocumentNumber   string          `json:"document_number"`
	FirstName        string          `json:"first_name"`
	LastNamePaternal string          `json:"last_name_paternal"`
	LastNameMaternal string          `json:"last_name_maternal"`
	BirthDate        *time.Time      `json:"birth_date"`
	Phone            *string         `json:"phone"`
	Email            *string         `json:"email"`
	Address          *string         `json:"address"`
	Position         string          `json:"position"`
	PositionID       uint            `json:"position_id"`
	WorkerType       string          `json:"worker_type"`
	Company          string          `json:"company"`
	CompanyID        uint            `json:"company_id"`
	Project          *string         `json:"project"`
	ProjectID        *uint           `json:"project_id"`
	DailySalary      decimal.Decimal `json:"daily_salary"`
	MonthlySalary    decimal.Decimal `json:"monthly_salary"`
	Bank             *string         `json:"bank"`
	BankAccount      *string         `json:"bank_account"`
	CCI              *string         `json:"cci"`
	PensionSystem    *string         `json:"pension_system"`
	CUSPP            *string         `json:"cuspp"`
	HireDate         *time.Time      `json:"hire_date"`
	IsActive         bool            `json:"is_active"`
}

// FullName joins the given name and both surnames, skipping blanks.
func FullName(m *models.Worker) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{m.FirstName, m.LastNamePaternal, m.LastNameMaternal} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Presenter) Worker(m *models.Worker) Worker {
	out := Worker{
		UUID:             m.UUID,
		FullName:         FullName(m),
		PhotoURL:         p.files.URL(m.PhotoPath, p.defaultPhoto),
		DocumentTypeID:   m.DocumentTypeID,
		DocumentNumber:   m.DocumentNumber,
		FirstName:        m.FirstName,
		LastNamePaternal: m.LastNamePaternal,
		LastNameMaternal: m.LastNameMaternal,
		BirthDate:        m.BirthDate,
		Phone:            m.Phone,
		Email:            m.Email,
		Address:          m.Address,
		PositionID:       m.PositionID,
		CompanyID:        m.CompanyID,
		ProjectID:        m.ProjectID,
		DailySalary:      m.DailySalary,
		MonthlySalary:    m.MonthlySalary,
		BankAccount:      m.BankAccount,
		CCI:              m.CCI,
		CUSPP:            m.CUSPP,
		HireDate:         m.HireDate,
		IsActive:         m.IsActive,
	}
	if m.DocumentType != nil {
		out.DocumentType = m.DocumentType.Name
	}
	if m.Position != nil {
		out.Position = m.Position.Name
	}
	if m.WorkerType != nil {
		out.WorkerType = m.WorkerType.Name
	}
	if m.Company != nil {
		out.Company = m.Company.Name
	}
	if m.Project != nil {
		out.Project = &m.Project.ShortName
	}
	if m.Bank != nil {
		out.Bank = &m.Bank.Name
	}
	if m.PensionSystem != nil {
		out.PensionSystem = &m.PensionSystem.Name
	}
	return out
}

type Attendance struct {
	ID            uint            `json:"id"`
	WorkerUUID    *uuid.UUID      `json:"worker_uuid"`
	WorkerName    string          `json:"worker_name"`
	Date          string          `json:"date"`
	CheckIn       *string         `json:"check_in"`
	CheckOut      *string         `json:"check_out"`
	Status        string          `json:"status"`
	HoursWorked   decimal.Decimal `json:"hours_worked"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Observation   *string         `json:"observation"`
}

func (p *Presenter) Attendance(m *models.Attendance) Attendance {
	out := Attendance{
		ID:            m.ID,
		Date:          m.Date.Format(dateLayout),
		CheckIn:       m.CheckIn,
		CheckOut:      m.CheckOut,
		HoursWorked:   m.HoursWorked,
		OvertimeHours: m.OvertimeHours,
		Observation:   m.Observation,
	}
	if m.Worker != nil {
		id := m.Worker.UUID
		out.WorkerUUID = &id
		out.WorkerName = FullName(m.Worker)
	}
	if m.Status != nil {
		out.Status = m.Status.Name
	}
	return out
}

type Participant struct {
	WorkerUUID uuid.UUID `json:"worker_uuid"`
	FullName   string    `json:"full_name"`
	Signed     bool      `json:"signed"`
}

type SafetyTalk struct {
	ID             uint          `json:"id"`
	ProjectID      uint          `json:"project_id"`
	Date           string        `json:"date"`
	Topic          string        `json:"topic"`
	Description    *string       `json:"description"`
	InstructorName string        `json:"instructor_name"`
	EvidenceURL    *string       `json:"evidence_url"`
	Participants   []Participant `json:"participants"`
	SignedCount    int           `json:"signed_count"`
}

func (p *Presenter) SafetyTalk(m *models.SafetyTalk) SafetyTalk {
	out := SafetyTalk{
		ID:             m.ID,
		ProjectID:      m.ProjectID,
		Date:           m.Date.Format(dateLayout),
		Topic:          m.Topic,
		Description:    m.Description,
		InstructorName: m.InstructorName,
		Participants:   make([]Participant, 0, len(m.Participants)),
	}
	if m.EvidencePath != nil && *m.EvidencePath != "" {
		url := p.files.URL(m.EvidencePath, "")
		out.EvidenceURL = &url
	}
	for _, part := range m.Participants {
		pv := Participant{Signed: part.Signed}
		if part.Worker != nil {
			pv.WorkerUUID = part.Worker.UUID
			pv.FullName = FullName(part.Worker)
		}
		if part.Signed {
			out.SignedCount++
		}
		out.Participants = append(out.Participants, pv)
	}
	return out
}

// Map applies fn to every item of a page, keeping the pagination data.
func Map[T, V any](page models.Page[T], fn func(*T) V) models.Page[V] {
	out := models.Page[V]{Total: page.Total, Page: page.Page, PerPage: page.PerPage, Items: make([]V, 0, len(page.Items))}
	for i := range page.Items {
		out.Items = append(out.Items, fn(&page.Items[i]))
	}
	return out
}
