package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/gartstein/backoffice/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// form reads urlencoded or multipart fields, collecting conversion errors
// per field.
type form struct {
	c    *gin.Context
	errs *e.ValidationError
}

func newForm(c *gin.Context) *form {
	return &form{c: c, errs: &e.ValidationError{}}
}

func (f *form) has(key string) bool {
	_, ok := f.c.GetPostForm(key)
	return ok
}

func (f *form) str(key string) string {
	return strings.TrimSpace(f.c.PostForm(key))
}

func (f *form) optStr(key string) *string {
	return utils.NilIfBlank(f.c.PostForm(key))
}

func (f *form) optUint(key string) *uint {
	raw := f.str(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		f.errs.Add(key, "must be a number")
		return nil
	}
	v := uint(n)
	return &v
}

func (f *form) uint(key string) uint {
	return utils.Deref(f.optUint(key), 0)
}

func (f *form) decimal(key string) decimal.Decimal {
	raw := f.str(key)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.errs.Add(key, "must be a number")
		return decimal.Zero
	}
	return d
}

func (f *form) optDate(key string) *time.Time {
	raw := f.str(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		f.errs.Add(key, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

func (f *form) date(key string) time.Time {
	return utils.Deref(f.optDate(key), time.Time{})
}

func (f *form) bool(key string) bool {
	switch strings.ToLower(f.str(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// list returns the repeated values of key, accepting both key and key[].
func (f *form) list(key string) []string {
	values := append(f.c.PostFormArray(key), f.c.PostFormArray(key+"[]")...)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// upload reads an optional uploaded file. At most limit+1 bytes are read so
// oversize files are still rejected by storage validation.
func (f *form) upload(field string, limit int64) *storage.Upload {
	header, err := f.c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	if err != nil {
		f.errs.Add(field, "could not be read")
		return nil
	}
	file, err := header.Open()
	if err != nil {
		f.errs.Add(field, "could not be read")
		return nil
	}
	defer file.Close()

	reader := io.Reader(file)
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		f.errs.Add(field, "could not be read")
		return nil
	}
	return &storage.Upload{Field: field, Filename: header.Filename, Data: data}
}

func (f *form) err() error {
	return f.errs.OrNil()
}

func parameterForm(f *form) models.ParameterInput {
	return models.ParameterInput{
		Group:       f.str("group"),
		Name:        f.str("name"),
		Description: f.optStr("description"),
		ParentID:    f.optUint("parent_id"),
		IsActive:    f.bool("is_active"),
	}
}

func companyForm(f *form) models.CompanyInput {
	return models.CompanyInput{
		RUC:                 f.str("ruc"),
		Name:                f.str("name"),
		Email:               f.optStr("email"),
		Phone:               f.optStr("phone"),
		Address:             f.optStr("address"),
		IssuesPaymentOrder:  f.bool("issues_payment_order"),
		LegalRepresentative: f.optStr("legal_representative"),
		RepresentativeDNI:   f.optStr("representative_dni"),
		RepresentativePhone: f.optStr("representative_phone"),
	}
}

func consortiumForm(f *form) models.ConsortiumInput {
	return models.ConsortiumInput{
		RUC:                 f.optStr("ruc"),
		Name:                f.str("name"),
		LegalRepresentative: f.optStr("legal_representative"),
		RepresentativeDNI:   f.optStr("representative_dni"),
		RepresentativeEmail: f.optStr("representative_email"),
		RepresentativePhone: f.optStr("representative_phone"),
	}
}

// membersForm reads selected_companies[i][company_id] and
// selected_companies[i][percentage] rows until the first missing index. ok
// is false when the form carries no member list at all.
func membersForm(f *form) (members []models.MemberInput, ok bool) {
	members = []models.MemberInput{}
	ok = f.has("selected_companies")
	for i := 0; ; i++ {
		idKey := fmt.Sprintf("selected_companies[%d][company_id]", i)
		pctKey := fmt.Sprintf("selected_companies[%d][percentage]", i)
		if !f.has(idKey) && !f.has(pctKey) {
			break
		}
		ok = true
		m := models.MemberInput{
			CompanyID:  utils.Deref(f.optUint(idKey), 0),
			Percentage: f.decimal(pctKey),
		}
		members = append(members, m)
	}
	return members, ok
}

func projectForm(f *form) models.ProjectInput {
	return models.ProjectInput{
		ProjectCode:        f.optStr("project_code"),
		ProjectName:        f.str("project_name"),
		ShortName:          f.str("short_name"),
		TypeID:             f.uint("type_id"),
		StatusID:           f.uint("status_id"),
		ContractualAmount:  f.decimal("contractual_amount"),
		ProjectedAmount:    f.decimal("projected_amount"),
		StartDate:          f.date("start_date"),
		EndDateContractual: f.date("end_date_contractual"),
		EndDateReal:        f.optDate("end_date_real"),
		DepartmentID:       f.str("department_id"),
		ProvinceID:         f.str("province_id"),
		DistrictID:         f.str("district_id"),
		Address:            f.optStr("address"),
		CompanyID:          f.optUint("company_id"),
		ConsortiumID:       f.optUint("consortium_id"),
	}
}

func workerForm(f *form) models.WorkerInput {
	return models.WorkerInput{
		DocumentTypeID:   f.uint("document_type_id"),
		DocumentNumber:   f.str("document_number"),
		FirstName:        f.str("first_name"),
		LastNamePaternal: f.str("last_name_paternal"),
		LastNameMaternal: f.str("last_name_maternal"),
		BirthDate:        f.optDate("birth_date"),
		GenderID:         f.optUint("gender_id"),
		Phone:            f.optStr("phone"),
		Email:            f.optStr("email"),
		Address:          f.optStr("address"),
		WorkerTypeID:     f.uint("worker_type_id"),
		PositionID:       f.uint("position_id"),
		ProjectID:        f.optUint("project_id"),
		CompanyID:        f.uint("company_id"),
		DailySalary:      f.decimal("daily_salary"),
		MonthlySalary:    f.decimal("monthly_salary"),
		PaymentTypeID:    f.optUint("payment_type_id"),
		BankID:           f.optUint("bank_id"),
		PensionSystemID:  f.optUint("pension_system_id"),
		BankAccount:      f.optStr("bank_account"),
		CCI:              f.optStr("cci"),
		CUSPP:            f.optStr("cuspp"),
		HireDate:         f.optDate("hire_date"),
		IsActive:         !f.has("is_active") || f.bool("is_active"),
	}
}

func attendanceForm(f *form) models.AttendanceInput {
	return models.AttendanceInput{
		WorkerUUID:    f.str("worker_uuid"),
		Date:          f.date("date"),
		CheckIn:       f.optStr("check_in"),
		CheckOut:      f.optStr("check_out"),
		StatusID:      f.uint("status_id"),
		HoursWorked:   f.decimal("hours_worked"),
		OvertimeHours: f.decimal("overtime_hours"),
		Latitude:      f.optStr("latitude"),
		Longitude:     f.optStr("longitude"),
		Observation:   f.optStr("observation"),
	}
}

func safetyTalkForm(f *form) models.SafetyTalkInput {
	return models.SafetyTalkInput{
		Date:           f.date("date"),
		Topic:          f.str("topic"),
		Description:    f.optStr("description"),
		InstructorName: f.str("instructor_name"),
		WorkerUUIDs:    f.list("worker_uuids"),
	}
}
