// Package validation checks input structures with go-playground/validator
// and converts the failures into field-keyed validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm/schema"
)

// PhoneRegion is the default region for phone numbers without a country code.
const PhoneRegion = "PE"

var (
	rucPattern = regexp.MustCompile(`^\d{11}$`)
	dniPattern = regexp.MustCompile(`^\d{8}$`)
)

type Validator struct {
	validate *validator.Validate
}

// New builds a validator with the ruc, dni and pephone rules registered.
// Field names in errors are snake_case, or the form tag when present.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	naming := schema.NamingStrategy{}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("form"), ","); name != "" && name != "-" {
			return name
		}
		return naming.ColumnName("", f.Name)
	})
	_ = v.RegisterValidation("ruc", func(fl validator.FieldLevel) bool {
		return rucPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return dniPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pephone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidPhone reports whether number is a valid phone number, read in the
// PhoneRegion numbering plan when it carries no country code.
func ValidPhone(number string) bool {
	p, err := libphonenumber.Parse(number, PhoneRegion)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

// Struct validates s. The returned error is a *errors.ValidationError.
func (v *Validator) Struct(s interface{}) error {
	return v.StructWithPrefix(s, "")
}

// StructWithPrefix is Struct with every field key prefixed, for inputs
// nested in a larger form.
func (v *Validator) StructWithPrefix(s interface{}, prefix string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	out := &e.ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(prefix+fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("may not be greater than %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be a date after or equal to %s", naming(fe.Param()))
	case "numeric":
		return "must be a number"
	case "uuid":
		return "must be a valid UUID"
	case "ruc":
		return "must be exactly 11 digits"
	case "dni":
		return "must be exactly 8 digits"
	case "pephone":
		return "must be a valid phone number"
	case "latitude", "longitude":
		return fmt.Sprintf("must be a valid %s", fe.Tag())
	default:
		return "is invalid"
	}
}

func naming(field string) string {
	return schema.NamingStrategy{}.ColumnName("", field)
}
