package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Graduate and employer field keys in prompt order.
var (
	GraduateFields = []string{"name", "age", "technologies", "contact", "region", "price", "profession", "contact_time", "goal"}
	EmployerFields = []string{"company", "name", "age", "category", "gender", "experience", "work_days", "work_hours", "location", "salary", "requirements"}
)

// FieldsFor returns the ordered payload keys of an ad type.
func FieldsFor(t AdType) []string {
	switch t {
	case AdGraduate:
		return GraduateFields
	case AdEmployer:
		return EmployerFields
	}
	return nil
}

type graduatePayload struct {
	Name         string `json:"name" validate:"required"`
	Age          string `json:"age" validate:"required,numeric"`
	Technologies string `json:"technologies" validate:"required"`
	Contact      string `json:"contact" validate:"required"`
	Region       string `json:"region" validate:"required"`
	Price        string `json:"price" validate:"required"`
	Profession   string `json:"profession" validate:"required"`
	ContactTime  string `json:"contact_time"`
	Goal         string `json:"goal"`
}

type employerPayload struct {
	Company      string `json:"company" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Age          string `json:"age" validate:"required,numeric"`
	Category     string `json:"category" validate:"required"`
	Gender       string `json:"gender"`
	Experience   string `json:"experience"`
	WorkDays     string `json:"work_days"`
	WorkHours    string `json:"work_hours"`
	Location     string `json:"location" validate:"required"`
	Salary       string `json:"salary" validate:"required"`
	Requirements string `json:"requirements"`
}

// PayloadError lists the schema violations of an ad payload.
type PayloadError struct {
	Type    AdType
	Missing []string
	Unknown []string
}

func (e *PayloadError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "invalid: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown: "+strings.Join(e.Unknown, ", "))
	}
	return fmt.Sprintf("%s payload %s", e.Type, strings.Join(parts, "; "))
}

var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePayload checks data against the field schema of t.
func ValidatePayload(t AdType, data Payload) error {
	var target any
	switch t {
	case AdGraduate:
		target = &graduatePayload{}
	case AdEmployer:
		target = &employerPayload{}
	default:
		return fmt.Errorf("unknown ad type %q", t)
	}
	known := make(map[string]struct{}, len(FieldsFor(t)))
	for _, key := range FieldsFor(t) {
		known[key] = struct{}{}
	}
	perr := &PayloadError{Type: t}
	for key := range data {
		if _, ok := known[key]; !ok {
			perr.Unknown = append(perr.Unknown, key)
		}
	}
	sort.Strings(perr.Unknown)

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := payloadValidator.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			perr.Missing = append(perr.Missing, fe.Field())
		}
	}
	if len(perr.Missing) == 0 && len(perr.Unknown) == 0 {
		return nil
	}
	return perr
}
