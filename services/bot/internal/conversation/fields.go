package conversation

import (
	"errors"
	"strings"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/pkg/validation"
)

type inputKind int

const (
	inputText inputKind = iota
	inputPhone
	inputRegion
	inputCategory
	inputDirection
	inputStudentType
	inputDocument
	inputOptional
)

// resumeField is the document step of the graduate flow. It is not a
// payload key; the file lands in the ad's file reference.
const resumeField = "resume"

type field struct {
	key    string
	prompt string
	label  string
	input  inputKind
	check  func(string) error
}

func minLen(n int) func(string) error {
	return func(s string) error { return validation.ValidateTextLength(s, n, 0) }
}

func age(min int) func(string) error {
	return func(s string) error { return validation.ValidateAge(s, min, validation.MaxAge) }
}

var graduateFlow = []field{
	{key: "name", prompt: "enter_name", input: inputText, check: minLen(2)},
	{key: "age", prompt: "enter_age_gr", input: inputText, check: age(validation.MinAge)},
	{key: "technologies", prompt: "enter_technologies", input: inputText, check: minLen(2)},
	{key: "contact", prompt: "enter_contact", input: inputPhone},
	{key: "region", prompt: "enter_region", input: inputRegion},
	{key: "price", prompt: "enter_price", input: inputText, check: minLen(1)},
	{key: "profession", prompt: "enter_profession", input: inputCategory},
	{key: "contact_time", prompt: "enter_contact_time", input: inputText, check: minLen(1)},
	{key: "goal", prompt: "enter_goal", input: inputText, check: minLen(1)},
	{key: resumeField, prompt: "enter_resume", input: inputDocument},
}

var employerFlow = []field{
	{key: "company", prompt: "enter_company", input: inputText, check: minLen(2)},
	{key: "name", prompt: "enter_name", input: inputText, check: minLen(3)},
	{key: "age", prompt: "enter_age_emp", input: inputText, check: age(validation.MinAgeEmployer)},
	{key: "category", prompt: "enter_job_category", input: inputCategory},
	{key: "gender", prompt: "enter_gender", input: inputText, check: validation.ValidateGender},
	{key: "experience", prompt: "enter_experience", input: inputText, check: minLen(1)},
	{key: "work_days", prompt: "enter_work_days", input: inputText, check: minLen(1)},
	{key: "work_hours", prompt: "enter_work_hours", input: inputText, check: minLen(1)},
	{key: "location", prompt: "enter_location", input: inputText, check: minLen(5)},
	{key: "salary", prompt: "enter_salary", input: inputText, check: validation.ValidateSalary},
	{key: "requirements", prompt: "enter_requirements", input: inputOptional},
}

var studentFlow = []field{
	{key: "name", prompt: "enter_student_name", label: "label_name", input: inputText, check: minLen(2)},
	{key: "direction", prompt: "enter_student_direction", label: "label_direction", input: inputDirection},
	{key: "group_number", prompt: "enter_student_group", label: "label_group", input: inputText, check: minLen(2)},
	{key: "type", prompt: "enter_student_type", label: "label_type", input: inputStudentType},
	{key: "message", prompt: "enter_student_message", label: "label_message", input: inputText, check: minLen(10)},
}

func fieldsOf(f Flow) []field {
	switch f {
	case FlowGraduate:
		return graduateFlow
	case FlowEmployer:
		return employerFlow
	case FlowStudent:
		return studentFlow
	case FlowNone:
		return nil
	}
	return nil
}

func lookupField(f Flow, key string) (field, int, bool) {
	for i, fd := range fieldsOf(f) {
		if fd.key == key {
			return fd, i, true
		}
	}
	return field{}, -1, false
}

// editLabel is the button label of a field on the edit keyboard.
func (f field) editLabel(lang domain.Language) string {
	if f.label != "" {
		return i18n.Text(lang, f.label)
	}
	return i18n.Text(lang, "edit_"+f.key)
}

func flowForRole(r domain.Role) Flow {
	switch r {
	case domain.RoleGraduate:
		return FlowGraduate
	case domain.RoleEmployer:
		return FlowEmployer
	case domain.RoleStudent:
		return FlowStudent
	case domain.RoleUnset:
		return FlowNone
	}
	return FlowNone
}

func flowForAdType(t domain.AdType) Flow {
	switch t {
	case domain.AdGraduate:
		return FlowGraduate
	case domain.AdEmployer:
		return FlowEmployer
	}
	return FlowNone
}

func (f Flow) adType() domain.AdType {
	switch f {
	case FlowGraduate:
		return domain.AdGraduate
	case FlowEmployer:
		return domain.AdEmployer
	case FlowStudent, FlowNone:
		return ""
	}
	return ""
}

var studentTypeWords = map[string]domain.MessageType{
	"taklif":      domain.MessageSuggest,
	"предложение": domain.MessageSuggest,
	"shikoyat":    domain.MessageComplaint,
	"жалоба":      domain.MessageComplaint,
}

func parseStudentType(s string) (domain.MessageType, bool) {
	t, ok := studentTypeWords[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// failureText maps a validation failure to its localized message.
func failureText(lang domain.Language, err error) string {
	var f *validation.Failure
	if !errors.As(err, &f) {
		return i18n.Text(lang, "error_retry")
	}
	switch f.Code {
	case validation.CodePhone:
		return i18n.Text(lang, "err_phone")
	case validation.CodeAgeNotDigit:
		return i18n.Text(lang, "err_age_not_digit")
	case validation.CodeAgeRange:
		return i18n.Format(lang, "err_age_range", f.Min, f.Max)
	case validation.CodeTooShort:
		return i18n.Format(lang, "err_too_short", f.Min)
	case validation.CodeTooLong:
		return i18n.Format(lang, "err_too_long", f.Max)
	case validation.CodeSalary:
		return i18n.Text(lang, "err_salary")
	case validation.CodeGender:
		return i18n.Text(lang, "err_gender")
	}
	return i18n.Text(lang, "error_retry")
}
