// Package validation holds the stateless input rules used by the
// conversation flows. Every rule returns nil on success or a *Failure.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinAge         = 16
	MaxAge         = 65
	MinAgeEmployer = 18
)

type Code string

const (
	CodePhone       Code = "phone"
	CodeAgeNotDigit Code = "age_not_digit"
	CodeAgeRange    Code = "age_range"
	CodeTooShort    Code = "too_short"
	CodeTooLong     Code = "too_long"
	CodeSalary      Code = "salary"
	CodeGender      Code = "gender"
)

// Failure is a rejected input. Min and Max carry the bound that was
// violated where one applies.
type Failure struct {
	Code Code
	Min  int
	Max  int
}

func (f *Failure) Error() string {
	switch f.Code {
	case CodePhone:
		return "invalid phone number"
	case CodeAgeNotDigit:
		return "age must be a number"
	case CodeAgeRange:
		return fmt.Sprintf("age must be between %d and %d", f.Min, f.Max)
	case CodeTooShort:
		return fmt.Sprintf("text must be at least %d characters", f.Min)
	case CodeTooLong:
		return fmt.Sprintf("text must be at most %d characters", f.Max)
	case CodeSalary:
		return "salary must be a number"
	case CodeGender:
		return "unknown gender option"
	}
	return "invalid input"
}

var phonePattern = regexp.MustCompile(`^(\+998|998)?[0-9]{9}$`)

var phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// ValidatePhone accepts a 9-digit local number with an optional +998 or
// 998 prefix, ignoring spaces, dashes and parentheses.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phoneNoise.Replace(phone)) {
		return &Failure{Code: CodePhone}
	}
	return nil
}

// CleanPhone canonicalizes a phone number to the +998 form.
func CleanPhone(phone string) string {
	cleaned := phoneNoise.Replace(phone)
	switch {
	case strings.HasPrefix(cleaned, "998"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "8") && len(cleaned) == 9:
		return "+998" + cleaned[1:]
	case !strings.HasPrefix(cleaned, "+"):
		return "+998" + cleaned
	}
	return cleaned
}

// ValidateAge requires an all-digit value within [min, max].
func ValidateAge(age string, min, max int) error {
	if !isDigits(age) {
		return &Failure{Code: CodeAgeNotDigit}
	}
	n, err := strconv.Atoi(age)
	if err != nil || n < min || n > max {
		return &Failure{Code: CodeAgeRange, Min: min, Max: max}
	}
	return nil
}

// ValidateTextLength checks the rune length of text. A max of zero or
// less means no upper bound.
func ValidateTextLength(text string, min, max int) error {
	n := utf8.RuneCountInString(text)
	if text == "" || n < min {
		return &Failure{Code: CodeTooShort, Min: min}
	}
	if max > 0 && n > max {
		return &Failure{Code: CodeTooLong, Max: max}
	}
	return nil
}

var salaryNoise = strings.NewReplacer("$", "", " ", "", ",", "")

// ValidateSalary accepts digits once dollar signs, spaces and commas are
// removed.
func ValidateSalary(salary string) error {
	if !isDigits(salaryNoise.Replace(salary)) {
		return &Failure{Code: CodeSalary}
	}
	return nil
}

var genders = map[string]struct{}{
	"erkak":       {},
	"ayol":        {},
	"farqi yo'q":  {},
	"ahamiyatsiz": {},
	"мужчина":     {},
	"женщина":     {},
	"не важно":    {},
}

// ValidateGender accepts one of the known options in either locale,
// case-insensitively.
func ValidateGender(gender string) error {
	if _, ok := genders[strings.ToLower(gender)]; !ok || gender == "" {
		return &Failure{Code: CodeGender}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
