package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
)

// Candidate is a student-shaped payload as submitted for import or live
// validation. Values arrive as decoded JSON, so field types are unchecked;
// a wrong-typed field reads as missing rather than panicking.
type Candidate map[string]interface{}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{1,16}$`)
	gradePattern = regexp.MustCompile(`^(9th|10th|11th|12th|Freshman|Sophomore|Junior|Senior|[0-9]{1,2})$`)
)

// disposableDomains lists throwaway email providers that trigger an advisory
// warning. Addresses on these domains still import.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"tempmail.com":      {},
	"10minutemail.com":  {},
	"guerrillamail.com": {},
	"throwaway.email":   {},
	"yopmail.com":       {},
}

// recognizedFields is the candidate field set. Anything else is reported by
// name as a warning and ignored, never a rejection.
var recognizedFields = map[string]struct{}{
	"name":             {},
	"email":            {},
	"phone":            {},
	"grade":            {},
	"country":          {},
	"status":           {},
	"high_intent":      {},
	"needs_essay_help": {},
	"source":           {},
}

// validationRule inspects one candidate aspect and reports a message when
// violated.
type validationRule func(c Candidate) (string, bool)

// Validator applies field-level rules to a single candidate. Pure, no I/O.
// The rules live in two ordered lists so each one is independently testable
// and extension means appending a pair, not editing a regex soup.
type Validator struct {
	errorRules   []validationRule
	warningRules []validationRule
}

// NewValidator builds the validator with the standard rule set.
func NewValidator() *Validator {
	return &Validator{
		errorRules: []validationRule{
			checkNameMinLength,
			checkNameMaxLength,
			checkEmailShape,
			checkCountry,
			checkStatus,
		},
		warningRules: []validationRule{
			checkPhoneShape,
			checkGradeLabel,
			checkDisposableDomain,
		},
	}
}

// Validate evaluates every rule against the candidate. Errors make the
// outcome invalid; warnings are advisory and never block import.
func (v *Validator) Validate(candidate Candidate) dto.ValidationOutcome {
	outcome := dto.ValidationOutcome{Valid: true, Errors: []string{}, Warnings: []string{}}

	for _, rule := range v.errorRules {
		if msg, violated := rule(candidate); violated {
			outcome.Errors = append(outcome.Errors, msg)
		}
	}
	for _, rule := range v.warningRules {
		if msg, violated := rule(candidate); violated {
			outcome.Warnings = append(outcome.Warnings, msg)
		}
	}
	outcome.Warnings = append(outcome.Warnings, unknownFieldWarnings(candidate)...)

	outcome.Valid = len(outcome.Errors) == 0
	return outcome
}

// stringField extracts a string value. Absent or non-string values read as
// missing.
func stringField(c Candidate, key string) (string, bool) {
	raw, ok := c[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok {
		return "", false
	}
	return value, true
}

func checkNameMinLength(c Candidate) (string, bool) {
	name, _ := stringField(c, "name")
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return "name is required and must be at least 2 characters", true
	}
	return "", false
}

func checkNameMaxLength(c Candidate) (string, bool) {
	name, ok := stringField(c, "name")
	if ok && utf8.RuneCountInString(strings.TrimSpace(name)) > 100 {
		return "name must be at most 100 characters", true
	}
	return "", false
}

func checkEmailShape(c Candidate) (string, bool) {
	email, _ := stringField(c, "email")
	if !emailPattern.MatchString(email) {
		return "email is required and must be a valid email address", true
	}
	return "", false
}

func checkCountry(c Candidate) (string, bool) {
	country, _ := stringField(c, "country")
	length := utf8.RuneCountInString(strings.TrimSpace(country))
	if length < 2 || length > 50 {
		return "country is required and must be between 2 and 50 characters", true
	}
	return "", false
}

func checkStatus(c Candidate) (string, bool) {
	status, _ := stringField(c, "status")
	if !models.ValidStatus(status) {
		return "status must be one of: Exploring, Shortlisting, Applying, Submitted", true
	}
	return "", false
}

func checkPhoneShape(c Candidate) (string, bool) {
	phone, ok := stringField(c, "phone")
	if !ok || phone == "" {
		return "", false
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Sprintf("phone %q does not match the expected format", phone), true
	}
	return "", false
}

func checkGradeLabel(c Candidate) (string, bool) {
	grade, ok := stringField(c, "grade")
	if !ok || grade == "" {
		return "", false
	}
	if !gradePattern.MatchString(grade) {
		return fmt.Sprintf("grade %q is not a recognized grade label", grade), true
	}
	return "", false
}

func checkDisposableDomain(c Candidate) (string, bool) {
	email, _ := stringField(c, "email")
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", false
	}
	domain := strings.ToLower(email[at+1:])
	if _, found := disposableDomains[domain]; found {
		return fmt.Sprintf("email domain %q is a disposable email provider", domain), true
	}
	return "", false
}

func unknownFieldWarnings(c Candidate) []string {
	unknown := []string{}
	for key := range c {
		if _, ok := recognizedFields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	warnings := make([]string, 0, len(unknown))
	for _, key := range unknown {
		warnings = append(warnings, fmt.Sprintf("unrecognized field %q ignored", key))
	}
	return warnings
}

// CandidateStudent maps a validated candidate onto a Student model. Flags
// default to false, status must already be validated, unrecognized fields
// are excluded.
func CandidateStudent(c Candidate) models.Student {
	student := models.Student{
		Name:    strings.TrimSpace(stringOr(c, "name")),
		Email:   stringOr(c, "email"),
		Country: strings.TrimSpace(stringOr(c, "country")),
		Status:  models.StudentStatus(stringOr(c, "status")),
	}
	if phone, ok := stringField(c, "phone"); ok && phone != "" {
		student.Phone = &phone
	}
	if grade, ok := stringField(c, "grade"); ok && grade != "" {
		student.Grade = &grade
	}
	if source, ok := stringField(c, "source"); ok && source != "" {
		student.Source = &source
	}
	if flag, ok := c["high_intent"].(bool); ok {
		student.HighIntent = flag
	}
	if flag, ok := c["needs_essay_help"].(bool); ok {
		student.NeedsEssayHelp = flag
	}
	return student
}

func stringOr(c Candidate, key string) string {
	value, _ := stringField(c, key)
	return value
}
