package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() Candidate {
	return Candidate{
		"name":    "Alice Smith",
		"email":   "alice@example.com",
		"country": "USA",
		"status":  "Exploring",
	}
}

func TestValidatorAcceptsValidCandidate(t *testing.T) {
	outcome := NewValidator().Validate(validCandidate())
	assert.True(t, outcome.Valid)
	assert.Empty(t, outcome.Errors)
	assert.Empty(t, outcome.Warnings)
}

func TestValidatorNameRules(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name  string
		value interface{}
	}{
		{"missing", nil},
		{"empty", ""},
		{"single char", "A"},
		{"whitespace only", "   "},
		{"wrong type", 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCandidate()
			if tc.value == nil {
				delete(c, "name")
			} else {
				c["name"] = tc.value
			}
			outcome := v.Validate(c)
			assert.False(t, outcome.Valid)
			assert.Contains(t, outcome.Errors, "name is required and must be at least 2 characters")
		})
	}

	c := validCandidate()
	c["name"] = strings.Repeat("x", 101)
	outcome := v.Validate(c)
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Errors, "name must be at most 100 characters")
}

func TestValidatorNameLengthCountsRunes(t *testing.T) {
	v := NewValidator()

	c := validCandidate()
	c["name"] = "李"
	outcome := v.Validate(c)
	assert.False(t, outcome.Valid, "a single multibyte character is still one character")
	assert.Contains(t, outcome.Errors, "name is required and must be at least 2 characters")

	c = validCandidate()
	c["name"] = "李华"
	assert.True(t, v.Validate(c).Valid)

	c = validCandidate()
	c["name"] = strings.Repeat("ü", 100)
	assert.True(t, v.Validate(c).Valid, "100 multibyte characters fit the limit")

	c = validCandidate()
	c["name"] = strings.Repeat("ü", 101)
	outcome = v.Validate(c)
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Errors, "name must be at most 100 characters")
}

func TestValidatorEmailRule(t *testing.T) {
	v := NewValidator()

	for _, email := range []string{"", "plainaddress", "no@tld", "spaces in@example.com", "@example.com"} {
		c := validCandidate()
		c["email"] = email
		outcome := v.Validate(c)
		assert.False(t, outcome.Valid, "email %q should be rejected", email)
	}

	c := validCandidate()
	c["email"] = "first.last+tag@sub.example.co.uk"
	assert.True(t, v.Validate(c).Valid)
}

func TestValidatorCountryRule(t *testing.T) {
	v := NewValidator()

	for _, country := range []string{"", "X"} {
		c := validCandidate()
		c["country"] = country
		outcome := v.Validate(c)
		assert.False(t, outcome.Valid)
		assert.Contains(t, outcome.Errors, "country is required and must be between 2 and 50 characters")
	}

	c := validCandidate()
	c["country"] = strings.Repeat("y", 51)
	assert.False(t, v.Validate(c).Valid)
}

func TestValidatorCountryLengthCountsRunes(t *testing.T) {
	v := NewValidator()

	c := validCandidate()
	c["country"] = "Территория Российской Федерации"
	assert.True(t, v.Validate(c).Valid, "31 Cyrillic characters are within the 50-character limit")

	c = validCandidate()
	c["country"] = strings.Repeat("ж", 51)
	outcome := v.Validate(c)
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Errors, "country is required and must be between 2 and 50 characters")
}

func TestValidatorStatusRule(t *testing.T) {
	v := NewValidator()

	c := validCandidate()
	c["status"] = "Enrolled"
	outcome := v.Validate(c)
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Errors, "status must be one of: Exploring, Shortlisting, Applying, Submitted")

	for _, status := range []string{"Exploring", "Shortlisting", "Applying", "Submitted"} {
		c := validCandidate()
		c["status"] = status
		assert.True(t, v.Validate(c).Valid, "status %q should be accepted", status)
	}
}

func TestValidatorPhoneWarning(t *testing.T) {
	v := NewValidator()

	c := validCandidate()
	c["phone"] = "call me maybe"
	outcome := v.Validate(c)
	assert.True(t, outcome.Valid)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "phone")

	for _, phone := range []string{"+14155550123", "14155550123", "+1"} {
		c := validCandidate()
		c["phone"] = phone
		assert.Empty(t, v.Validate(c).Warnings, "phone %q should not warn", phone)
	}
}

func TestValidatorGradeWarning(t *testing.T) {
	v := NewValidator()

	for _, grade := range []string{"9th", "12th", "Freshman", "Senior", "11"} {
		c := validCandidate()
		c["grade"] = grade
		assert.Empty(t, v.Validate(c).Warnings, "grade %q should not warn", grade)
	}

	c := validCandidate()
	c["grade"] = "College Sophomore"
	outcome := v.Validate(c)
	assert.True(t, outcome.Valid)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "grade")
}

func TestValidatorDisposableEmailWarning(t *testing.T) {
	v := NewValidator()

	c := validCandidate()
	c["email"] = "alice@mailinator.com"
	outcome := v.Validate(c)
	assert.True(t, outcome.Valid, "disposable email warns but never blocks")
	require.Len(t, outcome.Warnings, 1)
	assert.Equal(t, `email domain "mailinator.com" is a disposable email provider`, outcome.Warnings[0])
}

func TestValidatorUnknownFieldWarnings(t *testing.T) {
	v := NewValidator()

	c := validCandidate()
	c["zodiac"] = "libra"
	c["favorite_color"] = "blue"
	outcome := v.Validate(c)
	assert.True(t, outcome.Valid)
	require.Len(t, outcome.Warnings, 2)
	assert.Equal(t, fmt.Sprintf("unrecognized field %q ignored", "favorite_color"), outcome.Warnings[0])
	assert.Equal(t, fmt.Sprintf("unrecognized field %q ignored", "zodiac"), outcome.Warnings[1])
}

func TestCandidateStudentMapping(t *testing.T) {
	c := Candidate{
		"name":             "  Alice Smith  ",
		"email":            "alice@example.com",
		"phone":            "+14155550123",
		"grade":            "11th",
		"country":          "USA",
		"status":           "Applying",
		"high_intent":      true,
		"needs_essay_help": false,
		"source":           "webinar",
		"zodiac":           "libra",
	}

	student := CandidateStudent(c)
	assert.Equal(t, "Alice Smith", student.Name)
	assert.Equal(t, "alice@example.com", student.Email)
	require.NotNil(t, student.Phone)
	assert.Equal(t, "+14155550123", *student.Phone)
	require.NotNil(t, student.Grade)
	assert.Equal(t, "11th", *student.Grade)
	assert.Equal(t, "USA", student.Country)
	assert.True(t, student.HighIntent)
	assert.False(t, student.NeedsEssayHelp)
	require.NotNil(t, student.Source)
	assert.Equal(t, "webinar", *student.Source)
}
