// Package forms validates user input before it reaches the backend. Each
// form mirrors the fields of one page and reports failures per field.
package forms

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldErrors maps a form field to its first failure message. It implements
// error so callers can return it directly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// message selects the user-facing text for one validation failure.
type message struct {
	field, tag, text string
}

func check(form interface{}, messages []message) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		text := ""
		for _, m := range messages {
			if m.field == fe.StructField() && (m.tag == "" || m.tag == fe.Tag()) {
				text = m.text
				break
			}
		}
		if text == "" {
			text = "Invalid value"
		}
		key := fieldName(fe.StructField())
		if _, taken := out[key]; !taken {
			out[key] = text
		}
	}
	return out
}

// fieldName converts a struct field name to the camelCase key the UI binds
// errors to.
func fieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

// Login is the sign-in form.
type Login struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (f Login) Validate() error {
	return check(f, []message{
		{"Email", "", "Please enter a valid email address"},
		{"Password", "", "Password is required"},
	})
}

// Register is the account creation form.
type Register struct {
	Name            string `validate:"required,min=2"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

func (f Register) Validate() error {
	return check(f, []message{
		{"Name", "", "Name must be at least 2 characters"},
		{"Email", "", "Please enter a valid email address"},
		{"Password", "", "Password must be at least 8 characters"},
		{"ConfirmPassword", "", "Passwords don't match"},
	})
}

// ForgotPassword requests a recovery email.
type ForgotPassword struct {
	Email string `validate:"required,email"`
}

func (f ForgotPassword) Validate() error {
	return check(f, []message{
		{"Email", "", "Please enter a valid email address"},
	})
}

// ResetPassword sets a new password from a recovery link.
type ResetPassword struct {
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

func (f ResetPassword) Validate() error {
	return check(f, []message{
		{"Password", "", "Password must be at least 8 characters"},
		{"ConfirmPassword", "", "Passwords don't match"},
	})
}

// Profile edits the signed-in user's public details.
type Profile struct {
	Name             string   `validate:"required,min=2"`
	Bio              string   `validate:"omitempty,max=500"`
	Location         string   `validate:"omitempty,max=120"`
	ProjectInterests []string `validate:"omitempty,dive,min=1"`
}

func (f Profile) Validate() error {
	return check(f, []message{
		{"Name", "", "Name must be at least 2 characters"},
		{"Bio", "", "Bio must be at most 500 characters"},
		{"Location", "", "Location must be at most 120 characters"},
		{"ProjectInterests", "", "Interests cannot be empty"},
	})
}

// Activity logs an environmental activity.
type Activity struct {
	Title        string  `validate:"required,min=3"`
	Description  string  `validate:"omitempty,max=2000"`
	ActivityType string  `validate:"required,oneof=tree_planting beach_cleanup recycling composting renewable_energy water_conservation wildlife_protection education advocacy green_transport other"`
	ImpactScore  float64 `validate:"gte=0"`
}

func (f Activity) Validate() error {
	return check(f, []message{
		{"Title", "", "Title must be at least 3 characters"},
		{"Description", "", "Description must be at most 2000 characters"},
		{"ActivityType", "", "Please choose an activity type"},
		{"ImpactScore", "", "Impact score cannot be negative"},
	})
}

// Proposal submits a governance proposal.
type Proposal struct {
	Title           string  `validate:"required,min=5"`
	Description     string  `validate:"required,min=20"`
	FundingAmount   float64 `validate:"gte=0"`
	FundingCurrency string  `validate:"omitempty,oneof=USD NALO APT SUI"`
}

func (f Proposal) Validate() error {
	return check(f, []message{
		{"Title", "", "Title must be at least 5 characters"},
		{"Description", "", "Description must be at least 20 characters"},
		{"FundingAmount", "", "Funding amount cannot be negative"},
		{"FundingCurrency", "", "Unknown funding currency"},
	})
}
