// Package validation holds the contact form rule set. The same Rules value
// drives server-side validation and is published to the browser so both
// sides accept exactly the same input.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/types"
)

// Rules describes every contact form constraint.
type Rules struct {
	NameMinLength    int
	NamePattern      string
	EmailPattern     string
	PhonePattern     string
	PhoneStripChars  string
	MessageMinLength int
	MessageMaxLength int
}

// DefaultRules is the rule set used by the contact endpoint.
var DefaultRules = Rules{
	NameMinLength:    2,
	NamePattern:      `^[a-zA-Z\s]+$`,
	EmailPattern:     `^[^\s@]+@[^\s@]+\.[^\s@]+$`,
	PhonePattern:     `^(\+880|880)?[1-9][0-9]{8,10}$`,
	PhoneStripChars:  `[\s()-]`,
	MessageMinLength: 10,
	MessageMaxLength: 1000,
}

const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldMessage   = "message"
)

// Validator evaluates a ContactRequest against compiled Rules.
type Validator struct {
	rules      Rules
	name       *regexp.Regexp
	email      *regexp.Regexp
	phone      *regexp.Regexp
	phoneStrip *regexp.Regexp
}

// NewValidator compiles the patterns in rules.
func NewValidator(rules Rules) (*Validator, error) {
	v := &Validator{rules: rules}
	var err error
	if v.name, err = regexp.Compile(rules.NamePattern); err != nil {
		return nil, err
	}
	if v.email, err = regexp.Compile(rules.EmailPattern); err != nil {
		return nil, err
	}
	if v.phone, err = regexp.Compile(rules.PhonePattern); err != nil {
		return nil, err
	}
	if v.phoneStrip, err = regexp.Compile(rules.PhoneStripChars); err != nil {
		return nil, err
	}
	return v, nil
}

// MustNewValidator is NewValidator for rule sets known at compile time.
func MustNewValidator(rules Rules) *Validator {
	v, err := NewValidator(rules)
	if err != nil {
		panic(err)
	}
	return v
}

// Rules returns the rule set the validator was built from.
func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate checks req and returns the normalized request together with one
// error per failing field, in form order. The request is valid when the
// returned slice is empty.
func (v *Validator) Validate(req types.ContactRequest) (types.ContactRequest, []apperrors.FieldError) {
	var errs []apperrors.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperrors.FieldError{Field: field, Message: msg})
	}

	out := types.ContactRequest{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     NormalizeEmail(req.Email),
		Phone:     v.NormalizePhone(req.Phone),
		Message:   strings.TrimSpace(req.Message),
	}

	if msg := v.checkName(out.FirstName, "First name"); msg != "" {
		add(FieldFirstName, msg)
	}
	if msg := v.checkName(out.LastName, "Last name"); msg != "" {
		add(FieldLastName, msg)
	}

	if !v.email.MatchString(out.Email) {
		add(FieldEmail, "Please provide a valid email address")
	}

	if out.Phone != "" && !v.phone.MatchString(out.Phone) {
		add(FieldPhone, "Please provide a valid Bangladesh phone number")
	}

	if n := utf8.RuneCountInString(out.Message); n < v.rules.MessageMinLength || n > v.rules.MessageMaxLength {
		add(FieldMessage, fmt.Sprintf("Message must be between %d and %d characters", v.rules.MessageMinLength, v.rules.MessageMaxLength))
	}

	return out, errs
}

func (v *Validator) checkName(name, label string) string {
	if utf8.RuneCountInString(name) < v.rules.NameMinLength {
		return fmt.Sprintf("%s must be at least %d characters", label, v.rules.NameMinLength)
	}
	if !v.name.MatchString(name) {
		return label + " can only contain letters"
	}
	return ""
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone removes spaces, parentheses and hyphens.
func (v *Validator) NormalizePhone(phone string) string {
	return v.phoneStrip.ReplaceAllString(strings.TrimSpace(phone), "")
}

// Export renders the rules for the browser.
func (r Rules) Export() types.ContactRules {
	return types.ContactRules{
		NameMinLength:    r.NameMinLength,
		NamePattern:      r.NamePattern,
		EmailPattern:     r.EmailPattern,
		PhonePattern:     r.PhonePattern,
		PhoneStripChars:  r.PhoneStripChars,
		MessageMinLength: r.MessageMinLength,
		MessageMaxLength: r.MessageMaxLength,
	}
}
