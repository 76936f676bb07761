package types

import (
	"time"

	apperrors "github.com/austcse/carnival-backend/errors"
)

// ContactRequest is the body of a contact form submission.
type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
}

// ContactSubmission is a validated, normalized request plus the metadata
// that goes into the organizer notification.
type ContactSubmission struct {
	ContactRequest
	ClientIdentity string
	SubmittedAt    time.Time
}

// FullName joins first and last name.
func (s ContactSubmission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// ContactResponse is returned by POST /api/contact for every outcome.
type ContactResponse struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Errors     []apperrors.FieldError `json:"errors,omitempty"`
	RetryAfter int                    `json:"retryAfter,omitempty"`
}

// ContactRules is the contact form rule set in a form the browser can
// evaluate with the same patterns and bounds as the server.
type ContactRules struct {
	NameMinLength    int    `json:"nameMinLength"`
	NamePattern      string `json:"namePattern"`
	EmailPattern     string `json:"emailPattern"`
	PhonePattern     string `json:"phonePattern"`
	PhoneStripChars  string `json:"phoneStripPattern"`
	MessageMinLength int    `json:"messageMinLength"`
	MessageMaxLength int    `json:"messageMaxLength"`
	MaxSubmissions   int    `json:"maxSubmissionsPerWindow"`
	WindowSeconds    int    `json:"windowSeconds"`
}
