package services

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"math"
	texttemplate "text/template"
	"time"

	"github.com/austcse/carnival-backend/config"
	apperrors "github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/models/contact/validation"
	"github.com/austcse/carnival-backend/types"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeDelivered   = "delivered"
	outcomeInvalid     = "invalid"
	outcomeRateLimited = "rate_limited"
	outcomeFailed      = "failed"
)

// RateLimitMessage is returned to clients that exceed the contact limit.
const RateLimitMessage = "Too many contact form submissions, please try again later."

var (
	contactHTMLTemplate = htmltemplate.Must(htmltemplate.New("contact").Parse(contactEmailHTML))
	contactTextTemplate = texttemplate.Must(texttemplate.New("contact").Parse(contactEmailText))
)

// ContactService runs a contact submission through rate limiting, validation
// and delivery to the organizer inbox.
type ContactService struct {
	validator *validation.Validator
	limiter   RateLimiterInterface
	mailer    types.Mailer
	contact   config.ContactConfig
	rateLimit config.RateLimitConfig
	location  *time.Location
	outcomes  *prometheus.CounterVec
	now       func() time.Time
}

func NewContactService(
	validator *validation.Validator,
	limiter RateLimiterInterface,
	mailer types.Mailer,
	contactCfg config.ContactConfig,
	rateLimitCfg config.RateLimitConfig,
	reg prometheus.Registerer,
) *ContactService {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carnival_contact_submissions_total",
		Help: "Contact form submissions by outcome",
	}, []string{"outcome"})
	reg.MustRegister(outcomes)

	loc, err := contactCfg.Location()
	if err != nil {
		loc = time.UTC
	}

	return &ContactService{
		validator: validator,
		limiter:   limiter,
		mailer:    mailer,
		contact:   contactCfg,
		rateLimit: rateLimitCfg,
		location:  loc,
		outcomes:  outcomes,
		now:       time.Now,
	}
}

// Submit processes one contact form submission from clientID: Admit, then
// Deliver. Every attempt counts toward the limit, including ones that later
// fail validation. Returned errors are *apperrors.AppError of type
// RateLimitError, ValidationError or DeliveryError.
func (s *ContactService) Submit(ctx context.Context, req types.ContactRequest, clientID string) error {
	if err := s.Admit(ctx, clientID); err != nil {
		return err
	}
	return s.Deliver(ctx, req, clientID)
}

// Admit charges one attempt to clientID and returns a RateLimitError once the
// window is used up. A limiter failure admits the attempt.
func (s *ContactService) Admit(ctx context.Context, clientID string) error {
	allowed, retryAfter, err := s.limiter.CheckLimit(ctx, "contact:"+clientID, s.rateLimit.ContactRequests, s.rateLimit.Window())
	switch {
	case err != nil:
		logger.GetLogger().Warnw("Rate limiter unavailable, allowing contact submission",
			"client_id", clientID, "error", err)
	case !allowed:
		s.outcomes.WithLabelValues(outcomeRateLimited).Inc()
		logger.GetLogger().Infow("Contact submission rate limited",
			"client_id", clientID, "retry_after", retryAfter)
		return apperrors.RateLimitExceeded(RateLimitMessage, ceilSeconds(retryAfter))
	}
	return nil
}

// Reject records a submission whose body could not be read as a contact form.
func (s *ContactService) Reject(fields []apperrors.FieldError) error {
	s.outcomes.WithLabelValues(outcomeInvalid).Inc()
	return apperrors.InvalidFields(fields)
}

// Deliver validates an admitted submission and sends it to the organizer
// inbox, bounded by the delivery timeout. It does not touch the limiter.
func (s *ContactService) Deliver(ctx context.Context, req types.ContactRequest, clientID string) error {
	log := logger.GetLogger().With("client_id", clientID)

	normalized, fieldErrs := s.validator.Validate(req)
	if len(fieldErrs) > 0 {
		s.outcomes.WithLabelValues(outcomeInvalid).Inc()
		log.Debugw("Contact submission failed validation", "fields", fieldErrs)
		return apperrors.InvalidFields(fieldErrs)
	}

	submission := types.ContactSubmission{
		ContactRequest: normalized,
		ClientIdentity: clientID,
		SubmittedAt:    s.now(),
	}
	notification, err := s.render(submission)
	if err != nil {
		s.outcomes.WithLabelValues(outcomeFailed).Inc()
		log.Errorw("Failed to render contact notification", "error", err)
		return apperrors.DeliveryFailed(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.contact.DeliveryTimeout())
	defer cancel()

	if err := s.mailer.Send(sendCtx, notification); err != nil {
		s.outcomes.WithLabelValues(outcomeFailed).Inc()
		log.Errorw("Contact notification delivery failed",
			"error", err,
			"provider", s.mailer.Provider(),
			"email", logger.MaskEmail(normalized.Email))
		return apperrors.DeliveryFailed(err)
	}

	s.outcomes.WithLabelValues(outcomeDelivered).Inc()
	log.Infow("Contact submission delivered",
		"email", logger.MaskEmail(normalized.Email),
		"phone", logger.MaskPhone(normalized.Phone))
	return nil
}

// Rules returns the validation rules plus the submission limit.
func (s *ContactService) Rules() types.ContactRules {
	rules := s.validator.Rules().Export()
	rules.MaxSubmissions = s.rateLimit.ContactRequests
	rules.WindowSeconds = s.rateLimit.WindowSeconds
	return rules
}

type contactEmailData struct {
	Name        string
	Email       string
	Phone       string
	Message     string
	SubmittedAt string
	ClientID    string
}

func (s *ContactService) render(sub types.ContactSubmission) (types.Notification, error) {
	phone := sub.Phone
	if phone == "" {
		phone = "Not provided"
	}
	data := contactEmailData{
		Name:        sub.FullName(),
		Email:       sub.Email,
		Phone:       phone,
		Message:     sub.Message,
		SubmittedAt: sub.SubmittedAt.In(s.location).Format("January 2, 2006 3:04 PM MST"),
		ClientID:    sub.ClientIdentity,
	}

	var html, text bytes.Buffer
	if err := contactHTMLTemplate.Execute(&html, data); err != nil {
		return types.Notification{}, fmt.Errorf("failed to execute html template: %w", err)
	}
	if err := contactTextTemplate.Execute(&text, data); err != nil {
		return types.Notification{}, fmt.Errorf("failed to execute text template: %w", err)
	}

	return types.Notification{
		To:      s.contact.OrganizerInbox,
		ReplyTo: sub.Email,
		Subject: s.contact.Subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// Template constants
const contactEmailHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #021a1a; border-bottom: 2px solid #2ec095; padding-bottom: 10px;">
    New Contact Form Submission
  </h2>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Message:</strong></p>
    <div style="background-color: white; padding: 15px; border-left: 4px solid #2ec095; margin-top: 10px; white-space: pre-wrap;">{{.Message}}</div>
  </div>
  <div style="font-size: 12px; color: #666; margin-top: 20px;">
    <p>Submitted: {{.SubmittedAt}}</p>
    <p>Client: {{.ClientID}}</p>
  </div>
</div>`

const contactEmailText = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}

Message:
{{.Message}}

Submitted: {{.SubmittedAt}}
Client: {{.ClientID}}
`
