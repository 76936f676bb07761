package services

import (
	"context"
	"fmt"
	"time"

	"github.com/austcse/carnival-backend/config"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// emailTransport is one outbound relay. It returns the relay's message id.
type emailTransport interface {
	deliver(ctx context.Context, from string, n types.Notification) (string, error)
}

// EmailService sends notifications through the configured relay and records
// delivery metrics. It implements types.Mailer.
type EmailService struct {
	config    *config.EmailConfig
	transport emailTransport
	metrics   *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig) (*EmailService, error) {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) (*EmailService, error) {
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().Infow("Initializing email service",
		"provider", cfg.Provider,
		"from", cfg.FromAddress,
		"apikey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 0))

	return newEmailService(cfg, transport, reg), nil
}

func newEmailService(cfg *config.EmailConfig, transport emailTransport, reg prometheus.Registerer) *EmailService {
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carnival_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carnival_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carnival_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:    cfg,
		transport: transport,
		metrics:   metrics,
	}
}

func newTransport(cfg *config.EmailConfig) (emailTransport, error) {
	switch cfg.Provider {
	case config.EmailProviderResend:
		return &resendTransport{emails: resend.NewClient(cfg.ResendAPIKey).Emails}, nil
	case config.EmailProviderSES:
		awsCfg, err := loadSESConfig(context.Background(), cfg.SES)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return &sesTransport{client: ses.NewFromConfig(awsCfg)}, nil
	case config.EmailProviderNoop:
		return noopTransport{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// loadSESConfig uses the static keys when they are set and otherwise leaves
// credentials to the default chain (environment, shared files, instance role).
func loadSESConfig(ctx context.Context, cfg config.SESConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// Provider names the relay in use.
func (s *EmailService) Provider() string {
	return s.config.Provider
}

// Send delivers n once. The caller bounds the attempt through ctx; there is
// no retry.
func (s *EmailService) Send(ctx context.Context, n types.Notification) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if n.To == "" || n.Subject == "" || (n.HTML == "" && n.Text == "") {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("incomplete notification: recipient, subject and body are required")
	}

	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	id, err := s.transport.deliver(ctx, from, n)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"provider", s.config.Provider,
			"to", logger.MaskEmail(n.To),
			"subject", n.Subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent successfully",
		"provider", s.config.Provider,
		"message_id", id,
		"to", logger.MaskEmail(n.To),
		"subject", n.Subject)
	return nil
}

// resendEmails is the part of the Resend client used here.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendTransport struct {
	emails resendEmails
}

func (t *resendTransport) deliver(ctx context.Context, from string, n types.Notification) (string, error) {
	resp, err := t.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{n.To},
		ReplyTo: n.ReplyTo,
		Subject: n.Subject,
		Html:    n.HTML,
		Text:    n.Text,
	})
	if err != nil {
		return "", err
	}
	return resp.Id, nil
}

// sesAPI is the part of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesTransport struct {
	client sesAPI
}

func (t *sesTransport) deliver(ctx context.Context, from string, n types.Notification) (string, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.To},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String(n.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &sestypes.Body{},
		},
	}
	if n.ReplyTo != "" {
		input.ReplyToAddresses = []string{n.ReplyTo}
	}
	if n.HTML != "" {
		input.Message.Body.Html = &sestypes.Content{
			Data:    aws.String(n.HTML),
			Charset: aws.String("UTF-8"),
		}
	}
	if n.Text != "" {
		input.Message.Body.Text = &sestypes.Content{
			Data:    aws.String(n.Text),
			Charset: aws.String("UTF-8"),
		}
	}

	out, err := t.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send email via SES: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// noopTransport logs instead of sending. Used in development without relay
// credentials.
type noopTransport struct{}

func (noopTransport) deliver(ctx context.Context, _ string, n types.Notification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger.GetLogger().Infow("Email would be sent (noop)",
		"to", logger.MaskEmail(n.To),
		"reply_to", logger.MaskEmail(n.ReplyTo),
		"subject", n.Subject)
	return "noop", nil
}
