package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService mails copies of friend request and message notifications
// through Resend.
type EmailService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *EmailMetrics
	tmpl    *template.Template
	logger  *zap.Logger
}

func NewEmailService(cfg *config.EmailConfig, log *zap.Logger) *EmailService {
	return NewEmailServiceWithRegistry(cfg, log, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, log *zap.Logger, reg prometheus.Registerer) *EmailService {
	log = log.Named("EmailService")
	log.Info("Initializing email service",
		zap.String("from", cfg.FromAddress),
		zap.String("apiKey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 2)))

	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "campus_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}
	reg.MustRegister(metrics.sendLatency, metrics.errorCount, metrics.sentCount)

	return &EmailService{
		config:  cfg,
		client:  resend.NewClient(cfg.ResendAPIKey),
		metrics: metrics,
		tmpl:    template.Must(template.New("notification").Parse(notificationEmailTemplate)),
		logger:  log,
	}
}

// notificationSubject picks the subject line for a notification type.
func notificationSubject(n types.Notification) (string, error) {
	sender := n.SenderName
	if sender == "" {
		sender = types.UnknownUserName
	}
	switch n.Type {
	case types.NotificationTypeFriendRequest:
		return fmt.Sprintf("%s sent you a friend request", sender), nil
	case types.NotificationTypeMessage:
		return fmt.Sprintf("New message from %s", sender), nil
	}
	return "", fmt.Errorf("no email template for notification type %q", n.Type)
}

// SendNotificationEmail renders n and sends it to the given address.
func (s *EmailService) SendNotificationEmail(ctx context.Context, to string, n types.Notification) error {
	start := time.Now()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(start).Seconds())
	}()
	log := s.logger.With(zap.String("to", logger.MaskEmail(to)), zap.String("notificationID", n.ID))

	if to == "" {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("missing recipient address")
	}
	subject, err := notificationSubject(n)
	if err != nil {
		s.metrics.errorCount.Inc()
		return err
	}

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, n); err != nil {
		s.metrics.errorCount.Inc()
		log.Error("Failed to execute email template", zap.Error(err))
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{to},
		Subject: subject,
		Html:    html.String(),
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Error("Failed to send email", zap.Error(err), zap.String("subject", subject))
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Info("Email sent", zap.String("subject", subject))
	return nil
}

const notificationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: sans-serif; background-color: #f4f6fb; color: #222; margin: 0; padding: 20px; }
        .card { max-width: 560px; margin: 20px auto; background: #fff; padding: 28px; border-radius: 10px; }
        .sender { font-weight: bold; color: #3056d3; }
        .footer { margin-top: 24px; font-size: 13px; color: #888; }
    </style>
</head>
<body>
    <div class="card">
        <p><span class="sender">{{if .SenderName}}{{.SenderName}}{{else}}Unknown User{{end}}</span></p>
        <p>{{.Message}}</p>
        <p class="footer">You can turn these emails off in your notification settings.</p>
    </div>
</body>
</html>`
