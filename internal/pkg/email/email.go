// Package email delivers placement portal notifications over SMTP. Every
// delivery attempt, including the degraded no-server path used in
// development, is handed to a Recorder so admins can audit what was (or was
// not) sent.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
)

// Service defines the interface for email operations
type Service interface {
	SendVerificationEmail(ctx context.Context, userID int64, toEmail, code string) error
	SendApplicationStatusEmail(ctx context.Context, userID int64, toEmail, studentName, companyName string, status models.ApplicationStatus) error
}

// Recorder persists the outcome of a delivery attempt. Implemented by the
// notification log repository.
type Recorder interface {
	Record(ctx context.Context, userID *int64, toEmail, subject, body string, status models.NotificationStatus, errMsg *string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Mailer implements Service
type Mailer struct {
	config   SMTPConfig
	recorder Recorder
	logger   zerolog.Logger
}

// NewMailer creates a new Mailer
func NewMailer(config SMTPConfig, recorder Recorder, logger zerolog.Logger) *Mailer {
	return &Mailer{
		config:   config,
		recorder: recorder,
		logger:   logger,
	}
}

// configured reports whether an SMTP server is set up. When it is not, mail
// is logged instead of sent so development environments keep working.
func (m *Mailer) configured() bool {
	return m.config.Host != "" && m.config.Username != "" && m.config.Password != ""
}

// SendVerificationEmail sends the account verification one-time code.
func (m *Mailer) SendVerificationEmail(ctx context.Context, userID int64, toEmail, code string) error {
	subject := "Verify Your Email - Placement Portal"
	body := fmt.Sprintf(
		"Hello,\r\n\r\nYour verification code for the placement portal is: %s\r\n\r\nThe code expires in 10 minutes. If you did not register, ignore this email.\r\n",
		code,
	)
	return m.deliver(ctx, userID, toEmail, subject, body)
}

// SendApplicationStatusEmail notifies a student that an application moved to
// a new status.
func (m *Mailer) SendApplicationStatusEmail(ctx context.Context, userID int64, toEmail, studentName, companyName string, status models.ApplicationStatus) error {
	subject := fmt.Sprintf("Application Update - %s", companyName)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour application to %s has been updated to: %s\r\n\r\nLog in to the placement portal for details.\r\n",
		studentName, companyName, status,
	)
	return m.deliver(ctx, userID, toEmail, subject, body)
}

// deliver attempts the send and records the outcome. An unconfigured server
// is recorded as NO_MAIL_SERVER_CONFIGURED and is not treated as a failure.
func (m *Mailer) deliver(ctx context.Context, userID int64, toEmail, subject, body string) error {
	if !m.configured() {
		m.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Str("body", body).
			Msg("SMTP not configured - email not sent. Content logged for testing.")
		m.record(ctx, userID, toEmail, subject, body, models.NotificationNoMailServer, nil)
		return nil
	}

	if err := m.sendPlainEmail(toEmail, subject, body); err != nil {
		msg := err.Error()
		m.record(ctx, userID, toEmail, subject, body, models.NotificationFailed, &msg)
		return err
	}

	m.record(ctx, userID, toEmail, subject, body, models.NotificationSent, nil)
	return nil
}

func (m *Mailer) record(ctx context.Context, userID int64, toEmail, subject, body string, status models.NotificationStatus, errMsg *string) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(ctx, &userID, toEmail, subject, body, status, errMsg); err != nil {
		m.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to record notification")
	}
}

// sendPlainEmail sends a plain-text email
func (m *Mailer) sendPlainEmail(toEmail, subject, body string) error {
	auth := smtp.PlainAuth(
		"",
		m.config.Username,
		m.config.Password,
		m.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/plain; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	serverAddress := m.config.Host + ":" + strconv.Itoa(m.config.Port)

	if m.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: m.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			m.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, m.config.Host)
		if err != nil {
			m.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			m.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(m.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	if err := smtp.SendMail(serverAddress, auth, m.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		m.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
