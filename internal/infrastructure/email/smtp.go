// Package email delivers notification mail over SMTP.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gopkg.in/gomail.v2"

	"github.com/orris-inc/helpdesk/internal/domain/notification"
	"github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const defaultMaxRetries = 3

// dialer is the part of gomail.Dialer used to deliver messages.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	config     config.EmailConfig
	dialer     dialer
	newBackOff func() backoff.BackOff
	logger     logger.Interface
}

func NewSMTPSender(cfg config.EmailConfig, logger logger.Interface) *SMTPSender {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &SMTPSender{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
		logger: logger,
	}
}

// Send builds the MIME message and delivers it, retrying dial and send failures
// with exponential backoff up to MaxRetries attempts.
func (s *SMTPSender) Send(ctx context.Context, email *notification.Email) error {
	if len(email.To) == 0 && len(email.CC) == 0 {
		return nil
	}
	m := s.buildMessage(email)

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := s.dialer.DialAndSend(m); err != nil {
			s.logger.Warnw("smtp delivery failed",
				"attempt", attempt,
				"subject", email.Subject,
				"error", err,
			)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(s.config.MaxRetries),
	)
	if err != nil {
		return fmt.Errorf("failed to send email after %d attempts: %w", attempt, err)
	}

	s.logger.Debugw("email sent", "subject", email.Subject, "message_id", email.MessageID)
	return nil
}

func (s *SMTPSender) buildMessage(email *notification.Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	if len(email.To) > 0 {
		m.SetHeader("To", email.To...)
	}
	if len(email.CC) > 0 {
		m.SetHeader("Cc", email.CC...)
	}
	m.SetHeader("Subject", email.Subject)
	if email.MessageID != "" {
		m.SetHeader("Message-ID", angle(email.MessageID))
	}
	if email.InReplyTo != "" {
		m.SetHeader("In-Reply-To", angle(email.InReplyTo))
	}
	if len(email.References) > 0 {
		refs := make([]string, len(email.References))
		for i, r := range email.References {
			refs[i] = angle(r)
		}
		m.SetHeader("References", strings.Join(refs, " "))
	}

	m.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		m.AddAlternative("text/html", email.HTMLBody)
	}
	return m
}

func angle(id string) string {
	id = strings.Trim(strings.TrimSpace(id), "<>")
	return "<" + id + ">"
}

// NopSender drops every message. It is used when SMTP is not configured.
type NopSender struct {
	logger logger.Interface
}

func NewNopSender(logger logger.Interface) *NopSender {
	return &NopSender{logger: logger}
}

func (s *NopSender) Send(_ context.Context, email *notification.Email) error {
	s.logger.Debugw("smtp not configured, dropping email", "subject", email.Subject)
	return nil
}

// NewSender returns an SMTP sender when a host is configured, otherwise a NopSender.
func NewSender(cfg config.EmailConfig, logger logger.Interface) notification.Sender {
	if !cfg.Enabled() {
		return NewNopSender(logger)
	}
	return NewSMTPSender(cfg, logger)
}
