// Package notify delivers verification codes and reset links to users over
// HTTP mail and SMS gateways.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/careconnect/server/internal/config"
)

// Sender delivers messages to users.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, to, body string) error
}

// Client is a resty-backed Sender. A gateway with no configured URL is
// treated as disabled: the delivery is logged and reported as successful, so
// local setups work without external accounts.
type Client struct {
	mail   *resty.Client
	sms    *resty.Client
	cfg    config.NotifyConfig
	logger *zap.Logger
}

// NewClient builds a notification client from the gateway configuration.
func NewClient(cfg config.NotifyConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{cfg: cfg, logger: logger}

	if cfg.MailURL != "" {
		c.mail = resty.New().
			SetBaseURL(cfg.MailURL).
			SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.MailToken)).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second)
	}

	if cfg.SMSURL != "" {
		c.sms = resty.New().
			SetBaseURL(cfg.SMSURL).
			SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.SMSToken)).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second)
	}

	return c
}

// SendEmail posts a message to the mail gateway.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	if c.mail == nil {
		c.logger.Info("mail gateway not configured, logging delivery instead",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	payload := map[string]any{
		"from":    c.cfg.MailFrom,
		"to":      to,
		"subject": subject,
		"text":    body,
	}

	resp, err := c.mail.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail gateway returned %s: %s", resp.Status(), resp.String())
	}

	c.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendSMS posts a message to the SMS gateway.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	if c.sms == nil {
		c.logger.Info("sms gateway not configured, logging delivery instead",
			zap.String("to", to))
		return nil
	}

	payload := map[string]any{
		"from": c.cfg.SMSFrom,
		"to":   to,
		"body": body,
	}

	resp, err := c.sms.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned %s: %s", resp.Status(), resp.String())
	}

	c.logger.Info("sms sent", zap.String("to", to))
	return nil
}
