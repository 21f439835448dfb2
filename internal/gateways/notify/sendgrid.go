package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"verigate/internal/verification/resilience"
	"verigate/pkg/email"
)

const DefaultSendGridBaseURL = "https://api.sendgrid.com/v3"

// SendGridConfig holds account settings. TemplateIDs maps logical template
// names to SendGrid dynamic template ids; unmapped names pass through.
type SendGridConfig struct {
	APIKey      string
	BaseURL     string
	FromEmail   string
	FromName    string
	ReplyTo     string
	TemplateIDs map[string]string
}

// SendGrid delivers mail through the v3 mail/send endpoint.
type SendGrid struct {
	cfg    SendGridConfig
	exec   *resilience.Executor
	logger *slog.Logger
}

func NewSendGrid(cfg SendGridConfig, exec *resilience.Executor, logger *slog.Logger) *SendGrid {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSendGridBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.FromEmail == "" {
		cfg.FromEmail = "noreply@verification-portal.com"
	}
	if cfg.FromName == "" {
		cfg.FromName = "Verification Portal"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SendGrid{cfg: cfg, exec: exec, logger: logger}
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To                  []mailAddress  `json:"to"`
	DynamicTemplateData map[string]any `json:"dynamic_template_data,omitempty"`
}

type mailSend struct {
	Personalizations []personalization `json:"personalizations"`
	From             mailAddress       `json:"from"`
	ReplyTo          *mailAddress      `json:"reply_to,omitempty"`
	TemplateID       string            `json:"template_id"`
}

func (s *SendGrid) Send(ctx context.Context, to Recipient, templateID string, data map[string]any) (bool, error) {
	if !email.Valid(to.Email) {
		return false, fmt.Errorf("invalid recipient %q", to.Email)
	}
	name := to.Name
	if name == "" {
		name = email.DisplayName(to.Email, "")
	}
	if id, ok := s.cfg.TemplateIDs[templateID]; ok {
		templateID = id
	}

	payload := mailSend{
		Personalizations: []personalization{{
			To:                  []mailAddress{{Email: to.Email, Name: name}},
			DynamicTemplateData: data,
		}},
		From:       mailAddress{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		TemplateID: templateID,
	}
	if s.cfg.ReplyTo != "" {
		payload.ReplyTo = &mailAddress{Email: s.cfg.ReplyTo}
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req, err := resilience.JSONRequest(http.MethodPost, s.cfg.BaseURL+"/mail/send", payload, h)
	if err != nil {
		return false, err
	}
	resp, err := s.exec.Execute(ctx, req)
	if err != nil {
		return false, fmt.Errorf("sendgrid mail/send: %w", err)
	}
	s.logger.InfoContext(ctx, "notification sent",
		"template_id", templateID,
		"message_id", resp.Header.Get("X-Message-Id"),
	)
	return true, nil
}
