package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/config"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

// Notifier delivers an HTML email. A nil error means the transport accepted it.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NewNotifier builds the notifier selected by cfg.Mode.
func NewNotifier(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Mode {
	case "api":
		return NewAPINotifier(cfg.APIURL, cfg.APIKey, cfg.Timeout), nil
	case "smtp":
		return &SMTPNotifier{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom}, nil
	case "log", "":
		return LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported notify mode %q", cfg.Mode)
	}
}

// APINotifier posts {to, subject, html} to <base>/notification/email.
type APINotifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewAPINotifier(baseURL, apiKey string, timeout time.Duration) *APINotifier {
	return &APINotifier{
		endpoint: strings.TrimRight(baseURL, "/") + "/notification/email",
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type apiEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (n *APINotifier) Send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(apiEmailRequest{To: to, Subject: subject, HTML: html})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notification api: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// SMTPNotifier sends through an SMTP relay.
type SMTPNotifier struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (s *SMTPNotifier) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}

// LogNotifier only logs the email. Used in development.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, to, subject, html string) error {
	logger.Infof("email to=%s subject=%q bytes=%d", to, subject, len(html))
	logger.Debugf("email body:\n%s", html)
	return nil
}
