package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/huangang/compliancewatch/internal/config"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/pkg/logger"
	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("smtp is not configured")

// Mailer sends a report to a list of recipients.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string, attachment *report.Artifact) error
}

type EmailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.UseTLS {
		dialer.SSL = cfg.Port == 465
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}
	}
	return &EmailService{cfg: cfg, dialer: dialer}
}

func (s *EmailService) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.Username
}

// BuildMessage assembles the html message with the report attached.
func (s *EmailService) BuildMessage(to []string, subject, body string, attachment *report.Artifact) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from())
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if attachment != nil {
		data := attachment.Body
		m.Attach(attachment.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {attachment.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return m
}

func (s *EmailService) Send(ctx context.Context, to []string, subject, body string, attachment *report.Artifact) error {
	if !s.cfg.Configured() {
		return ErrMailerNotConfigured
	}
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.BuildMessage(to, subject, body, attachment)); err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent %q to %v", subject, to)
	return nil
}

// DeliveryBody renders the html body of a scheduled delivery.
func DeliveryBody(scheduleName, reportName, filename, brand string) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>%s</h2>", html.EscapeString(reportName)))
	sb.WriteString("<table style=\"border-collapse: collapse; margin-bottom: 20px;\">")

	rows := []struct{ label, value string }{
		{"Schedule", scheduleName},
		{"Report", reportName},
		{"Attachment", filename},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("<tr><td style=\"padding: 8px; border: 1px solid #ddd; font-weight: bold;\">%s</td><td style=\"padding: 8px; border: 1px solid #ddd;\">%s</td></tr>",
			r.label, html.EscapeString(r.value)))
	}
	sb.WriteString("</table>")

	sb.WriteString(fmt.Sprintf("<hr><p style=\"color: #888; font-size: 12px;\">Sent by %s compliance reporting</p>", html.EscapeString(brand)))
	sb.WriteString("</body></html>")

	return sb.String()
}
