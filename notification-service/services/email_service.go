package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"inventra-backend/shared/config"
)

// EmailRequest describes one outgoing email. Body may be given directly or
// rendered from TemplateID and TemplateVars.
type EmailRequest struct {
	To           []string               `json:"to" binding:"required"`
	CC           []string               `json:"cc,omitempty"`
	BCC          []string               `json:"bcc,omitempty"`
	Subject      string                 `json:"subject" binding:"required"`
	Body         string                 `json:"body"`
	IsHTML       bool                   `json:"is_html"`
	TemplateID   string                 `json:"template_id,omitempty"`
	TemplateVars map[string]interface{} `json:"template_vars,omitempty"`
}

// EmailResponse reports the outcome of a send attempt
type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// EmailService delivers email over SMTP
type EmailService struct {
	config    *config.Config
	templates *TemplateService
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config:    cfg,
		templates: NewTemplateService(),
	}
}

// SendEmail renders the body if a template is requested and delivers the message
func (es *EmailService) SendEmail(request EmailRequest) (*EmailResponse, error) {
	sentAt := time.Now().Format(time.RFC3339)

	if len(request.To) == 0 {
		return nil, fmt.Errorf("recipient list cannot be empty")
	}
	if request.Subject == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}

	if request.TemplateID != "" && request.TemplateVars != nil {
		body, err := es.templates.RenderTemplate(request.TemplateID, request.TemplateVars)
		if err != nil {
			log.Printf("Failed to render template: %v", err)
			return nil, fmt.Errorf("failed to render template: %v", err)
		}
		request.Body = body
		request.IsHTML = true
	}

	if request.Body == "" {
		return nil, fmt.Errorf("body cannot be empty")
	}

	if err := es.deliver(request); err != nil {
		log.Printf("Failed to send email to %v: %v", request.To, err)
		return &EmailResponse{
			Message: fmt.Sprintf("Failed to send email: %v", err),
			SentAt:  sentAt,
		}, err
	}

	log.Printf("Email sent successfully to %v", request.To)
	return &EmailResponse{
		Success: true,
		Message: "Email sent successfully",
		SentAt:  sentAt,
	}, nil
}

func (es *EmailService) deliver(request EmailRequest) error {
	cfg := es.config
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	msg := []byte(es.compose(request))

	recipients := make([]string, 0, len(request.To)+len(request.CC)+len(request.BCC))
	recipients = append(recipients, request.To...)
	recipients = append(recipients, request.CC...)
	recipients = append(recipients, request.BCC...)

	// Port 465 uses implicit TLS, other ports plain SMTP unless forced via config
	if cfg.SMTPPort == "465" || cfg.SMTPUseTLS {
		return es.deliverTLS(addr, auth, recipients, msg)
	}

	return smtp.SendMail(addr, auth, cfg.EmailFrom, recipients, msg)
}

func (es *EmailService) deliverTLS(addr string, auth smtp.Auth, to []string, msg []byte) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         host,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(es.config.EmailFrom); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(msg)
	return err
}

func (es *EmailService) compose(request EmailRequest) string {
	contentType := "text/plain"
	if request.IsHTML {
		contentType = "text/html"
	}

	headers := []string{
		fmt.Sprintf("From: %s <%s>", es.config.EmailFromName, es.config.EmailFrom),
		"To: " + strings.Join(request.To, ", "),
	}
	if len(request.CC) > 0 {
		headers = append(headers, "CC: "+strings.Join(request.CC, ", "))
	}
	headers = append(headers,
		"Subject: "+request.Subject,
		"MIME-Version: 1.0",
		"Content-Type: "+contentType+"; charset=UTF-8",
	)

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + request.Body
}

// SendVerificationEmail sends the email verification link to a new principal
func (es *EmailService) SendVerificationEmail(to, name, verificationURL string) (*EmailResponse, error) {
	return es.SendEmail(EmailRequest{
		To:         []string{to},
		Subject:    "Welcome to Inventra - Please Verify Your Email",
		TemplateID: "welcome_verification",
		TemplateVars: map[string]interface{}{
			"Name":            name,
			"VerificationURL": verificationURL,
		},
	})
}

// SendSuggestionResolvedEmail tells a suggestion author how the admin resolved it
func (es *EmailService) SendSuggestionResolvedEmail(to, name, suggestionName, status, feedback string) (*EmailResponse, error) {
	return es.SendEmail(EmailRequest{
		To:         []string{to},
		Subject:    fmt.Sprintf("Your suggestion %q was %s", suggestionName, strings.ToLower(status)),
		TemplateID: "suggestion_resolved",
		TemplateVars: map[string]interface{}{
			"Name":           name,
			"SuggestionName": suggestionName,
			"Status":         status,
			"Feedback":       feedback,
		},
	})
}
