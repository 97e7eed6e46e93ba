package domain

import "context"

// Email is a rendered message ready for transport.
type Email struct {
	To      string
	CC      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}
