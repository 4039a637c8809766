package mailer

import (
	"context"

	"github.com/oksasatya/go-address-dispatch/pkg/mailer/templates"
)

// EmailJob is one rendered email.
type EmailJob struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers an EmailJob.
type Sender interface {
	Send(ctx context.Context, job EmailJob) error
}

// WelcomeJob renders the welcome email for a freshly registered user.
func WelcomeJob(to string, data templates.Data) (EmailJob, error) {
	subject, text, html, err := templates.Render(templates.Welcome, data)
	if err != nil {
		return EmailJob{}, err
	}
	return EmailJob{To: to, Subject: subject, Text: text, HTML: html}, nil
}
