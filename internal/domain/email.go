package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ScheduleChangeEmailData is the template data for cancellation and reschedule notices.
type ScheduleChangeEmailData struct {
	Username  string
	EventID   string
	EventName string
	Room      string
	Start     string
	End       string
	// PreviousStart and PreviousEnd are set for reschedules only.
	PreviousStart string
	PreviousEnd   string
}
