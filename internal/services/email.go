package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"conferencescheduler/internal/domain"
)

type emailNotifier struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailNotifier returns a ScheduleNotifier that mails every recipient with an address.
func NewEmailNotifier(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.ScheduleNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &emailNotifier{mailer: mailer, renderer: renderer, logger: logger}
}

// EventCancelled sends the "event_cancelled" template.
func (n *emailNotifier) EventCancelled(ctx context.Context, event *domain.Event, recipients []*domain.Account) error {
	if event == nil {
		return fmt.Errorf("cancelled event is nil")
	}
	return n.sendAll(ctx, "event_cancelled", recipients, func(a *domain.Account) domain.ScheduleChangeEmailData {
		return changeData(a, event)
	})
}

// EventRescheduled sends the "event_rescheduled" template with the old and new times.
func (n *emailNotifier) EventRescheduled(ctx context.Context, event *domain.Event, previous domain.Interval, recipients []*domain.Account) error {
	if event == nil {
		return fmt.Errorf("rescheduled event is nil")
	}
	return n.sendAll(ctx, "event_rescheduled", recipients, func(a *domain.Account) domain.ScheduleChangeEmailData {
		d := changeData(a, event)
		d.PreviousStart = previous.Start.Format(domain.TimeLayout)
		d.PreviousEnd = previous.End.Format(domain.TimeLayout)
		return d
	})
}

func (n *emailNotifier) sendAll(ctx context.Context, template string, recipients []*domain.Account, data func(*domain.Account) domain.ScheduleChangeEmailData) error {
	var errs []error
	for _, a := range recipients {
		if a == nil || a.Email == "" {
			continue
		}
		subject, htmlBody, textBody, err := n.renderer.Render(template, data(a))
		if err != nil {
			return fmt.Errorf("failed to render %s template: %w", template, err)
		}
		if err := n.mailer.Send(ctx, a.Email, subject, htmlBody, textBody); err != nil {
			errs = append(errs, fmt.Errorf("send %s to %s: %w", template, a.Username, err))
			continue
		}
		n.logger.InfoContext(ctx, "schedule notice sent", "template", template, "username", a.Username)
	}
	return errors.Join(errs...)
}

func changeData(a *domain.Account, e *domain.Event) domain.ScheduleChangeEmailData {
	return domain.ScheduleChangeEmailData{
		Username:  a.Username,
		EventID:   e.ID,
		EventName: e.Name,
		Room:      e.Room,
		Start:     e.Start.Format(domain.TimeLayout),
		End:       e.End.Format(domain.TimeLayout),
	}
}
