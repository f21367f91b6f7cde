package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
)

// RecipientLookup resolves a profile id to an address and display name.
type RecipientLookup interface {
	LookupRecipient(ctx context.Context, userID string) (address, name string, err error)
}

var eventTemplates = map[events.EventType]string{
	events.JobReviewed: TemplateJobReviewed,
	events.CTVVerified: TemplateCTVVerified,
	events.JobOverdue:  TemplateJobOverdue,
}

// Notifier emails the recipients of selected events.
type Notifier struct {
	provider Provider
	lookup   RecipientLookup
}

func NewNotifier(provider Provider, lookup RecipientLookup) *Notifier {
	return &Notifier{provider: provider, lookup: lookup}
}

func (n *Notifier) Name() string { return "email_notifier" }

func (n *Notifier) Handle(ctx context.Context, event events.Event) error {
	templateName, ok := eventTemplates[event.Type]
	if !ok || event.Remote {
		return nil
	}

	var errs []error
	for _, userID := range event.Recipients {
		address, name, err := n.lookup.LookupRecipient(ctx, userID)
		if err != nil {
			errs = append(errs, fmt.Errorf("lookup %s: %w", userID, err))
			continue
		}

		data := TemplateData{"name": name}
		for k, v := range event.Payload {
			data[k] = v
		}
		if err := n.provider.SendTemplate([]string{address}, event.Title, templateName, data); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", userID, err))
		}
	}
	return errors.Join(errs...)
}
