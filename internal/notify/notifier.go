// Package notify pushes fresh news items to chat channels. Announcements
// are dispatched to all configured senders (Telegram, Discord) and can be
// filtered by item type so operators receive only the feeds they care
// about.
package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender.
	Name() string
}

// Notifier announces news items to one or more Senders. It maintains a set
// of allowed item types; items of other types are dropped silently. An
// empty set allows every type.
type Notifier struct {
	senders []Sender
	types   map[domain.ItemType]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders. Only
// items whose type appears in types are announced; an empty list allows
// all types.
func NewNotifier(senders []Sender, types []string, logger *slog.Logger) *Notifier {
	allowed := make(map[domain.ItemType]bool, len(types))
	for _, t := range types {
		allowed[domain.ItemType(strings.TrimSpace(t))] = true
	}
	return &Notifier{
		senders: senders,
		types:   allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Announce delivers each item to every sender. A failing sender does not
// prevent delivery to the others, and failures are logged, not returned:
// notifications are strictly best-effort and never affect the refresh
// cycle that triggered them.
func (n *Notifier) Announce(ctx context.Context, items []domain.NewsItem) {
	if len(n.senders) == 0 {
		return
	}

	for _, item := range items {
		if len(n.types) > 0 && !n.types[item.Type] {
			continue
		}

		title := formatTitle(item)
		message := item.Message
		if item.URL != "" {
			message += "\n" + item.URL
		}

		for _, s := range n.senders {
			if err := s.Send(ctx, title, message); err != nil {
				n.logger.WarnContext(ctx, "sender failed",
					slog.String("sender", s.Name()),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// formatTitle renders an item's type and subtype as a short headline,
// e.g. "market status / opening".
func formatTitle(item domain.NewsItem) string {
	title := strings.ReplaceAll(string(item.Type), "_", " ")
	if item.Subtype != "" {
		title += " / " + strings.ReplaceAll(item.Subtype, "_", " ")
	}
	return title
}
