package curriculum

import (
	"context"

	"github.com/njovanovic/studyplan/internal/domain"
)

// EventHandler receives curriculum change notifications.
type EventHandler interface {
	HandleNodeEvent(ctx context.Context, ev domain.NodeEvent) error
}

// Notifier fans curriculum change events out to registered handlers.
// Handlers run synchronously in subscription order after the originating
// write has committed; a handler error aborts the fan-out and is returned
// to the caller of the mutation.
type Notifier struct {
	handlers []EventHandler
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a handler for all future events.
func (n *Notifier) Subscribe(h EventHandler) {
	n.handlers = append(n.handlers, h)
}

// Dispatch delivers one event to every handler.
func (n *Notifier) Dispatch(ctx context.Context, ev domain.NodeEvent) error {
	for _, h := range n.handlers {
		if err := h.HandleNodeEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
