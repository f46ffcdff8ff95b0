package live

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/petpals/internal/metrics"
)

// DefaultPollInterval is how often an idle stream re-sends its snapshot.
const DefaultPollInterval = 5 * time.Second

// Serve runs one live stream until ctx is done or send fails. It registers a
// mailbox, forwards every snapshot the hub pushes to it and queues a freshly
// loaded snapshot every poll interval. The subscription and the ticker are
// released before Serve returns.
func (h *Hub) Serve(ctx context.Context, tenantID string, resource Resource, poll time.Duration, send func(Snapshot) error) error {
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	mailbox := NewMailbox()
	sub, err := h.Register(ctx, tenantID, resource, mailbox)
	if err != nil {
		return err
	}
	defer func() {
		mailbox.Close()
		h.Deregister(sub)
	}()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-mailbox.C():
			if err := send(snap); err != nil {
				return fmt.Errorf("failed to send %s snapshot: %w", resource, err)
			}
		case <-ticker.C:
			snap, err := h.Snapshot(ctx, tenantID, resource)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			// Through the mailbox so a poll never overtakes a newer push.
			if err := mailbox.Deliver(snap); err != nil {
				return err
			}
			h.metrics.RecordPush(string(resource), metrics.TriggerPoll)
		}
	}
}
