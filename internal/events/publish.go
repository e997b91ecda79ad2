package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// publishAttempts bounds how often a mutation's refresh notice is queued
// before live refresh for that change is given up.
const publishAttempts = 3

// backoff returns the wait before the given retry: 50ms, 100ms, 200ms...
func backoff(retry int) time.Duration {
	return 50 * time.Millisecond << retry
}

// Publish queues event on client, backing off while the queue rejects it.
// A nil client means no daemon and is a no-op. Cancelling ctx stops the
// retries and returns the last send error, or ctx.Err() if none was seen.
func Publish(ctx context.Context, client EventPublisher, event Event, attempts int) error {
	if client == nil {
		return nil
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			timer := time.NewTimer(backoff(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				if lastErr == nil {
					lastErr = ctx.Err()
				}
				return lastErr
			case <-timer.C:
			}
		}

		if lastErr = client.SendEvent(event); lastErr == nil {
			if attempt > 0 {
				slog.Debug("event queued after retry", "attempt", attempt+1, "project_id", event.ProjectID)
			}
			return nil
		}
		slog.Debug("event queue rejected send", "attempt", attempt+1, "project_id", event.ProjectID, "error", lastErr)
	}

	if lastErr != nil {
		slog.Warn("giving up on event", "type", event.Type, "project_id", event.ProjectID, "attempts", attempts, "error", lastErr)
	}
	return lastErr
}

// ProjectChanged tells open boards to refetch projectID. Losing the notice
// only costs live refresh, so the error is logged by Publish and dropped.
func ProjectChanged(ctx context.Context, client EventPublisher, projectID types.ProjectID) {
	_ = Publish(ctx, client, ForProject(projectID), publishAttempts)
}
