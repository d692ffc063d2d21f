package driven

import (
	"context"

	"github.com/reviewinator/reviewinator/internal/domain/model"
)

// Notifier defines the driven port for desktop notification dispatch.
// Delivery is fire-and-forget: callers log errors and never retry or abort.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}
