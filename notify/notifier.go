// Package notify defines the notification interface and implementations for
// new-listing alerts.
package notify

import (
	"context"

	"csmoney-watcher/models"
)

// Notifier delivers a canonical item alert to an external chat endpoint.
type Notifier interface {
	Notify(ctx context.Context, item *models.CanonicalItem) error
}
