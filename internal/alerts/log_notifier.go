package alerts

import (
	"context"

	"michauchera/internal/logger"
)

// LogNotifier writes alerts to the application log. It is the default sink
// in development and when no Telegram credentials are configured.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

// Notify logs the notification.
func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Get().Infow("notification",
		"tag", n.Tag,
		"id", n.ID,
		"title", n.Title,
		"body", n.Body,
		"priority", n.Priority,
	)
	return nil
}
