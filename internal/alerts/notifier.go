// Package alerts turns budget evaluation results into user-visible
// notifications and decides when nothing should be shown at all.
package alerts

import "context"

// Priority mirrors the host platform's notification priority levels.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityDefault
	PriorityHigh
)

// Notification is one user-visible alert. The (Tag, ID) pair addresses a
// stable notification slot: re-sending under the same pair updates the
// existing notification instead of stacking a new one.
type Notification struct {
	Tag      string
	ID       int
	Title    string
	Body     string
	Priority Priority
}

// Notifier delivers notifications to the platform sink. Delivery is
// fire-and-forget: a denied or unavailable sink must swallow the
// notification silently rather than surface an error.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
