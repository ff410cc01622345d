// Package notify delivers reminder notifications.
package notify

import (
	"context"
	"errors"

	"fasting/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify implements domain.Notifier. Status updates repeat every tick and are
// logged at debug level.
func (n *LogNotifier) Notify(_ context.Context, msg domain.Notification) error {
	lvl := zapcore.InfoLevel
	if msg.Kind == domain.ReminderStatus {
		lvl = zapcore.DebugLevel
	}
	n.log.Log(lvl, msg.Title,
		zap.String("kind", string(msg.Kind)),
		zap.String("fast_id", msg.FastID),
		zap.String("body", msg.Body),
	)
	return nil
}

// Multi fans a notification out to every notifier. All notifiers are tried;
// their errors are joined.
type Multi []domain.Notifier

// Notify implements domain.Notifier.
func (m Multi) Notify(ctx context.Context, msg domain.Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filter forwards only the kinds it lists.
type Filter struct {
	Next  domain.Notifier
	Kinds []domain.ReminderKind
}

// Notify implements domain.Notifier.
func (f Filter) Notify(ctx context.Context, msg domain.Notification) error {
	for _, k := range f.Kinds {
		if k == msg.Kind {
			return f.Next.Notify(ctx, msg)
		}
	}
	return nil
}
