// Package notify is the fire-and-forget notification boundary. Messages are
// surfaced to the dashboard user; delivery is best-effort with no ordering
// guarantee beyond display order.
package notify

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Severity classifies a notification for display.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// Notifier delivers a message to the user. Implementations must not block
// and must not return errors; a dropped notification is acceptable.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

// LogNotifier writes notifications to the request-scoped logger. It is the
// default sink; the dashboard frontend reads them from the response payloads
// instead of a push channel.
type LogNotifier struct{}

// NewLogNotifier returns a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the message at a level matching its severity.
func (n *LogNotifier) Notify(ctx context.Context, message string, severity Severity) {
	lg := zctx.From(ctx)
	switch severity {
	case Error:
		lg.Error(message, zap.String("severity", string(severity)))
	case Warning:
		lg.Warn(message, zap.String("severity", string(severity)))
	default:
		lg.Info(message, zap.String("severity", string(severity)))
	}
}

// Nop discards all notifications. Useful in tests and offline tools.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, string, Severity) {}
