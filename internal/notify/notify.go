// Package notify is the fire-and-forget user notification boundary. The
// core only emits; presentation is someone else's problem.
package notify

import (
	"context"

	"go.uber.org/zap"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Notifier interface {
	Notify(ctx context.Context, borrowerID string, kind Kind, message string)
}

// ZapNotifier records notifications on the service log until a real
// delivery channel is attached.
type ZapNotifier struct{ log *zap.Logger }

func NewZapNotifier(log *zap.Logger) *ZapNotifier { return &ZapNotifier{log: log} }

func (n *ZapNotifier) Notify(_ context.Context, borrowerID string, kind Kind, message string) {
	fields := []zap.Field{zap.String("borrower_id", borrowerID), zap.String("kind", string(kind))}
	switch kind {
	case KindWarning:
		n.log.Warn(message, fields...)
	case KindError:
		n.log.Error(message, fields...)
	default:
		n.log.Info(message, fields...)
	}
}

// Noop drops everything; handy where a notifier is required but unwanted.
type Noop struct{}

func (Noop) Notify(context.Context, string, Kind, string) {}
