package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ZapLogger writes audit entries as structured log records.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger constructs an audit logger on top of logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		return nil
	}
	return &ZapLogger{logger: logger.Named("audit")}
}

// Log writes an audit entry. The payload digest identifies the exact inputs
// without retaining them.
func (l *ZapLogger) Log(_ context.Context, entry Entry) error {
	if l == nil || l.logger == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}
	l.logger.Info(entry.Action,
		zap.String("audit_id", entry.ID),
		zap.String("actor", entry.Actor),
		zap.String("role", entry.Role),
		zap.String("resource_type", entry.ResourceType),
		zap.String("resource_id", entry.ResourceID),
		zap.String("payload_digest", entry.PayloadDigest),
		zap.String("ip", entry.IP),
		zap.String("user_agent", entry.UserAgent),
		zap.Time("created_at", entry.CreatedAt),
	)
	return nil
}
