// Package audit records security-relevant events: credential failures,
// lockouts, denied authorization decisions and verification reviews. Each
// event goes to the structured security log and, when a database is
// attached, to the security_events table for later investigation.
package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type EventType string

const (
	EventLoginFailed          EventType = "login_failed"
	EventLoginLocked          EventType = "login_locked"
	EventLoginSuccess         EventType = "login_success"
	EventLogout               EventType = "logout"
	EventAccessDenied         EventType = "access_denied"
	EventVerificationReviewed EventType = "verification_reviewed"
)

// Event is one security-relevant occurrence. SubjectValue must already be
// masked when it carries PII.
type Event struct {
	Timestamp    time.Time              `json:"timestamp"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`
	SubjectValue string                 `json:"subject_value,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Logger writes audit events. All methods are safe on a nil receiver, so
// callers never need to guard the optional dependency.
type Logger struct {
	zapLogger *zap.Logger
	persist   func(ctx context.Context, event Event) error
}

// New builds an audit logger. persist may be nil for log-only operation.
func New(persist func(ctx context.Context, event Event) error) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build()
	if err != nil {
		zl, _ = zap.NewProduction()
	}
	return &Logger{zapLogger: zl, persist: persist}
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventLoginSuccess, EventLogout:
		return zapcore.InfoLevel
	case EventLoginLocked, EventAccessDenied:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Record logs the event and, when persistence is attached, writes it to
// the database off the request path.
func (l *Logger) Record(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := levelFor(event.Event)
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}
	l.zapLogger.Log(level, string(event.Event), fields...)

	if l.persist != nil {
		go func(e Event) {
			// The request context may already be canceled by the time the
			// insert runs.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := l.persist(ctx, e); err != nil {
				l.zapLogger.Error("failed to persist audit event", zap.Error(err))
			}
		}(event)
	}
}

func (l *Logger) LoginFailed(ctx context.Context, email string, attempts int) {
	l.Record(ctx, Event{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		Details:      map[string]interface{}{"failed_attempts": attempts},
	})
}

func (l *Logger) LoginLocked(ctx context.Context, email string, until time.Time) {
	l.Record(ctx, Event{
		Event:        EventLoginLocked,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		Details:      map[string]interface{}{"locked_until": until.UTC().Format(time.RFC3339)},
	})
}

func (l *Logger) LoginSuccess(ctx context.Context, userID string) {
	l.Record(ctx, Event{
		Event:        EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: userID,
	})
}

func (l *Logger) Logout(ctx context.Context, userID string) {
	l.Record(ctx, Event{
		Event:        EventLogout,
		SubjectType:  "user_id",
		SubjectValue: userID,
	})
}

func (l *Logger) AccessDenied(ctx context.Context, userID, path string) {
	l.Record(ctx, Event{
		Event:        EventAccessDenied,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]interface{}{"path": path},
	})
}

func (l *Logger) VerificationReviewed(ctx context.Context, reviewerID, subjectID string, approved bool) {
	l.Record(ctx, Event{
		Event:        EventVerificationReviewed,
		SubjectType:  "user_id",
		SubjectValue: subjectID,
		Details: map[string]interface{}{
			"reviewer_id": reviewerID,
			"approved":    approved,
		},
	})
}

// MaskEmail hides the local part of an address so audit records carry no
// directly usable PII: "jane.doe@example.com" -> "j***@example.com".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
