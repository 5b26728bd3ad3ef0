// internal/app/system/auditlog/auditlog.go

// Package auditlog records who did what to which workspace entity. Events
// go to structured logs only; emitting one is fire-and-forget and never
// affects the outcome of the operation being audited.
package auditlog

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event is one audit observation.
type Event struct {
	Action  string              // e.g. "workspace.delete", "member.join", "auth.login"
	Actor   primitive.ObjectID  // user performing the action, Nil for anonymous attempts
	Target  *primitive.ObjectID // entity acted on, when there is one
	Outcome string              // "success" or "denied" or "error"
	IP      string
	Detail  string // short free-text context, safe to log
}

// Logger emits audit events through zap.
type Logger struct {
	log *zap.Logger
}

// New creates an audit Logger.
func New(zapLog *zap.Logger) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{log: zapLog}
}

// Record writes the event. It never returns an error; a lost audit line
// must not fail the request that produced it.
func (l *Logger) Record(ev Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", ev.Action),
		zap.String("outcome", ev.Outcome),
	}
	if ev.Actor != primitive.NilObjectID {
		fields = append(fields, zap.String("actor_id", ev.Actor.Hex()))
	}
	if ev.Target != nil {
		fields = append(fields, zap.String("target_id", ev.Target.Hex()))
	}
	if ev.IP != "" {
		fields = append(fields, zap.String("ip", ev.IP))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	l.log.Info("audit", fields...)
}

// ClientIP extracts the client address for audit events, preferring
// reverse-proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
