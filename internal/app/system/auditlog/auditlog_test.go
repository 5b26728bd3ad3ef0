package auditlog

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecord_Fields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()
	l.Record(Event{
		Action:  "workspace.delete",
		Actor:   actor,
		Target:  &target,
		Outcome: "success",
		IP:      "10.0.0.1",
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["action"] != "workspace.delete" {
		t.Errorf("action = %v", fields["action"])
	}
	if fields["outcome"] != "success" {
		t.Errorf("outcome = %v", fields["outcome"])
	}
	if fields["actor_id"] != actor.Hex() {
		t.Errorf("actor_id = %v", fields["actor_id"])
	}
	if fields["target_id"] != target.Hex() {
		t.Errorf("target_id = %v", fields["target_id"])
	}
	if fields["audit"] != true {
		t.Error("audit flag missing")
	}
}

func TestRecord_AnonymousActorOmitted(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	l.Record(Event{Action: "auth.login", Outcome: "denied"})

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["actor_id"]; ok {
		t.Error("anonymous events must not carry actor_id")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"

	if got := ClientIP(r); got != "192.0.2.1:1234" {
		t.Errorf("ClientIP = %q", got)
	}

	r.Header.Set("X-Real-IP", "203.0.113.9")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("ClientIP with X-Real-IP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.7")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("ClientIP with X-Forwarded-For = %q", got)
	}
}
