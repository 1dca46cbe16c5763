// Package queue defines the audit message payload and the background
// consumer that persists it.
package queue

// AuditQueueName is the durable queue carrying audit events.
const AuditQueueName = "audit.event"

// AuditEvent is published after every mutating action. Meta is an optional
// JSON object with action-specific details; TargetID is the id of the
// touched resource when one exists.
type AuditEvent struct {
	ActorID  uint64  `json:"actor_id"`
	Action   string  `json:"action"`
	TargetID *uint64 `json:"target_id,omitempty"`
	Meta     string  `json:"meta,omitempty"`
	At       string  `json:"at"`
}
