package service

// Auth event outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// EventRecorder counts session lifecycle events (login, register, refresh, ...).
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

// NopEventRecorder discards every event.
type NopEventRecorder struct{}

// RecordAuthEvent implements EventRecorder.
func (NopEventRecorder) RecordAuthEvent(string, string) {}
