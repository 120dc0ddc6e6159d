package reporters

import (
	"time"

	"github.com/Najib632/Polly-API/internal/domain"
)

// Event represents the payload reported downstream.
type Event struct {
	App    string            `json:"app"`
	Record domain.CallRecord `json:"record"`
	SentAt time.Time         `json:"sent_at"`
}

// NewEvent wraps a call record for delivery.
func NewEvent(app string, rec domain.CallRecord) Event {
	return Event{
		App:    app,
		Record: rec,
		SentAt: time.Now().UTC(),
	}
}

// attributes are attached as message metadata by queue reporters.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"operation": e.Record.Operation,
		"outcome":   e.Record.Outcome,
	}
}
