package domain

import (
	"time"

	"github.com/google/uuid"
)

// Domain contains core models shared by the client, journal and reporters.

// Credentials is the registration payload sent to the Polly API.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PageRequest selects a slice of a paginated listing. The server enforces bounds.
type PageRequest struct {
	Skip  int
	Limit int
}

const (
	DefaultSkip  = 0
	DefaultLimit = 10
)

// DefaultPageRequest returns the first page with the default page size.
func DefaultPageRequest() PageRequest {
	return PageRequest{Skip: DefaultSkip, Limit: DefaultLimit}
}

// CallRecord summarises a single API call for the journal and downstream reporters.
type CallRecord struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	BaseURL    string    `json:"base_url"`
	Message    string    `json:"message,omitempty"`
	ElapsedMS  int64     `json:"elapsed_ms"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewCallRecord stamps a record with a fresh id and the current UTC time.
func NewCallRecord(operation, outcome string, statusCode int, baseURL, message string, elapsed time.Duration) CallRecord {
	return CallRecord{
		ID:         uuid.NewString(),
		Operation:  operation,
		Outcome:    outcome,
		StatusCode: statusCode,
		BaseURL:    baseURL,
		Message:    message,
		ElapsedMS:  elapsed.Milliseconds(),
		RecordedAt: time.Now().UTC(),
	}
}
