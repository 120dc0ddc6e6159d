package polly

import (
	"net/http"
	"time"
)

// Kind classifies how a call ended.
type Kind int

const (
	// KindSuccess is a 2xx (or other non-error) response.
	KindSuccess Kind = iota + 1
	// KindHTTPError is a 4xx/5xx response; the body is still available.
	KindHTTPError
	// KindTransportError means no response was received at all.
	KindTransportError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindHTTPError:
		return "http_error"
	case KindTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single API call.
//
// StatusCode, Body and ContentType are set for KindSuccess and KindHTTPError.
// Err is set only for KindTransportError.
type Outcome struct {
	Operation   string
	Kind        Kind
	StatusCode  int
	Body        []byte
	ContentType string
	Err         error
	Elapsed     time.Duration
}

// HasResponse reports whether the server answered. It is false only for transport errors.
func (o Outcome) HasResponse() bool {
	return o.Kind == KindSuccess || o.Kind == KindHTTPError
}

// OK reports whether the call produced a non-error response.
func (o Outcome) OK() bool { return o.Kind == KindSuccess }

// Message returns the transport error text, or the status text for responses.
func (o Outcome) Message() string {
	if o.Kind == KindTransportError {
		if o.Err == nil {
			return "no response"
		}
		return o.Err.Error()
	}
	return http.StatusText(o.StatusCode)
}

// Decode parses the body for display. It returns a zero Body when there is no response.
func (o Outcome) Decode() Body {
	if !o.HasResponse() {
		return Body{}
	}
	return DecodeBody(o.Body, o.ContentType)
}

func classifyStatus(status int) Kind {
	if status >= http.StatusBadRequest {
		return KindHTTPError
	}
	return KindSuccess
}
