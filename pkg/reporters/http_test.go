package reporters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPReporterSuccess(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rep, err := newHTTPReporter(context.Background(), ReporterConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPReporterConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Test": "1"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPReporter: %v", err)
	}

	if err := rep.Report(context.Background(), testEvent()); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if received.Record.Operation != "register" || received.App != "polly-client" {
		t.Fatalf("server received %+v", received)
	}
}

func TestHTTPReporterSendsRecordHeaders(t *testing.T) {
	got := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Clone()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	rep, err := newHTTPReporter(context.Background(), ReporterConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPReporterConfig{
			URL:     srv.URL,
			Method:  http.MethodPut,
			Headers: map[string]string{headerOutcome: "spoofed", "Authorization": "Bearer t"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPReporter: %v", err)
	}
	if err := rep.Report(context.Background(), testEvent()); err != nil {
		t.Fatalf("Report: %v", err)
	}

	h := <-got
	want := map[string]string{
		headerOperation: "register",
		headerOutcome:   "http_error",
		headerRecordID:  "rec-1",
		headerApp:       "polly-client",
		"Authorization": "Bearer t",
		"Content-Type":  "application/json",
	}
	for k, v := range want {
		if h.Get(k) != v {
			t.Fatalf("header %s = %q, want %q", k, h.Get(k), v)
		}
	}
}

func TestHTTPReporterErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	rep, err := newHTTPReporter(context.Background(), ReporterConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPReporterConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPReporter: %v", err)
	}

	if err := rep.Report(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
