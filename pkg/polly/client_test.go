package polly

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Najib632/Polly-API/internal/domain"
	"github.com/Najib632/Polly-API/pkg/httpclient"
)

// recordingLogger captures warn messages.
type recordingLogger struct {
	noopLogger
	mu    sync.Mutex
	warns []string
}

func (r *recordingLogger) WarnObj(msg, _ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func newTestClient(t *testing.T, baseURL string, log Logger) *Client {
	t.Helper()
	client, err := NewClient(baseURL, nil, log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func mustDecode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

func TestRegisterUserSuccess(t *testing.T) {
	const reply = `{"id":1,"username":"testuser"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/register" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if creds["username"] != "testuser" || creds["password"] != "secret" {
			t.Errorf("unexpected credentials %#v", creds)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(reply))
	}))
	defer srv.Close()

	out := newTestClient(t, srv.URL, nil).RegisterUser(context.Background(), domain.Credentials{
		Username: "testuser",
		Password: "secret",
	})

	if out.Kind != KindSuccess || out.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected outcome %+v", out)
	}
	body := out.Decode()
	if body.Kind != BodyJSON {
		t.Fatalf("expected JSON body, got %+v", body)
	}
	if !reflect.DeepEqual(body.JSON, mustDecode(t, reply)) {
		t.Fatalf("decoded body %#v", body.JSON)
	}
	if out.Operation != OperationRegister {
		t.Fatalf("Operation = %q", out.Operation)
	}
}

func TestRegisterUserHTTPErrorKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "username taken"}`))
	}))
	defer srv.Close()

	log := &recordingLogger{}
	out := newTestClient(t, srv.URL, log).RegisterUser(context.Background(), domain.Credentials{Username: "taken"})

	if !out.HasResponse() {
		t.Fatalf("expected a response, got absence")
	}
	if out.Kind != KindHTTPError || out.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected outcome %+v", out)
	}
	body := out.Decode()
	want := map[string]any{"detail": "username taken"}
	if !reflect.DeepEqual(body.JSON, want) {
		t.Fatalf("decoded body %#v", body.JSON)
	}
	if len(log.warns) != 1 {
		t.Fatalf("expected one warning, got %v", log.warns)
	}
}

func TestRegisterUserConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	log := &recordingLogger{}
	out := newTestClient(t, "http://"+addr, log).RegisterUser(context.Background(), domain.Credentials{})

	if out.HasResponse() {
		t.Fatalf("expected absence, got %+v", out)
	}
	if out.Kind != KindTransportError || out.Err == nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Decode().Kind != BodyNone {
		t.Fatalf("expected empty body for transport error")
	}
	if len(log.warns) != 1 {
		t.Fatalf("expected diagnostic for transport error, got %v", log.warns)
	}
}

func TestListPollsReturnsListUnchanged(t *testing.T) {
	const polls = `[{"id":1,"question":"Tea or coffee?","options":[{"id":1,"text":"Tea"}]},{"id":2,"question":"Cats?","options":[]}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/polls" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(polls))
	}))
	defer srv.Close()

	out := newTestClient(t, srv.URL, nil).ListPolls(context.Background(), domain.DefaultPageRequest())
	if out.Kind != KindSuccess || out.StatusCode != http.StatusOK {
		t.Fatalf("unexpected outcome %+v", out)
	}
	body := out.Decode()
	list, ok := body.JSON.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected list of 2 polls, got %#v", body.JSON)
	}
	if !reflect.DeepEqual(body.JSON, mustDecode(t, polls)) {
		t.Fatalf("decoded polls differ: %#v", body.JSON)
	}
}

func TestListPollsKeepsLargeIntegers(t *testing.T) {
	const polls = `[{"id":9007199254740993,"question":"q"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(polls))
	}))
	defer srv.Close()

	out := newTestClient(t, srv.URL, nil).ListPolls(context.Background(), domain.DefaultPageRequest())
	body := out.Decode()
	if body.Kind != BodyJSON {
		t.Fatalf("expected JSON body, got %+v", body)
	}
	encoded, err := json.Marshal(body.JSON)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != polls {
		t.Fatalf("decoded polls changed: %s", encoded)
	}
}

func TestListPollsTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	defer close(release)

	log := &recordingLogger{}
	client, err := NewClient(srv.URL, httpclient.NewRestyClient(50*time.Millisecond), log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	out := client.ListPolls(context.Background(), domain.DefaultPageRequest())
	if out.HasResponse() {
		t.Fatalf("expected absence after timeout, got %+v", out)
	}
	if out.Kind != KindTransportError || out.Err == nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(log.warns) != 1 {
		t.Fatalf("expected diagnostic for timeout, got %v", log.warns)
	}
}

func TestRegisterUserCancelledContextIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newTestClient(t, srv.URL, nil).RegisterUser(ctx, domain.Credentials{Username: "testuser"})
	if out.HasResponse() || out.Kind != KindTransportError {
		t.Fatalf("expected transport error for cancelled context, got %+v", out)
	}
}

func TestListPollsSendsPaginationVerbatim(t *testing.T) {
	var gotSkip, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSkip = r.URL.Query().Get("skip")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	newTestClient(t, srv.URL, nil).ListPolls(context.Background(), domain.PageRequest{Skip: 20, Limit: 5})
	if gotSkip != "20" || gotLimit != "5" {
		t.Fatalf("skip=%q limit=%q", gotSkip, gotLimit)
	}
}

func TestListPollsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	defer srv.Close()

	out := newTestClient(t, srv.URL, nil).ListPolls(context.Background(), domain.DefaultPageRequest())
	if out.Kind != KindHTTPError || out.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected outcome %+v", out)
	}
	body := out.Decode()
	if body.Kind != BodyText || body.Text != "Internal Server Error" {
		t.Fatalf("expected text fallback, got %+v", body)
	}
}

func TestNewClientNormalisesBaseURL(t *testing.T) {
	client, err := NewClient(" http://localhost:8000/ ", nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "http://localhost:8000" {
		t.Fatalf("BaseURL = %q", client.BaseURL())
	}
	if got := client.endpoint(registerPath); got != "http://localhost:8000/register" {
		t.Fatalf("endpoint = %q", got)
	}
}

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "ftp://example.com", "http://"} {
		if _, err := NewClient(raw, nil, nil); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
