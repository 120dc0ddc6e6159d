package reporters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Najib632/Polly-API/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

// Webhook headers carrying the record metadata, so receivers can route
// without parsing the body.
const (
	headerOperation = "X-Polly-Operation"
	headerOutcome   = "X-Polly-Outcome"
	headerRecordID  = "X-Polly-Record-Id"
	headerApp       = "X-Polly-App"

	errorSnippetLimit = 256
)

// webhookReporter posts each call record to an HTTP endpoint.
type webhookReporter struct {
	id     string
	cfg    HTTPReporterConfig
	client *resty.Client
	log    Logger
}

func newHTTPReporter(_ context.Context, cfg ReporterConfig, log Logger) (Reporter, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("reporter %q missing http configuration", cfg.ID)
	}
	hc := *cfg.HTTP
	if hc.Method == "" {
		hc.Method = httpDefaultMethod
	}
	if hc.TimeoutSeconds <= 0 {
		hc.TimeoutSeconds = httpDefaultTimeoutSeconds
	}

	return &webhookReporter{
		id:     cfg.ID,
		cfg:    hc,
		client: httpclient.NewRestyHTTPClient(time.Duration(hc.TimeoutSeconds) * time.Second),
		log:    ensureLogger(log),
	}, nil
}

func (w *webhookReporter) ID() string   { return w.id }
func (w *webhookReporter) Type() string { return TypeHTTP }

// Report sends the event as JSON. Configured headers are applied first so the
// record metadata headers always win.
func (w *webhookReporter) Report(ctx context.Context, evt Event) error {
	started := time.Now()
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeaders(w.cfg.Headers).
		SetHeaders(eventHeaders(evt)).
		SetHeader("Content-Type", "application/json").
		SetBody(evt).
		Execute(w.cfg.Method, w.cfg.URL)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", w.cfg.URL, err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook answered %d: %s", status, snippet(resp.Body()))
	}

	w.log.DebugObj("webhook reporter delivered event", "reporter_http_delivery", map[string]any{
		"reporter_id": w.id,
		"record_id":   evt.Record.ID,
		"status_code": status,
		"elapsed_ms":  time.Since(started).Milliseconds(),
	})
	return nil
}

func eventHeaders(evt Event) map[string]string {
	h := map[string]string{
		headerOperation: evt.Record.Operation,
		headerOutcome:   evt.Record.Outcome,
		headerRecordID:  evt.Record.ID,
		headerApp:       evt.App,
	}
	for k, v := range h {
		if v == "" {
			delete(h, k)
		}
	}
	return h
}

func snippet(body []byte) string {
	if len(body) > errorSnippetLimit {
		body = body[:errorSnippetLimit]
	}
	return strings.TrimSpace(string(body))
}
