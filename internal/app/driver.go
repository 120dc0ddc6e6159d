package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Najib632/Polly-API/internal/config"
	"github.com/Najib632/Polly-API/internal/domain"
	"github.com/Najib632/Polly-API/internal/logger"
	"github.com/Najib632/Polly-API/internal/storage"
	"github.com/Najib632/Polly-API/pkg/httpclient"
	"github.com/Najib632/Polly-API/pkg/polly"
	"github.com/Najib632/Polly-API/pkg/reporters"
)

// journalPeek is how many journal rows are logged after a run.
const journalPeek = 5

// Scenario is the fixed example invocation run by the driver.
type Scenario struct {
	Credentials domain.Credentials
	Page        domain.PageRequest
}

// DefaultScenario registers a test user and lists the first page of polls.
func DefaultScenario() Scenario {
	return Scenario{
		Credentials: domain.Credentials{
			Username: "testuser",
			Password: "a-very-secret-password",
		},
		Page: domain.DefaultPageRequest(),
	}
}

// Driver runs the example calls sequentially and prints each outcome. Every
// call is also recorded in the journal and sent to the configured reporters.
type Driver struct {
	appName string
	client  *polly.Client
	printer *Printer
	out     io.Writer
	store   storage.Store
	fanout  *reporters.Fanout
	log     logger.Logger
}

// NewDriver builds a driver runtime from config.
func NewDriver(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := polly.NewClient(cfg.BaseURL, httpclient.NewRestyClient(cfg.RequestTimeout), log)
	if err != nil {
		return nil, fmt.Errorf("init polly client: %w", err)
	}

	storeOpts := storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := buildReporters(ctx, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Driver{
		appName: cfg.AppName,
		client:  client,
		printer: NewPrinter(out, cfg.OutputFormat),
		out:     out,
		store:   store,
		fanout:  fanout,
		log:     log,
	}, nil
}

func buildReporters(ctx context.Context, cfg *config.Config, log logger.Logger) (*reporters.Fanout, error) {
	if strings.TrimSpace(cfg.ReportersFile) == "" {
		return reporters.NewFanout(nil), nil
	}

	reg, err := reporters.LoadRegistry(cfg.ReportersFile)
	if err != nil {
		return nil, fmt.Errorf("load reporters registry: %w", err)
	}
	enabled := reg.Enabled()
	reps, err := reporters.BuildAll(ctx, reporters.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build reporters: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, rc := range enabled {
		summaries = append(summaries, map[string]string{"id": rc.ID, "type": rc.Type})
	}
	log.InfoObj("reporters registry loaded", "reporters_meta", map[string]any{
		"count":     len(summaries),
		"reporters": summaries,
	})
	return reporters.NewFanout(reps), nil
}

// Run registers the scenario user, then lists polls. Call failures are
// printed and recorded, never returned.
func (d *Driver) Run(ctx context.Context, sc Scenario) error {
	if d == nil || d.client == nil {
		return fmt.Errorf("driver is not initialized")
	}

	d.log.InfoObj("driver starting", "driver_state", map[string]any{
		"base_url":        d.client.BaseURL(),
		"reporters_count": d.fanout.Size(),
	})

	fmt.Fprintf(d.out, "Attempting to register user '%s'...\n", sc.Credentials.Username)
	d.handle(ctx, d.client.RegisterUser(ctx, sc.Credentials))

	fmt.Fprintln(d.out, "\nFetching polls...")
	d.handle(ctx, d.client.ListPolls(ctx, sc.Page))

	d.logJournal()
	return nil
}

// Close releases the journal and reporter connections.
func (d *Driver) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := d.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close reporters: %w", err))
	}
	return errors.Join(errs...)
}

func (d *Driver) handle(ctx context.Context, out polly.Outcome) {
	d.printer.Print(out)

	rec := recordFor(d.client.BaseURL(), out)
	if d.store != nil {
		if err := d.store.Record(rec); err != nil {
			d.log.WarnObj("journal record failed", "journal_error", map[string]any{
				"operation": out.Operation,
				"error":     err.Error(),
			})
		}
	}

	if n, err := d.fanout.Report(ctx, reporters.NewEvent(d.appName, rec)); err != nil {
		d.log.WarnObj("outcome report failed", "report_error", map[string]any{
			"operation": out.Operation,
			"delivered": n,
			"error":     err.Error(),
			"reporters": d.fanout.Size(),
		})
	}
}

func (d *Driver) logJournal() {
	if d.store == nil {
		return
	}
	recent, err := d.store.Recent(journalPeek)
	if err != nil {
		d.log.WarnObj("journal read failed", "journal_error", err.Error())
		return
	}
	if len(recent) > 0 {
		d.log.DebugObj("recent calls", "journal", recent)
	}
}

func recordFor(baseURL string, out polly.Outcome) domain.CallRecord {
	return domain.NewCallRecord(
		out.Operation,
		out.Kind.String(),
		out.StatusCode,
		baseURL,
		out.Message(),
		out.Elapsed,
	)
}
