package reporters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Builder creates a Reporter from a config entry.
type Builder func(ctx context.Context, cfg ReporterConfig, log Logger) (Reporter, error)

// Registry maps reporter types to builders. The zero value is empty; a
// Registry is not safe for concurrent registration.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// DefaultRegistry knows every reporter type this package ships.
func DefaultRegistry() *Registry {
	return NewRegistry().
		With(TypeHTTP, newHTTPReporter).
		With(TypeSQS, newSQSReporter).
		With(TypeSNS, newSNSReporter).
		With(TypePubSub, newPubSubReporter)
}

// With registers builder under typ and returns the registry for chaining.
// Blank types and nil builders are ignored.
func (r *Registry) With(typ string, builder Builder) *Registry {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return r
	}
	if r.builders == nil {
		r.builders = make(map[string]Builder)
	}
	r.builders[typ] = builder
	return r
}

// Types lists the registered reporter types in sorted order.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.builders))
	for typ := range r.builders {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Build creates the reporter for one config entry.
func (r *Registry) Build(ctx context.Context, cfg ReporterConfig, log Logger) (Reporter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("reporter %q has no type configured", cfg.ID)
	}
	var builder Builder
	if r != nil {
		builder = r.builders[strings.ToLower(cfg.Type)]
	}
	if builder == nil {
		return nil, fmt.Errorf("reporter %q: unknown type %q (known: %s)", cfg.ID, cfg.Type, strings.Join(r.Types(), ", "))
	}
	return builder(ctx, cfg, ensureLogger(log))
}

// BuildAll creates a reporter for every enabled config. If any build fails,
// the reporters already created are closed before the error is returned.
func BuildAll(ctx context.Context, reg *Registry, cfgs []ReporterConfig, log Logger) ([]Reporter, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}
	log = ensureLogger(log)

	reps := make([]Reporter, 0, len(cfgs))
	for _, cfg := range cfgs {
		if !cfg.EnabledValue() {
			continue
		}
		rep, err := reg.Build(ctx, cfg, log)
		if err != nil {
			if cerr := closeAll(reps); cerr != nil {
				log.WarnObj("reporter cleanup failed", "reporter_cleanup_error", cerr.Error())
			}
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

func closeAll(reps []Reporter) error {
	var errs []error
	for _, r := range reps {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s reporter[%s]: %w", r.Type(), r.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
