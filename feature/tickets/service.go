package tickets

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"refraction/core/lighthouse"
	"refraction/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service runs ticket imports: fetch, parse, resolve columns and reconcile into the grid.
type Service struct {
	fetcher  lighthouse.Fetcher
	grid     GridConfig
	backends Backends
	logger   *zap.Logger
	timeout  time.Duration

	// mu serializes runs; a grid region has a single writer at a time.
	mu    sync.Mutex
	group singleflight.Group
}

// NewService creates a new ticket import service.
func NewService(fetcher lighthouse.Fetcher, grid GridConfig, backends Backends, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:  fetcher,
		grid:     grid,
		backends: backends,
		logger:   logger,
	}
}

// Import runs one import for query. Identical concurrent calls share a single run.
//
// The shared run is detached from every caller's context and bounded only by the service
// timeout, so one caller giving up does not cancel it for the others. A caller whose own ctx
// ends first gets ctx.Err() while the run carries on.
//
// When reconciliation fails part way, the rows written so far are still committed and the
// partial report is returned together with the error.
func (s *Service) Import(ctx context.Context, query string, dryRun bool) (*Report, error) {
	key := query + "\x00" + strconv.FormatBool(dryRun)
	runCtx := context.WithoutCancel(ctx)

	ch := s.group.DoChan(key, func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		ctx := runCtx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		return s.run(ctx, query, dryRun)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("import of %q still running: %w", query, ctx.Err())
	case res = <-ch:
	}
	if res.Shared {
		s.logger.Debug("Joined in-flight import", zap.String("query", query))
	}

	report, _ := res.Val.(*Report)
	if report == nil {
		return nil, res.Err
	}
	cp := *report
	return &cp, res.Err
}

// SetTimeout bounds every import run. Zero leaves runs unbounded.
func (s *Service) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Fields fetches and parses query and returns the discovered fields. No grid is opened.
func (s *Service) Fields(ctx context.Context, query string) (*FieldsReport, error) {
	_, fields, count, err := s.fetchBatch(ctx, query)
	if err != nil {
		return nil, err
	}
	return &FieldsReport{Query: query, Tickets: count, Fields: fields.Names()}, nil
}

func (s *Service) run(ctx context.Context, query string, dryRun bool) (*Report, error) {
	start := time.Now()
	opts := s.grid.Options()

	origin, err := reconcile.ParseOrigin(s.grid.Origin)
	if err != nil {
		return nil, err
	}

	batch, fields, count, err := s.fetchBatch(ctx, query)
	if err != nil {
		return nil, err
	}

	target, err := OpenTarget(ctx, s.grid, s.backends, dryRun)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid: %w", err)
	}
	defer target.Close()

	l := s.logger.With(zap.String("target", target.Name()))

	columns, err := reconcile.Resolve(ctx, target, origin, fields, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve columns: %w", err)
	}

	report := &Report{
		Query:     query,
		Target:    target.Name(),
		Origin:    origin.String(),
		StartedAt: start,
		DryRun:    dryRun,
		Fetched:   count,
		Fields:    fields.Names(),
		Columns:   columns,
	}

	summary, runErr := reconcile.Reconcile(ctx, batch, target, origin, columns, opts, l)
	report.Summary = summary

	// Rows already written stay written, even when the walk stopped early.
	if err := target.Commit(ctx); err != nil {
		return report, fmt.Errorf("failed to commit grid: %w", err)
	}

	report.Duration = time.Since(start).Round(time.Millisecond).String()
	if runErr != nil {
		l.Error("Import stopped early", append(report.ZapFields(), zap.Error(runErr))...)
		return report, runErr
	}

	l.Info("Import finished", report.ZapFields()...)
	return report, nil
}

// fetchBatch fetches query, parses the response and builds the pending batch and its field set.
func (s *Service) fetchBatch(ctx context.Context, query string) (*reconcile.Pending, *reconcile.FieldSet, int, error) {
	raw, err := s.fetcher.Fetch(ctx, query)
	if err != nil {
		return nil, nil, 0, err
	}

	items, err := lighthouse.ParseTickets(raw)
	if err != nil {
		return nil, nil, 0, err
	}

	fields := reconcile.NewFieldSet()
	batch := reconcile.NewPending(s.grid.KeyField)
	for _, item := range items {
		batch.PushBack(reconcile.FromParsedFields(item.Fields, fields, s.logger))
	}

	s.logger.Debug("Parsed tickets",
		zap.String("query", query),
		zap.Int("tickets", len(items)),
		zap.Strings("fields", fields.Names()),
	)
	return batch, fields, len(items), nil
}
