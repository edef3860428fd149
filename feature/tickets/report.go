package tickets

import (
	"bytes"
	"fmt"
	"time"

	"refraction/core/reconcile"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Report describes one import run.
type Report struct {
	Query     string    `json:"query" yaml:"query"`
	Target    string    `json:"target" yaml:"target"`
	Origin    string    `json:"origin" yaml:"origin"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Duration  string    `json:"duration" yaml:"duration"`
	DryRun    bool      `json:"dry_run" yaml:"dry_run"`

	// Fetched is the number of tickets parsed from the response.
	Fetched int `json:"fetched" yaml:"fetched"`
	// Fields is every field seen in the batch, in discovery order.
	Fields []string `json:"fields" yaml:"fields"`
	// Columns is the effective column layout taken from the header row.
	Columns []string `json:"columns" yaml:"columns"`

	reconcile.Summary `yaml:",inline"`
}

// FieldsReport lists the fields discovered for a query without touching a grid.
type FieldsReport struct {
	Query   string   `json:"query" yaml:"query"`
	Tickets int      `json:"tickets" yaml:"tickets"`
	Fields  []string `json:"fields" yaml:"fields"`
}

// ZapFields returns the report as structured log fields.
func (r *Report) ZapFields() []zap.Field {
	return []zap.Field{
		zap.String("query", r.Query),
		zap.String("target", r.Target),
		zap.String("origin", r.Origin),
		zap.Bool("dry_run", r.DryRun),
		zap.Int("fetched", r.Fetched),
		zap.Strings("columns", r.Columns),
		zap.Int("appended", r.Appended),
		zap.Int("updated", r.Updated),
		zap.Int("skipped_rows", r.SkippedRows),
		zap.Int("dropped", r.Dropped),
		zap.Int("first_row", r.FirstRow),
		zap.Int("last_row", r.LastRow),
		zap.Bool("append_only", r.AppendOnly),
		zap.String("duration", r.Duration),
	}
}

// WriteFile writes the report to path as YAML.
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
