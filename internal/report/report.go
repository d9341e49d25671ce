// Package report serializes the outcome of a reconciliation run to YAML
// for archiving alongside the output workbook.
package report

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/aulatools/conciliador/pkg/errors"
	"github.com/aulatools/conciliador/pkg/reconcile"
)

// Report is the serialized run summary.
type Report struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	RosterFile  string    `yaml:"roster_file,omitempty"`
	LogFiles    []string  `yaml:"log_files,omitempty"`

	Teachers int `yaml:"teachers"`
	Entries  int `yaml:"log_entries"`
	Updated  int `yaml:"rows_updated"`
	Created  int `yaml:"rows_created"`
	Rows     int `yaml:"rows_total"`

	DurationMs int64    `yaml:"duration_ms"`
	Warnings   []string `yaml:"warnings,omitempty"`
}

// FromResult builds a report from a run result.
func FromResult(result *reconcile.Result, rosterFile string, logFiles []string) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		RosterFile:  rosterFile,
		LogFiles:    logFiles,
		Teachers:    result.Metadata.Teachers,
		Entries:     result.Metadata.Entries,
		Updated:     result.Updated,
		Created:     result.Created,
		Rows:        len(result.Table.Rows),
		DurationMs:  result.Metadata.Duration.Milliseconds(),
		Warnings:    result.Warnings,
	}
}

// Write saves the report as YAML.
func (r *Report) Write(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
