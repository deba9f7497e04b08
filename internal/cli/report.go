package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/toyz/markgen/internal/errors"
	"github.com/toyz/markgen/internal/models"
)

// Report is the YAML record of one generator run
type Report struct {
	SessionID      string         `yaml:"session_id"`
	StartedAt      time.Time      `yaml:"started_at"`
	Duration       string         `yaml:"duration"`
	Target         string         `yaml:"target"`
	Marker         string         `yaml:"marker"`
	Packages       []string       `yaml:"packages"`
	Rounds         []RoundReport  `yaml:"rounds"`
	GeneratedFiles []string       `yaml:"generated_files"`
	Summary        ReportCounters `yaml:"summary"`
}

// RoundReport records one processing round
type RoundReport struct {
	Round          int                `yaml:"round"`
	ProcessingOver bool               `yaml:"processing_over"`
	Annotations    []string           `yaml:"annotations,omitempty"`
	Handled        bool               `yaml:"handled"`
	Collected      []string           `yaml:"collected,omitempty"`
	Generated      string             `yaml:"generated,omitempty"`
	Diagnostics    []DiagnosticReport `yaml:"diagnostics,omitempty"`
}

// DiagnosticReport is a diagnostic flattened for serialization
type DiagnosticReport struct {
	Severity models.Severity `yaml:"severity"`
	Code     string          `yaml:"code,omitempty"`
	Message  string          `yaml:"message"`
	Location string          `yaml:"location,omitempty"`
}

// ReportCounters are the totals of a run
type ReportCounters struct {
	Packages  int `yaml:"packages"`
	Elements  int `yaml:"elements"`
	Collected int `yaml:"collected"`
	Notes     int `yaml:"notes"`
	Warnings  int `yaml:"warnings"`
	Errors    int `yaml:"errors"`
}

// NewReport starts a report with a fresh session ID
func NewReport(config Config) *Report {
	return &Report{
		SessionID: uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Target:    config.Target,
		Marker:    config.Marker,
	}
}

// AddRound records a processed round
func (r *Report) AddRound(in models.RoundInput, result models.RoundResult) {
	round := RoundReport{
		Round:          in.Round,
		ProcessingOver: in.ProcessingOver,
		Annotations:    in.Annotations,
		Handled:        result.Handled,
		Collected:      result.Collected,
	}
	if result.Generated != nil {
		round.Generated = generatedName(result.Generated)
		r.GeneratedFiles = append(r.GeneratedFiles, round.Generated)
	}
	for _, d := range result.Diagnostics {
		entry := DiagnosticReport{Severity: d.Severity, Message: d.Message}
		if d.Cause != nil {
			entry.Code = errors.CodeOf(d.Cause).String()
		}
		if loc := d.Location(); !loc.IsEmpty() {
			entry.Location = loc.String()
		}
		round.Diagnostics = append(round.Diagnostics, entry)
	}
	r.Rounds = append(r.Rounds, round)
}

// Finish stamps the duration and totals
func (r *Report) Finish(summary GenerationSummary) {
	r.Duration = time.Since(r.StartedAt).Round(time.Millisecond).String()
	r.Summary = ReportCounters{
		Packages:  summary.PackagesProcessed,
		Elements:  summary.MarkedElements,
		Collected: summary.Collected,
		Notes:     summary.Notes,
		Warnings:  summary.Warnings,
		Errors:    summary.Errors,
	}
}

// WriteFile writes the report as YAML, creating parent directories
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapFileSystemError("create directory for", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.WrapFileSystemError("create", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	if err := encoder.Close(); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}

// generatedName is the path of a unit, or its file name when the filer kept no path
func generatedName(unit *models.GeneratedUnit) string {
	if unit.Path != "" {
		return unit.Path
	}
	return unit.FileName
}
