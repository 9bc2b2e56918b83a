// Package config defines report configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// ChosenWeekDefault selects "last completed week" per the data source.
const ChosenWeekDefault = "default"

// Config contains process configuration for one report run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LeagueID identifies the league the report is generated for.
	LeagueID string `koanf:"league_id"`

	// ChosenWeek is "default" or a week number "1".."17".
	ChosenWeek string `koanf:"chosen_week"`

	// AllowIncomplete permits a chosen week past the last completed one.
	AllowIncomplete bool `koanf:"allow_incomplete"`

	// FixturePath is the league season fixture file.
	FixturePath string `koanf:"fixture_path"`

	// SeverityPath is the conduct severity table CSV.
	SeverityPath string `koanf:"severity_path"`

	// IncidentsPath is the conduct incident list CSV.
	IncidentsPath string `koanf:"incidents_path"`

	// OutputDir is where the rendered report lands.
	OutputDir string `koanf:"output_dir"`

	// MetricsAddr, when set, serves Prometheus metrics during the run.
	MetricsAddr string `koanf:"metrics_addr"`

	// EvalWorkers bounds the per-team evaluation pool.
	EvalWorkers int `koanf:"eval_workers"`

	// BenchTolerance is the points margin for the ineligible bench check.
	BenchTolerance float64 `koanf:"bench_tolerance"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		ChosenWeek:     ChosenWeekDefault,
		FixturePath:    "league.yaml",
		SeverityPath:   "severity.csv",
		IncidentsPath:  "incidents.csv",
		OutputDir:      "reports",
		EvalWorkers:    runtime.NumCPU(),
		BenchTolerance: 0,
	}
}
