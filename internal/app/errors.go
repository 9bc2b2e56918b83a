package app

import "errors"

// Sentinel kinds for report-run errors.
var (
	// ErrInvalidWeek rejects a chosen week outside 1..17 or an incomplete
	// week selected without explicit permission.
	ErrInvalidWeek = errors.New("invalid chosen week")
)
