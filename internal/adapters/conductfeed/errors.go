package conductfeed

import "errors"

// Sentinel kinds for conduct feed errors.
var (
	ErrLoadSeverityTable = errors.New("load severity table failed")
	ErrLoadIncidents     = errors.New("load incident list failed")
)
