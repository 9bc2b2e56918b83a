package league

import "errors"

// Sentinel kinds for league data source errors.
var (
	ErrLoadFixture     = errors.New("load league fixture failed")
	ErrWeekUnavailable = errors.New("week not available in league data")
)
