// Package league defines the league data source contract: per-week rosters,
// head-to-head results, and the standings snapshot the pipeline consumes.
// Fetching and parsing live provider data stays behind this interface.
package league

import (
	"context"

	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/internal/domain/roster"
)

// Info describes the league a report runs against.
type Info struct {
	ID   string
	Name string

	// CurrentWeek is the provider's in-progress week; the last completed
	// week is CurrentWeek-1.
	CurrentWeek int

	Slots     roster.Slots
	Standings []model.StandingsRow
}

// WeekData is everything one week of metrics computation needs.
type WeekData struct {
	Week    int
	Teams   []model.Team
	Results []model.MatchupResult
}

// Source provides league data as plain structured records.
type Source interface {
	// League returns league identity, roster shape, and standings.
	League(ctx context.Context) (Info, error)

	// Week returns the rosters and matchup results for one week.
	// Returns ErrWeekUnavailable when the fixture has no such week.
	Week(ctx context.Context, week int) (WeekData, error)
}
