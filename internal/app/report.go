// Package app orchestrates the report pipeline: the season week loop, the
// per-metric ranking tables, and the payload handed to the renderer.
package app

import (
	"time"

	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/internal/domain/season"
)

// TableRow is one row of a rendered metric table.
type TableRow struct {
	Rank    int
	Team    string
	Manager string
	Value   float64

	// TieBreak is the secondary value shown next to the metric; bench
	// points for the score table, zero elsewhere.
	TieBreak float64

	// SeasonAverage is the running average across valid weeks.
	SeasonAverage    float64
	HasSeasonAverage bool
}

// MetricTable is one metric's fully resolved table for the chosen week.
type MetricTable struct {
	Metric  season.Metric
	Percent bool
	Rows    []TableRow

	TieCount        int
	TieForFirst     bool
	NumTiedForFirst int
}

// ConductRow is one row of the conduct table.
type ConductRow struct {
	Rank         int
	Team         string
	Manager      string
	Points       int
	WorstOffense string
	NumOffenders int
}

// WeekSummary records tie and disqualification counts logged per week.
type WeekSummary struct {
	Week int

	TiedScores       int
	TiedEfficiencies int
	TiedLucks        int
	TiedPowerRanks   int
	TiedConduct      int

	// Disqualifications maps team name to its ineligible bench player
	// count, or IncompleteSquad for a squad that never filled its slots.
	Disqualifications map[string]int
}

// IncompleteSquad marks a disqualification caused by an unfilled active
// slot rather than bench misuse.
const IncompleteSquad = -1

// Report is the complete payload handed to the renderer. Plain data only;
// layout and formatting live with the renderer.
type Report struct {
	LeagueID    string
	LeagueName  string
	Week        int
	GeneratedAt time.Time

	Standings []model.StandingsRow

	// Teams and Managers are ordered by team id, matching every series.
	Teams    []string
	Managers []string

	// Tables holds the chosen week's resolved metric tables with season
	// average columns: score, efficiency, luck, power rank.
	Tables []MetricTable

	// Conduct is the chosen week's conduct table with offense detail.
	Conduct      []ConductRow
	ConductTies  int
	ConductFirst int // teams tied for the top conduct score

	// Series maps metric -> team -> week-aligned values for charts.
	Series map[season.Metric]map[string][]season.WeekValue

	// PositionAverages maps team -> slot type -> season average points.
	PositionAverages map[string]map[string]float64

	Weekly []WeekSummary
}
