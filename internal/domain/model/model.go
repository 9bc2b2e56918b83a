// Package model contains domain models passed between layers.
package model

// Player is one rostered player for a single week. Immutable once built.
type Player struct {
	Name              string
	TeamAbbrev        string   // NFL team abbreviation, e.g. "GB"
	ByeWeek           bool     // on bye this week
	SelectedPosition  string   // slot the manager started them in, "BN" for bench
	EligiblePositions []string // slots the player may legally fill
	FantasyPoints     float64
	ConductPoints     int
	ConductLabel      string // worst offense category, empty when clean
}

// Benched reports whether the player sat this week.
func (p Player) Benched() bool {
	return p.SelectedPosition == BenchSlot
}

// Team is one league team's roster for a single week.
type Team struct {
	ID      string
	Name    string
	Manager string
	Players []Player
}

// MatchupResult is one side of a head-to-head matchup.
type MatchupResult struct {
	Team   string
	Score  float64
	Result Outcome
}

// Outcome is a head-to-head result.
type Outcome string

// Head-to-head outcomes.
const (
	Win  Outcome = "W"
	Loss Outcome = "L"
	Tie  Outcome = "T"
)

// BenchSlot is the selected position of a benched player.
const BenchSlot = "BN"

// TeamWeekResult holds everything computed for one team in one week.
// Rebuilt fresh every week; only the season aggregator keeps history.
type TeamWeekResult struct {
	TeamID  string
	Name    string
	Manager string

	Score      float64
	BenchScore float64

	// CoachingEfficiency is actual over optimal lineup points, or the
	// DisqualifiedEfficiency sentinel when the active squad is invalid.
	CoachingEfficiency   float64
	IneligibleBenchCount int

	Luck      float64
	PowerRank float64

	ConductPoints int
	WorstOffense  string
	NumOffenders  int

	// PointsByPosition maps active slot type to points started there.
	PointsByPosition map[string]float64

	Players []Player
}

// DisqualifiedEfficiency marks a week where coaching efficiency could not
// be computed. It is excluded from season averages.
const DisqualifiedEfficiency = -1.0

// Disqualified reports whether the efficiency value carries the sentinel.
func (r TeamWeekResult) Disqualified() bool {
	return r.CoachingEfficiency == DisqualifiedEfficiency
}

// StandingsRow is one row of the league standings snapshot. It passes
// through the pipeline untouched and lands in the rendered report.
type StandingsRow struct {
	Rank          int
	Team          string
	Manager       string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	Streak        string
	Waiver        int
	Moves         int
}
