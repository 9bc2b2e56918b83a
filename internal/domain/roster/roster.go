// Package roster evaluates one team's weekly roster: coaching efficiency
// against the best legal lineup, conduct rollups, and points by position.
package roster

import (
	"context"
	"strings"

	"github.com/gridironlab/leaguemetrics/internal/domain/conduct"
	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
	"github.com/gridironlab/leaguemetrics/pkg/metrics"
)

// FlexSlot is the normalized name for slots accepting multiple positions
// (Yahoo-style "W/R" and "W/R/T").
const FlexSlot = "FLEX"

// defaultBenchTolerance is the points margin a bench player must exceed a
// same-slot starter by before counting as an ineligible bench player.
const defaultBenchTolerance = 0.0

// Slots describes the league's roster shape.
type Slots struct {
	// Counts maps slot type to how many of it a lineup carries, keyed by
	// normalized names (flex slots under FlexSlot, bench under BN).
	Counts map[string]int

	// FlexPositions are the positions a flex slot accepts, e.g. WR/RB/TE.
	FlexPositions []string
}

// ActiveSlotCount returns the number of non-bench lineup slots.
func (s Slots) ActiveSlotCount() int {
	n := 0
	for slot, count := range s.Counts {
		if slot != model.BenchSlot {
			n += count
		}
	}
	return n
}

// NormalizeSlot maps provider slot names onto roster slot types: any
// multi-position name collapses to FlexSlot.
func NormalizeSlot(name string) string {
	if strings.Contains(name, "/") {
		return FlexSlot
	}
	return name
}

// Evaluator computes TeamWeekResults for one league configuration.
type Evaluator struct {
	slots     Slots
	index     *conduct.Index
	tolerance float64
	log       logger.Logger
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithConductIndex attaches conduct scores to evaluated players.
func WithConductIndex(index *conduct.Index) Option {
	return func(e *Evaluator) {
		e.index = index
	}
}

// WithBenchTolerance sets the points margin used for the ineligible
// bench player check.
func WithBenchTolerance(tolerance float64) Option {
	return func(e *Evaluator) {
		if tolerance >= 0 {
			e.tolerance = tolerance
		}
	}
}

// WithLogger sets a custom logger for the evaluator.
func WithLogger(log logger.Logger) Option {
	return func(e *Evaluator) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEvaluator creates an evaluator for the given roster shape.
func NewEvaluator(slots Slots, opts ...Option) *Evaluator {
	e := &Evaluator{
		slots:     slots,
		tolerance: defaultBenchTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("roster")
	}
	return e
}

// Evaluate computes the weekly result for one team. Luck and power rank
// are filled in by later pipeline stages.
func (e *Evaluator) Evaluate(ctx context.Context, team model.Team) model.TeamWeekResult {
	players := make([]model.Player, len(team.Players))
	copy(players, team.Players)

	if e.index != nil {
		for i := range players {
			players[i].ConductPoints, players[i].ConductLabel =
				e.index.Score(players[i].Name, players[i].TeamAbbrev, players[i].SelectedPosition)
		}
	}

	result := model.TeamWeekResult{
		TeamID:           team.ID,
		Name:             team.Name,
		Manager:          team.Manager,
		PointsByPosition: make(map[string]float64),
		Players:          players,
	}

	for _, p := range players {
		if p.Benched() {
			result.BenchScore += p.FantasyPoints
			continue
		}
		result.Score += p.FantasyPoints
		result.PointsByPosition[NormalizeSlot(p.SelectedPosition)] += p.FantasyPoints

		result.ConductPoints += p.ConductPoints
		if p.ConductPoints > 0 {
			result.NumOffenders++
		}
	}
	result.WorstOffense, _ = worstActiveOffense(players)

	result.CoachingEfficiency, result.IneligibleBenchCount = e.coachingEfficiency(ctx, team.Name, players, result.Score)
	if result.Disqualified() {
		metrics.RecordLineupDisqualification()
	}

	return result
}

// worstActiveOffense finds the label of the single highest-scoring active
// offender. Ties keep the first player in roster order.
func worstActiveOffense(players []model.Player) (string, int) {
	label := ""
	best := 0
	for _, p := range players {
		if p.Benched() {
			continue
		}
		if p.ConductPoints > best {
			best = p.ConductPoints
			label = p.ConductLabel
		}
	}
	return label, best
}
