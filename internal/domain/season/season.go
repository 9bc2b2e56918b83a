// Package season folds weekly per-team metric values into running season
// state: aligned week series for charts and averages that skip
// disqualified weeks.
package season

// Metric names a per-team weekly value tracked across the season.
type Metric string

// Tracked metrics.
const (
	Score      Metric = "score"
	Efficiency Metric = "coaching_efficiency"
	Luck       Metric = "luck"
	PowerRank  Metric = "power_rank"
	Conduct    Metric = "conduct_points"
)

// Percent reports whether the metric renders as a percentage. The stored
// values stay raw fractions either way.
func (m Metric) Percent() bool {
	return m == Efficiency || m == Luck
}

// WeekValue is one slot of a team's season series. Invalid slots keep the
// series aligned by week number without contributing to the average.
type WeekValue struct {
	Week  int
	Value float64
	Valid bool
}

// Aggregator owns all season-long state. It is mutated only by appending
// inside the sequential week loop.
type Aggregator struct {
	series map[Metric]map[string][]WeekValue

	// positionPoints holds each week's starting-lineup points per slot
	// type per team.
	positionPoints map[string]map[string][]float64
}

// NewAggregator creates an empty season aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		series:         make(map[Metric]map[string][]WeekValue),
		positionPoints: make(map[string]map[string][]float64),
	}
}

// Accumulate appends one week's value for a team's metric.
func (a *Aggregator) Accumulate(week int, metric Metric, team string, value float64) {
	a.append(metric, team, WeekValue{Week: week, Value: value, Valid: true})
}

// AccumulateInvalid appends a placeholder for a week whose value is
// disqualified. The slot is retained so series stay week-aligned, but the
// average skips it.
func (a *Aggregator) AccumulateInvalid(week int, metric Metric, team string) {
	a.append(metric, team, WeekValue{Week: week})
}

func (a *Aggregator) append(metric Metric, team string, v WeekValue) {
	byTeam, ok := a.series[metric]
	if !ok {
		byTeam = make(map[string][]WeekValue)
		a.series[metric] = byTeam
	}
	byTeam[team] = append(byTeam[team], v)
}

// Average returns the mean of the valid weekly values for a team's metric.
// The second return is false when no valid week has been accumulated.
func (a *Aggregator) Average(metric Metric, team string) (float64, bool) {
	sum := 0.0
	n := 0
	for _, v := range a.series[metric][team] {
		if v.Valid {
			sum += v.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Series returns the week-aligned value sequence for a team's metric,
// invalid placeholders included. The slice is shared; callers must not
// mutate it.
func (a *Aggregator) Series(metric Metric, team string) []WeekValue {
	return a.series[metric][team]
}

// Weeks returns how many weeks have been accumulated for a team's metric.
func (a *Aggregator) Weeks(metric Metric, team string) int {
	return len(a.series[metric][team])
}

// AccumulatePositionPoints records one week's starting-lineup points per
// slot type for a team.
func (a *Aggregator) AccumulatePositionPoints(team string, points map[string]float64) {
	bySlot, ok := a.positionPoints[team]
	if !ok {
		bySlot = make(map[string][]float64)
		a.positionPoints[team] = bySlot
	}
	for slot, pts := range points {
		bySlot[slot] = append(bySlot[slot], pts)
	}
}

// PositionAverages returns per-slot season averages for a team, across the
// weeks that slot has data for.
func (a *Aggregator) PositionAverages(team string) map[string]float64 {
	averages := make(map[string]float64, len(a.positionPoints[team]))
	for slot, values := range a.positionPoints[team] {
		if len(values) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		averages[slot] = sum / float64(len(values))
	}
	return averages
}
