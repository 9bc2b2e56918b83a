// Package ranking orders per-team metric values into ranked, tie-resolved
// rows. One resolver serves every metric; the caller picks the sort
// direction and whether a secondary tie-break value participates.
package ranking

import "sort"

// Row is one team's value for the metric being ranked. TieBreak is only
// consulted when the resolver is built with WithTieBreak (bench points for
// the score table).
type Row struct {
	Team     string
	Value    float64
	TieBreak float64
}

// RankedRow is a finalized row of a metric table.
type RankedRow struct {
	Rank     int
	Team     string
	Value    float64
	TieBreak float64
}

// Result is a fully resolved metric table plus its tie summary.
type Result struct {
	Rows []RankedRow

	// TieCount is the number of teams sharing a primary value with at
	// least one other team. Zero iff all values are pairwise distinct.
	TieCount int

	// TieForFirst is true iff the first and second rows share a value.
	TieForFirst bool

	// NumTiedForFirst is how many leading rows share the full rank key:
	// the value, plus the tie-break when one is in play. Equivalently,
	// the number of rows holding rank 1.
	NumTiedForFirst int
}

type resolver struct {
	ascending   bool
	useTieBreak bool
}

// Option configures a Resolve call.
type Option func(*resolver)

// WithAscending sorts lower values first (power rank, where lower is better).
func WithAscending() Option {
	return func(r *resolver) {
		r.ascending = true
	}
}

// WithTieBreak reorders tied subgroups by the TieBreak field, descending.
// Rows outside tie groups keep their value-only order.
func WithTieBreak() Option {
	return func(r *resolver) {
		r.useTieBreak = true
	}
}

// Resolve produces a total order over rows with deterministic tie handling.
func Resolve(rows []Row, opts ...Option) Result {
	var r resolver
	for _, opt := range opts {
		opt(&r)
	}

	ordered := make([]RankedRow, len(rows))
	for i, row := range rows {
		ordered[i] = RankedRow{Team: row.Team, Value: row.Value, TieBreak: row.TieBreak}
	}

	// Primary key: value. Secondary: team label, so strictly equal values
	// still order the same way on every run.
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Value != ordered[j].Value {
			if r.ascending {
				return ordered[i].Value < ordered[j].Value
			}
			return ordered[i].Value > ordered[j].Value
		}
		return ordered[i].Team < ordered[j].Team
	})

	tieCount := countTies(ordered)

	if r.useTieBreak && tieCount > 0 {
		resolveTieGroups(ordered)
	}

	assignRanks(ordered, r.useTieBreak)

	res := Result{
		Rows:     ordered,
		TieCount: tieCount,
	}
	if len(ordered) > 1 && ordered[0].Value == ordered[1].Value {
		res.TieForFirst = true
	}
	res.NumTiedForFirst = leadingGroupSize(ordered, r.useTieBreak)
	return res
}

// countTies sums the sizes of all value groups with two or more members.
func countTies(rows []RankedRow) int {
	count := 0
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && rows[j].Value == rows[i].Value {
			j++
		}
		if j-i > 1 {
			count += j - i
		}
		i = j
	}
	return count
}

// resolveTieGroups reorders each run of equal values by tie-break value,
// descending, keeping team label as the deterministic fallback.
func resolveTieGroups(rows []RankedRow) {
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && rows[j].Value == rows[i].Value {
			j++
		}
		if j-i > 1 {
			group := rows[i:j]
			sort.SliceStable(group, func(a, b int) bool {
				if group[a].TieBreak != group[b].TieBreak {
					return group[a].TieBreak > group[b].TieBreak
				}
				return group[a].Team < group[b].Team
			})
		}
		i = j
	}
}

// assignRanks gives contiguous ranks from 1, advancing only when the rank
// key changes. The tie-break value joins the key once it has been used to
// resolve order, so a resolved tie yields distinct ranks.
func assignRanks(rows []RankedRow, useTieBreak bool) {
	rank := 0
	for i := range rows {
		if i == 0 || !sameKey(rows[i], rows[i-1], useTieBreak) {
			rank++
		}
		rows[i].Rank = rank
	}
}

func sameKey(a, b RankedRow, useTieBreak bool) bool {
	if a.Value != b.Value {
		return false
	}
	if useTieBreak {
		return a.TieBreak == b.TieBreak
	}
	return true
}

// leadingGroupSize returns how many leading rows share the rank key with
// the first row.
func leadingGroupSize(rows []RankedRow, useTieBreak bool) int {
	if len(rows) == 0 {
		return 0
	}
	n := 1
	for n < len(rows) && sameKey(rows[n], rows[0], useTieBreak) {
		n++
	}
	return n
}

// Positions returns competition-style rank positions for a value map:
// highest value gets position 1, equal values share the smallest position
// of their group. Used to feed rank positions into the power blend.
func Positions(values map[string]float64) map[string]int {
	teams := make([]string, 0, len(values))
	for team := range values {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if values[teams[i]] != values[teams[j]] {
			return values[teams[i]] > values[teams[j]]
		}
		return teams[i] < teams[j]
	})

	positions := make(map[string]int, len(teams))
	for i, team := range teams {
		if i > 0 && values[team] == values[teams[i-1]] {
			positions[team] = positions[teams[i-1]]
			continue
		}
		positions[team] = i + 1
	}
	return positions
}
