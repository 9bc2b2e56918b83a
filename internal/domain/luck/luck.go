// Package luck derives a weekly luck index per team: the deviation between
// a team's actual head-to-head outcome and the outcome its score deserved
// had it played every other team that week.
package luck

import "github.com/gridironlab/leaguemetrics/internal/domain/model"

// Evaluate computes the luck index for every team in the week's matchup
// results. A team that wins while most of the league out-scores it gets a
// positive index up to 1; the mirror loss gets down to -1. Head-to-head
// ties contribute zero for both sides.
func Evaluate(results []model.MatchupResult) map[string]float64 {
	indices := make(map[string]float64, len(results))
	if len(results) < 2 {
		for _, r := range results {
			indices[r.Team] = 0
		}
		return indices
	}

	opponents := float64(len(results) - 1)

	for _, team := range results {
		allPlayWins, allPlayLosses, allPlayTies := 0, 0, 0
		for _, other := range results {
			if other.Team == team.Team {
				continue
			}
			switch {
			case team.Score > other.Score:
				allPlayWins++
			case team.Score < other.Score:
				allPlayLosses++
			default:
				allPlayTies++
			}
		}

		switch team.Result {
		case model.Win:
			indices[team.Team] = float64(allPlayLosses+allPlayTies) / opponents
		case model.Loss:
			indices[team.Team] = -float64(allPlayWins+allPlayTies) / opponents
		default:
			indices[team.Team] = 0
		}
	}

	return indices
}
