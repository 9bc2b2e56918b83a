// Package power blends score, coaching efficiency, and luck into a single
// power ranking per team. Lower is better.
package power

import (
	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/internal/domain/ranking"
)

// Blend weights. Equal weighting across the three inputs is the policy;
// the constants exist so the formula reads as one.
const (
	scoreWeight      = 1.0
	efficiencyWeight = 1.0
	luckWeight       = 1.0
)

// Evaluate blends each team's rank position in score, efficiency, and luck
// into one value. A disqualified efficiency week still ranks; the sentinel
// simply sorts last among efficiencies, matching how the weekly efficiency
// table treats it.
func Evaluate(results []model.TeamWeekResult, luck map[string]float64) map[string]float64 {
	scores := make(map[string]float64, len(results))
	efficiencies := make(map[string]float64, len(results))
	lucks := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.Name] = r.Score
		efficiencies[r.Name] = r.CoachingEfficiency
		lucks[r.Name] = luck[r.Name]
	}

	scoreRank := ranking.Positions(scores)
	efficiencyRank := ranking.Positions(efficiencies)
	luckRank := ranking.Positions(lucks)

	totalWeight := scoreWeight + efficiencyWeight + luckWeight

	blended := make(map[string]float64, len(results))
	for _, r := range results {
		blended[r.Name] = (scoreWeight*float64(scoreRank[r.Name]) +
			efficiencyWeight*float64(efficiencyRank[r.Name]) +
			luckWeight*float64(luckRank[r.Name])) / totalWeight
	}
	return blended
}
