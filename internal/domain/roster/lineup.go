package roster

import (
	"context"
	"sort"
	"strings"

	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
)

// coachingEfficiency returns actual points over the best legal lineup's
// points, or the disqualification sentinel when the active squad is
// incomplete or a bench player should have started. The second return is
// the ineligible bench player count, kept for diagnostics either way.
func (e *Evaluator) coachingEfficiency(ctx context.Context, team string, players []model.Player, actual float64) (float64, int) {
	ineligible := e.ineligibleBenchCount(players)

	if !e.activeSquadComplete(players) {
		e.log.Warn(ctx, "coaching efficiency disqualified: incomplete active squad",
			logger.String("team", team),
		)
		return model.DisqualifiedEfficiency, ineligible
	}

	if ineligible > 0 {
		e.log.Warn(ctx, "coaching efficiency disqualified: ineligible bench players",
			logger.String("team", team),
			logger.Int("benchPlayers", ineligible),
		)
		return model.DisqualifiedEfficiency, ineligible
	}

	optimal := e.optimalPoints(players)
	if optimal <= 0 {
		return model.DisqualifiedEfficiency, ineligible
	}
	return actual / optimal, ineligible
}

// activeSquadComplete checks that the started positions fill the required
// active slot multiset exactly.
func (e *Evaluator) activeSquadComplete(players []model.Player) bool {
	filled := make(map[string]int)
	for _, p := range players {
		if !p.Benched() {
			filled[NormalizeSlot(p.SelectedPosition)]++
		}
	}

	required := 0
	for slot, count := range e.slots.Counts {
		if slot == model.BenchSlot {
			continue
		}
		if filled[slot] != count {
			return false
		}
		required++
	}
	return len(filled) == required
}

// ineligibleBenchCount counts bench players who out-score, beyond the
// tolerance, a starter sharing the same eligible slot set.
func (e *Evaluator) ineligibleBenchCount(players []model.Player) int {
	count := 0
	for _, bench := range players {
		if !bench.Benched() {
			continue
		}
		for _, starter := range players {
			if starter.Benched() {
				continue
			}
			if eligibilityKey(bench) != eligibilityKey(starter) {
				continue
			}
			if bench.FantasyPoints > starter.FantasyPoints+e.tolerance {
				count++
				break
			}
		}
	}
	return count
}

func eligibilityKey(p model.Player) string {
	eligible := make([]string, len(p.EligiblePositions))
	copy(eligible, p.EligiblePositions)
	sort.Strings(eligible)
	return strings.Join(eligible, ",")
}

// optimalPoints finds the best legal lineup total over the whole roster,
// bench included. Slot assignment is an exhaustive search memoized on the
// set of used players, so a player eligible for several slots lands where
// the lineup total says, not where an arbitrary fill order puts them. The
// started lineup is one of the searched assignments, so the optimum is
// never below the actual total.
func (e *Evaluator) optimalPoints(players []model.Player) float64 {
	slots := e.activeSlotInstances()
	candidates := make([][]int, len(slots))
	for si, slot := range slots {
		for i := range players {
			if e.slotEligible(players[i], slot) {
				candidates[si] = append(candidates[si], i)
			}
		}
	}

	type state struct {
		slot int
		used uint64
	}
	memo := make(map[state]float64)

	var fill func(slot int, used uint64) float64
	fill = func(slot int, used uint64) float64 {
		if slot == len(slots) {
			return 0
		}
		key := state{slot: slot, used: used}
		if best, ok := memo[key]; ok {
			return best
		}
		// A slot may stay empty when its eligible players are spent.
		best := fill(slot+1, used)
		for _, i := range candidates[slot] {
			if used&(1<<uint(i)) != 0 {
				continue
			}
			total := players[i].FantasyPoints + fill(slot+1, used|1<<uint(i))
			if total > best {
				best = total
			}
		}
		memo[key] = best
		return best
	}
	return fill(0, 0)
}

// activeSlotInstances expands the slot counts into one entry per lineup
// spot, fixed positions first, flex last, in a deterministic order.
func (e *Evaluator) activeSlotInstances() []string {
	names := make([]string, 0, len(e.slots.Counts))
	for slot := range e.slots.Counts {
		if slot == model.BenchSlot || slot == FlexSlot {
			continue
		}
		names = append(names, slot)
	}
	sort.Strings(names)
	if e.slots.Counts[FlexSlot] > 0 {
		names = append(names, FlexSlot)
	}

	instances := make([]string, 0, len(names))
	for _, slot := range names {
		for n := 0; n < e.slots.Counts[slot]; n++ {
			instances = append(instances, slot)
		}
	}
	return instances
}

func (e *Evaluator) slotEligible(p model.Player, slot string) bool {
	if slot == FlexSlot {
		for _, pos := range e.slots.FlexPositions {
			if hasPosition(p.EligiblePositions, pos) {
				return true
			}
		}
		return false
	}
	return hasPosition(p.EligiblePositions, slot)
}

func hasPosition(positions []string, want string) bool {
	for _, pos := range positions {
		if pos == want {
			return true
		}
	}
	return false
}
