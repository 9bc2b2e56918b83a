// Package conduct builds a lookup from player or team identity to an
// accumulated off-field conduct score.
package conduct

import (
	"context"
	"strings"

	"github.com/gridironlab/leaguemetrics/pkg/logger"
	"github.com/gridironlab/leaguemetrics/pkg/metrics"
)

// CategoryPoints is one row of the severity table.
type CategoryPoints struct {
	Category string
	Points   int
}

// Incident is one off-field conduct record. Categories holds one or more
// comma-separated category labels.
type Incident struct {
	Name       string
	Team       string
	Date       string
	Position   string
	CaseID     string
	Categories string
}

// defensiveRoles are the individual positions whose conduct also counts
// against the player's team defense.
var defensiveRoles = map[string]struct{}{
	"CB": {},
	"LB": {},
	"DE": {},
	"DT": {},
	"S":  {},
}

// TeamDefenseSlot is the roster slot scored by team name, not player name.
const TeamDefenseSlot = "DEF"

type record struct {
	points      int
	worst       string
	worstPoints int
}

// Index is the read-only conduct score lookup. Built once per run.
type Index struct {
	severity map[string]int
	records  map[string]*record
	unknown  []string
	log      logger.Logger
}

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithLogger sets a custom logger for the index.
func WithLogger(log logger.Logger) Option {
	return func(ix *Index) {
		if log != nil {
			ix.log = log
		}
	}
}

// NewIndex builds the severity lookup and accumulates every incident.
// Unrecognized categories are logged and contribute zero points.
func NewIndex(ctx context.Context, severity []CategoryPoints, incidents []Incident, opts ...Option) *Index {
	ix := &Index{
		severity: make(map[string]int, len(severity)),
		records:  make(map[string]*record),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.log == nil {
		ix.log = logger.Get().Named("conduct")
	}

	for _, row := range severity {
		ix.severity[normalizeCategory(row.Category)] = row.Points
	}

	for _, incident := range incidents {
		ix.accumulate(ctx, incident)
	}

	return ix
}

func (ix *Index) accumulate(ctx context.Context, incident Incident) {
	for _, raw := range strings.Split(incident.Categories, ",") {
		category := normalizeCategory(raw)
		if category == "" {
			continue
		}

		points, known := ix.severity[category]
		if !known {
			ix.unknown = append(ix.unknown, category)
			metrics.RecordUnknownConductCategory()
			ix.log.Warn(ctx, "conduct category not in severity table",
				logger.String("category", category),
				logger.String("player", incident.Name),
			)
			continue
		}

		ix.add(incident.Name, category, points)
		if _, defensive := defensiveRoles[strings.ToUpper(strings.TrimSpace(incident.Position))]; defensive {
			// Team defense scoring shares individual defender conduct.
			ix.add(teamKey(incident.Team), category, points)
		}
	}
}

// add accumulates points into the bucket for identity. worst tracks the
// single highest point contribution; ties keep the first seen.
func (ix *Index) add(identity, category string, points int) {
	rec, ok := ix.records[identity]
	if !ok {
		rec = &record{}
		ix.records[identity] = rec
	}
	rec.points += points
	if points > rec.worstPoints {
		rec.worstPoints = points
		rec.worst = category
	}
}

// teamKey normalizes a team identifier so the defense bucket matches
// regardless of how the incident feed and the roster spell it.
func teamKey(team string) string {
	return strings.ToUpper(strings.TrimSpace(team))
}

// Score returns the accumulated points and worst-offense label for a
// player. Team defense slots look up by team name instead of player name.
// Unknown identities score zero.
func (ix *Index) Score(name, team, position string) (int, string) {
	key := name
	if position == TeamDefenseSlot {
		key = teamKey(team)
	}
	rec, ok := ix.records[key]
	if !ok {
		return 0, ""
	}
	return rec.points, rec.worst
}

// Len returns the number of identities with at least one scored incident.
func (ix *Index) Len() int {
	return len(ix.records)
}

// UnknownCategories returns every unrecognized category label encountered
// while accumulating, in input order, duplicates included.
func (ix *Index) UnknownCategories() []string {
	return ix.unknown
}

// normalizeCategory upper-cases, trims, and strips surrounding quotes.
func normalizeCategory(category string) string {
	category = strings.ToUpper(strings.TrimSpace(category))
	if len(category) > 1 && strings.HasPrefix(category, `"`) && strings.HasSuffix(category, `"`) {
		category = category[1 : len(category)-1]
	}
	return strings.TrimSpace(category)
}
