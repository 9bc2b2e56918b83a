// Package fixturegen produces synthetic league seasons so the report
// pipeline can run end-to-end without a live provider.
package fixturegen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Default generation parameters.
const (
	defaultTeams       = 10
	defaultWeeks       = 4
	defaultRandomSeed  = 42
	benchSlots         = 5
	incidentsPerLeague = 6
)

// Points bands per position, roughly shaped like real weekly scoring.
var pointBands = map[string][2]float64{
	"QB":  {10, 30},
	"WR":  {2, 22},
	"RB":  {2, 24},
	"TE":  {1, 15},
	"K":   {3, 14},
	"DEF": {0, 18},
}

// activeSlots is the generated league's lineup, in fill order.
var activeSlots = []string{"QB", "WR", "WR", "RB", "RB", "TE", "W/R/T", "K", "DEF"}

// defaultSeverity is the severity table the generator writes and draws
// incident categories from.
var defaultSeverity = []struct {
	Category string
	Points   int
}{
	{"DUI", 5},
	{"ASSAULT", 10},
	{"DISORDERLY CONDUCT", 3},
	{"DRUGS", 4},
	{"THEFT", 6},
}

// Config controls fixture generation.
type Config struct {
	Teams int
	Weeks int
	Seed  int64
}

// Output bundles the generated files' contents.
type Output struct {
	League    []byte // YAML season fixture
	Severity  []byte // CSV severity table
	Incidents []byte // CSV incident list
}

// Option applies a configuration option to the Config.
type Option func(*Config)

// WithTeams sets the league size. Odd sizes round up to even so every
// team has a weekly opponent.
func WithTeams(teams int) Option {
	return func(c *Config) {
		if teams > 1 {
			c.Teams = teams + teams%2
		}
	}
}

// WithWeeks sets how many completed weeks the fixture carries.
func WithWeeks(weeks int) Option {
	return func(c *Config) {
		if weeks > 0 {
			c.Weeks = weeks
		}
	}
}

// WithSeed makes generation reproducible.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// Generate builds a synthetic season.
func Generate(opts ...Option) (Output, error) {
	cfg := Config{
		Teams: defaultTeams,
		Weeks: defaultWeeks,
		Seed:  defaultRandomSeed,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic fixtures

	teams := make([]teamDef, cfg.Teams)
	for i := range teams {
		teams[i] = teamDef{
			ID:      fmt.Sprintf("%d", i+1),
			Name:    fmt.Sprintf("Team %d", i+1),
			Manager: fmt.Sprintf("manager-%d", i+1),
		}
		for _, slot := range activeSlots {
			teams[i].Players = append(teams[i].Players, newPlayer(rng, i, slot))
		}
		for b := 0; b < benchSlots; b++ {
			pos := []string{"WR", "RB", "TE"}[rng.Intn(3)]
			p := newPlayer(rng, i, pos)
			p.Slot = "BN"
			teams[i].Players = append(teams[i].Players, p)
		}
	}

	fixture := buildFixture(rng, cfg, teams)
	leagueYAML, err := yaml.Marshal(fixture)
	if err != nil {
		return Output{}, fmt.Errorf("marshal fixture: %w", err)
	}

	return Output{
		League:    leagueYAML,
		Severity:  severityCSV(),
		Incidents: incidentsCSV(rng, teams),
	}, nil
}

type teamDef struct {
	ID      string
	Name    string
	Manager string
	Players []playerDef
}

type playerDef struct {
	Name     string
	NFLTeam  string
	Position string
	Slot     string
}

var nflTeams = []string{"GB", "KC", "PHI", "DAL", "SF", "BUF", "MIA", "DET", "BAL", "CIN"}

func newPlayer(rng *rand.Rand, team int, slot string) playerDef {
	position := slot
	if strings.Contains(slot, "/") {
		position = []string{"WR", "RB", "TE"}[rng.Intn(3)]
	}
	return playerDef{
		Name:     fmt.Sprintf("%s %s", position, newID(rng)[:8]),
		NFLTeam:  nflTeams[(team+rng.Intn(len(nflTeams)))%len(nflTeams)],
		Position: position,
		Slot:     slot,
	}
}

// YAML fixture schema, mirroring what the league adapter reads.
type fixtureDoc struct {
	LeagueID    string       `yaml:"league_id"`
	Name        string       `yaml:"name"`
	CurrentWeek int          `yaml:"current_week"`
	Roster      rosterDoc    `yaml:"roster"`
	Standings   []standing   `yaml:"standings"`
	Weeks       []weekDoc    `yaml:"weeks"`
}

type rosterDoc struct {
	Slots         map[string]int `yaml:"slots"`
	FlexPositions []string       `yaml:"flex_positions"`
}

type standing struct {
	Rank      int     `yaml:"rank"`
	Team      string  `yaml:"team"`
	Manager   string  `yaml:"manager"`
	Wins      int     `yaml:"wins"`
	Losses    int     `yaml:"losses"`
	Ties      int     `yaml:"ties"`
	PointsFor float64 `yaml:"points_for"`
}

type weekDoc struct {
	Week     int          `yaml:"week"`
	Matchups []matchupDoc `yaml:"matchups"`
	Rosters  []rosterTeam `yaml:"rosters"`
}

type matchupDoc struct {
	Teams []matchupSide `yaml:"teams"`
}

type matchupSide struct {
	Team   string  `yaml:"team"`
	Score  float64 `yaml:"score"`
	Result string  `yaml:"result"`
}

type rosterTeam struct {
	TeamID  string      `yaml:"team_id"`
	Name    string      `yaml:"name"`
	Manager string      `yaml:"manager"`
	Players []playerDoc `yaml:"players"`
}

type playerDoc struct {
	Name              string   `yaml:"name"`
	NFLTeam           string   `yaml:"nfl_team"`
	Bye               bool     `yaml:"bye"`
	SelectedPosition  string   `yaml:"selected_position"`
	EligiblePositions []string `yaml:"eligible_positions"`
	Points            float64  `yaml:"points"`
}

func buildFixture(rng *rand.Rand, cfg Config, teams []teamDef) fixtureDoc {
	doc := fixtureDoc{
		LeagueID:    fmt.Sprintf("%06d", rng.Intn(1_000_000)),
		Name:        "Generated League",
		CurrentWeek: cfg.Weeks + 1,
		Roster: rosterDoc{
			Slots:         slotCounts(),
			FlexPositions: []string{"WR", "RB", "TE"},
		},
	}

	wins := make([]int, len(teams))
	losses := make([]int, len(teams))
	pointsFor := make([]float64, len(teams))

	for week := 1; week <= cfg.Weeks; week++ {
		w := weekDoc{Week: week}

		scores := make([]float64, len(teams))
		for i, t := range teams {
			roster, total := rollWeek(rng, t)
			scores[i] = total
			pointsFor[i] += total
			w.Rosters = append(w.Rosters, roster)
		}

		for i := 0; i < len(teams); i += 2 {
			a, b := i, i+1
			resA, resB := "W", "L"
			switch {
			case scores[a] < scores[b]:
				resA, resB = "L", "W"
				wins[b]++
				losses[a]++
			case scores[a] == scores[b]:
				resA, resB = "T", "T"
			default:
				wins[a]++
				losses[b]++
			}
			w.Matchups = append(w.Matchups, matchupDoc{Teams: []matchupSide{
				{Team: teams[a].Name, Score: scores[a], Result: resA},
				{Team: teams[b].Name, Score: scores[b], Result: resB},
			}})
		}

		doc.Weeks = append(doc.Weeks, w)
	}

	order := make([]int, len(teams))
	for i := range order {
		order[i] = i
	}
	for i := range order {
		for j := i + 1; j < len(order); j++ {
			if wins[order[j]] > wins[order[i]] ||
				(wins[order[j]] == wins[order[i]] && pointsFor[order[j]] > pointsFor[order[i]]) {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	for rank, idx := range order {
		doc.Standings = append(doc.Standings, standing{
			Rank:      rank + 1,
			Team:      teams[idx].Name,
			Manager:   teams[idx].Manager,
			Wins:      wins[idx],
			Losses:    losses[idx],
			PointsFor: pointsFor[idx],
		})
	}

	return doc
}

func slotCounts() map[string]int {
	counts := make(map[string]int)
	for _, slot := range activeSlots {
		counts[slot]++
	}
	counts["BN"] = benchSlots
	return counts
}

// rollWeek draws weekly points for every player on a team and returns the
// roster document plus the active lineup total.
func rollWeek(rng *rand.Rand, t teamDef) (rosterTeam, float64) {
	roster := rosterTeam{TeamID: t.ID, Name: t.Name, Manager: t.Manager}
	total := 0.0
	for _, p := range t.Players {
		band := pointBands[p.Position]
		points := band[0] + rng.Float64()*(band[1]-band[0])
		points = float64(int(points*100)) / 100

		eligible := []string{p.Position}
		if p.Position == "WR" || p.Position == "RB" || p.Position == "TE" {
			eligible = append(eligible, "W/R/T")
		}

		roster.Players = append(roster.Players, playerDoc{
			Name:              p.Name,
			NFLTeam:           p.NFLTeam,
			SelectedPosition:  p.Slot,
			EligiblePositions: eligible,
			Points:            points,
		})
		if p.Slot != "BN" {
			total += points
		}
	}
	return roster, float64(int(total*100)) / 100
}

func severityCSV() []byte {
	var b strings.Builder
	for _, row := range defaultSeverity {
		fmt.Fprintf(&b, "%s,%d\n", row.Category, row.Points)
	}
	return []byte(b.String())
}

// incidentsCSV fabricates a handful of incidents against generated
// players, case ids included so rows trace like the real dataset's.
func incidentsCSV(rng *rand.Rand, teams []teamDef) []byte {
	var b strings.Builder
	for i := 0; i < incidentsPerLeague; i++ {
		team := teams[rng.Intn(len(teams))]
		player := team.Players[rng.Intn(len(team.Players))]
		category := defaultSeverity[rng.Intn(len(defaultSeverity))].Category
		fmt.Fprintf(&b, "%s,%s,2025-%02d-%02d,%s,%s,\"%s\"\n",
			player.Name, player.NFLTeam, 1+rng.Intn(12), 1+rng.Intn(28),
			player.Position, newID(rng), category)
	}
	return []byte(b.String())
}

// newID draws a uuid from the seeded source so a seed pins the whole
// fixture, names and case ids included.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// rand.Rand reads never fail.
		panic(err)
	}
	return id.String()
}
