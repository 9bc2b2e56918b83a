package league

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/internal/domain/roster"
	"github.com/gridironlab/leaguemetrics/pkg/metrics"
)

// Fixture file schema.
type fixtureFile struct {
	LeagueID    string            `yaml:"league_id"`
	Name        string            `yaml:"name"`
	CurrentWeek int               `yaml:"current_week"`
	Roster      fixtureRoster     `yaml:"roster"`
	Standings   []fixtureStanding `yaml:"standings"`
	Weeks       []fixtureWeek     `yaml:"weeks"`
}

type fixtureRoster struct {
	Slots         map[string]int `yaml:"slots"`
	FlexPositions []string       `yaml:"flex_positions"`
}

type fixtureStanding struct {
	Rank          int     `yaml:"rank"`
	Team          string  `yaml:"team"`
	Manager       string  `yaml:"manager"`
	Wins          int     `yaml:"wins"`
	Losses        int     `yaml:"losses"`
	Ties          int     `yaml:"ties"`
	PointsFor     float64 `yaml:"points_for"`
	PointsAgainst float64 `yaml:"points_against"`
	Streak        string  `yaml:"streak"`
	Waiver        int     `yaml:"waiver"`
	Moves         int     `yaml:"moves"`
}

type fixtureWeek struct {
	Week     int              `yaml:"week"`
	Matchups []fixtureMatchup `yaml:"matchups"`
	Rosters  []fixtureTeam    `yaml:"rosters"`
}

type fixtureMatchup struct {
	Teams []fixtureMatchupSide `yaml:"teams"`
}

type fixtureMatchupSide struct {
	Team   string  `yaml:"team"`
	Score  float64 `yaml:"score"`
	Result string  `yaml:"result"`
}

type fixtureTeam struct {
	TeamID  string          `yaml:"team_id"`
	Name    string          `yaml:"name"`
	Manager string          `yaml:"manager"`
	Players []fixturePlayer `yaml:"players"`
}

type fixturePlayer struct {
	Name              string   `yaml:"name"`
	NFLTeam           string   `yaml:"nfl_team"`
	Bye               bool     `yaml:"bye"`
	SelectedPosition  string   `yaml:"selected_position"`
	EligiblePositions []string `yaml:"eligible_positions"`
	Points            float64  `yaml:"points"`
}

// FileSource serves league data from a YAML season fixture. It stands in
// for the live provider behind the same Source contract.
type FileSource struct {
	info  Info
	weeks map[int]WeekData
}

// NewFileSource reads and parses the fixture eagerly so a broken file
// fails the run before any metric computation.
func NewFileSource(ctx context.Context, path string) (*FileSource, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDatasourceLatency(time.Since(start).Seconds())
	}()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFixture, err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFixture, err)
	}

	src := &FileSource{
		info: Info{
			ID:          f.LeagueID,
			Name:        f.Name,
			CurrentWeek: f.CurrentWeek,
			Slots:       buildSlots(f.Roster),
			Standings:   buildStandings(f.Standings),
		},
		weeks: make(map[int]WeekData, len(f.Weeks)),
	}

	for _, w := range f.Weeks {
		src.weeks[w.Week] = buildWeek(w)
	}

	return src, nil
}

// League returns league identity, roster shape, and standings.
func (s *FileSource) League(ctx context.Context) (Info, error) {
	return s.info, nil
}

// Week returns the rosters and matchup results for one week.
func (s *FileSource) Week(ctx context.Context, week int) (WeekData, error) {
	data, ok := s.weeks[week]
	if !ok {
		return WeekData{}, fmt.Errorf("%w: week %d", ErrWeekUnavailable, week)
	}
	return data, nil
}

// buildSlots normalizes provider slot names: multi-position slots collapse
// under the flex slot, and flex positions fall back to the conventional
// expansion of the slot name (W/R -> WR,RB; W/R/T -> WR,RB,TE).
func buildSlots(r fixtureRoster) roster.Slots {
	slots := roster.Slots{
		Counts:        make(map[string]int, len(r.Slots)),
		FlexPositions: r.FlexPositions,
	}
	for name, count := range r.Slots {
		slots.Counts[roster.NormalizeSlot(name)] += count
		if len(slots.FlexPositions) == 0 && strings.Contains(name, "/") {
			slots.FlexPositions = expandFlexName(name)
		}
	}
	return slots
}

func expandFlexName(name string) []string {
	expansion := map[string]string{
		"W": "WR",
		"R": "RB",
		"T": "TE",
		"Q": "QB",
	}
	var positions []string
	for _, part := range strings.Split(name, "/") {
		if pos, ok := expansion[strings.TrimSpace(part)]; ok {
			positions = append(positions, pos)
		}
	}
	return positions
}

func buildStandings(rows []fixtureStanding) []model.StandingsRow {
	standings := make([]model.StandingsRow, len(rows))
	for i, r := range rows {
		standings[i] = model.StandingsRow{
			Rank:          r.Rank,
			Team:          r.Team,
			Manager:       r.Manager,
			Wins:          r.Wins,
			Losses:        r.Losses,
			Ties:          r.Ties,
			PointsFor:     r.PointsFor,
			PointsAgainst: r.PointsAgainst,
			Streak:        r.Streak,
			Waiver:        r.Waiver,
			Moves:         r.Moves,
		}
	}
	return standings
}

func buildWeek(w fixtureWeek) WeekData {
	data := WeekData{
		Week:  w.Week,
		Teams: make([]model.Team, len(w.Rosters)),
	}

	for i, t := range w.Rosters {
		team := model.Team{
			ID:      t.TeamID,
			Name:    t.Name,
			Manager: t.Manager,
			Players: make([]model.Player, len(t.Players)),
		}
		for j, p := range t.Players {
			team.Players[j] = model.Player{
				Name:              p.Name,
				TeamAbbrev:        strings.ToUpper(p.NFLTeam),
				ByeWeek:           p.Bye,
				SelectedPosition:  p.SelectedPosition,
				EligiblePositions: p.EligiblePositions,
				FantasyPoints:     p.Points,
			}
		}
		data.Teams[i] = team
	}

	for _, m := range w.Matchups {
		for _, side := range m.Teams {
			data.Results = append(data.Results, model.MatchupResult{
				Team:   side.Team,
				Score:  side.Score,
				Result: model.Outcome(strings.ToUpper(side.Result)),
			})
		}
	}

	return data
}
