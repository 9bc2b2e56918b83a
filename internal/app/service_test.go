package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironlab/leaguemetrics/internal/adapters/league"
	"github.com/gridironlab/leaguemetrics/internal/app"
	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/internal/domain/roster"
	"github.com/gridironlab/leaguemetrics/internal/domain/season"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSource serves a small fixed season from memory.
type fakeSource struct {
	info  league.Info
	weeks map[int]league.WeekData
}

func (f *fakeSource) League(ctx context.Context) (league.Info, error) {
	return f.info, nil
}

func (f *fakeSource) Week(ctx context.Context, week int) (league.WeekData, error) {
	data, ok := f.weeks[week]
	if !ok {
		return league.WeekData{}, league.ErrWeekUnavailable
	}
	return data, nil
}

func starter(name, slot string, points float64) model.Player {
	return model.Player{
		Name:              name,
		SelectedPosition:  slot,
		EligiblePositions: []string{slot},
		FantasyPoints:     points,
	}
}

func benched(name string, eligible []string, points float64) model.Player {
	return model.Player{
		Name:              name,
		SelectedPosition:  model.BenchSlot,
		EligiblePositions: eligible,
		FantasyPoints:     points,
	}
}

func team(id, name, manager string, players ...model.Player) model.Team {
	return model.Team{ID: id, Name: name, Manager: manager, Players: players}
}

func matchup(team string, score float64, result model.Outcome) model.MatchupResult {
	return model.MatchupResult{Team: team, Score: score, Result: result}
}

// testSeason is two completed weeks of a four team league. Week two has one
// efficiency tie at the top, one sub-optimal lineup, and one team benching
// a runner who out-scored the started one.
func testSeason() *fakeSource {
	week1 := league.WeekData{
		Week: 1,
		Teams: []model.Team{
			team("1", "Aces", "Sam",
				starter("a qb", "QB", 40), starter("a wr", "WR", 40),
				benched("a flex", []string{"WR", "TE"}, 20)),
			team("2", "Bears", "Lee",
				starter("b qb", "QB", 60), starter("b wr", "WR", 40),
				benched("b flex", []string{"WR", "TE"}, 20)),
			team("3", "Comets", "Kim",
				starter("c qb", "QB", 50), starter("c wr", "WR", 30),
				benched("c wr2", []string{"WR"}, 10)),
			team("4", "Drakes", "Pat",
				starter("d qb", "QB", 20), starter("d wr", "WR", 20),
				benched("d flex", []string{"WR", "TE"}, 10)),
		},
		Results: []model.MatchupResult{
			matchup("Aces", 80, model.Loss), matchup("Bears", 100, model.Win),
			matchup("Comets", 80, model.Win), matchup("Drakes", 40, model.Loss),
		},
	}

	week2 := league.WeekData{
		Week: 2,
		Teams: []model.Team{
			team("1", "Aces", "Sam",
				starter("a qb", "QB", 60), starter("a wr", "WR", 40),
				benched("a flex", []string{"WR", "TE"}, 20)),
			team("2", "Bears", "Lee",
				starter("b qb", "QB", 50), starter("b wr", "WR", 30),
				benched("b flex", []string{"WR", "TE"}, 50)),
			team("3", "Comets", "Kim",
				starter("c qb", "QB", 40), starter("c wr", "WR", 20),
				benched("c wr2", []string{"WR"}, 30)),
			team("4", "Drakes", "Pat",
				starter("d qb", "QB", 30), starter("d wr", "WR", 10),
				benched("d flex", []string{"WR", "TE"}, 10)),
		},
		Results: []model.MatchupResult{
			matchup("Aces", 100, model.Win), matchup("Drakes", 40, model.Loss),
			matchup("Bears", 80, model.Win), matchup("Comets", 60, model.Loss),
		},
	}

	return &fakeSource{
		info: league.Info{
			ID:          "55555",
			Name:        "Test League",
			CurrentWeek: 3,
			Slots: roster.Slots{
				Counts: map[string]int{"QB": 1, "WR": 1, model.BenchSlot: 1},
			},
		},
		weeks: map[int]league.WeekData{1: week1, 2: week2},
	}
}

func tableByMetric(report *app.Report, metric season.Metric) app.MetricTable {
	for _, table := range report.Tables {
		if table.Metric == metric {
			return table
		}
	}
	return app.MetricTable{}
}

func TestRun(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	ctx := context.Background()

	Convey("Given a two week season", t, func() {
		svc := app.New(testSeason(), app.WithEvalWorkers(2))

		Convey("When the report runs on the default week", func() {
			report, err := svc.Run(ctx, "default")
			So(err, ShouldBeNil)

			Convey("Then the last completed week is chosen", func() {
				So(report.Week, ShouldEqual, 2)
				So(report.LeagueID, ShouldEqual, "55555")
				So(report.LeagueName, ShouldEqual, "Test League")
			})

			Convey("And teams come back in team id order", func() {
				So(report.Teams, ShouldResemble, []string{"Aces", "Bears", "Comets", "Drakes"})
				So(report.Managers, ShouldResemble, []string{"Sam", "Lee", "Kim", "Pat"})
			})

			Convey("And the score table ranks the chosen week with season averages", func() {
				score := tableByMetric(report, season.Score)
				So(score.Rows, ShouldHaveLength, 4)
				So(score.Rows[0].Team, ShouldEqual, "Aces")
				So(score.Rows[0].Rank, ShouldEqual, 1)
				So(score.Rows[0].Value, ShouldAlmostEqual, 100)
				So(score.Rows[0].SeasonAverage, ShouldAlmostEqual, 90)
				So(score.Rows[0].HasSeasonAverage, ShouldBeTrue)
				So(score.Rows[3].Team, ShouldEqual, "Drakes")
				So(score.TieCount, ShouldEqual, 0)
			})

			Convey("And the efficiency table ties the two perfect lineups for first", func() {
				efficiency := tableByMetric(report, season.Efficiency)
				So(efficiency.Rows[0].Team, ShouldEqual, "Aces")
				So(efficiency.Rows[0].Rank, ShouldEqual, 1)
				So(efficiency.Rows[1].Team, ShouldEqual, "Drakes")
				So(efficiency.Rows[1].Rank, ShouldEqual, 1)
				So(efficiency.TieForFirst, ShouldBeTrue)
				So(efficiency.NumTiedForFirst, ShouldEqual, 2)
				So(efficiency.TieCount, ShouldEqual, 2)
			})

			Convey("And the sub-optimal lineup scores its fraction of the best lineup", func() {
				efficiency := tableByMetric(report, season.Efficiency)
				So(efficiency.Rows[2].Team, ShouldEqual, "Bears")
				So(efficiency.Rows[2].Value, ShouldAlmostEqual, 0.8)
			})

			Convey("And the bench violation disqualifies without losing the season average", func() {
				efficiency := tableByMetric(report, season.Efficiency)
				So(efficiency.Rows[3].Team, ShouldEqual, "Comets")
				So(efficiency.Rows[3].Value, ShouldAlmostEqual, model.DisqualifiedEfficiency)
				// Week one was a valid 1.0; the disqualified week is skipped.
				So(efficiency.Rows[3].SeasonAverage, ShouldAlmostEqual, 1.0)
				So(efficiency.Rows[3].HasSeasonAverage, ShouldBeTrue)

				So(report.Weekly, ShouldHaveLength, 2)
				So(report.Weekly[1].Disqualifications, ShouldResemble, map[string]int{"Comets": 1})
			})

			Convey("And the disqualified week stays in the series as a placeholder", func() {
				series := report.Series[season.Efficiency]["Comets"]
				So(series, ShouldHaveLength, 2)
				So(series[0].Valid, ShouldBeTrue)
				So(series[1].Valid, ShouldBeFalse)
			})

			Convey("And the power table blends score, efficiency, and luck", func() {
				power := tableByMetric(report, season.PowerRank)
				So(power.Rows[0].Team, ShouldEqual, "Aces")
				So(power.Rows[0].Value, ShouldAlmostEqual, 4.0/3.0)
				So(power.Rows[1].Team, ShouldEqual, "Bears")
				So(power.Rows[2].Team, ShouldEqual, "Drakes")
				So(power.Rows[3].Team, ShouldEqual, "Comets")
			})

			Convey("And the luck table credits the win the score did not deserve", func() {
				luck := tableByMetric(report, season.Luck)
				So(luck.Rows[0].Team, ShouldEqual, "Bears")
				So(luck.Rows[0].Value, ShouldAlmostEqual, 1.0/3.0)
			})

			Convey("And position averages cover both weeks", func() {
				So(report.PositionAverages["Aces"]["QB"], ShouldAlmostEqual, 50)
				So(report.PositionAverages["Aces"]["WR"], ShouldAlmostEqual, 40)
			})
		})

		Convey("When an explicit completed week is chosen", func() {
			report, err := svc.Run(ctx, "1")

			Convey("Then only that week contributes", func() {
				So(err, ShouldBeNil)
				So(report.Week, ShouldEqual, 1)
				score := tableByMetric(report, season.Score)
				So(score.Rows[0].Team, ShouldEqual, "Bears")
				So(score.Rows[0].Value, ShouldAlmostEqual, 100)
			})
		})

		Convey("When an incomplete week is chosen without permission", func() {
			_, err := svc.Run(ctx, "3")

			Convey("Then the run is rejected", func() {
				So(errors.Is(err, app.ErrInvalidWeek), ShouldBeTrue)
			})
		})

		Convey("When the selection is not a week at all", func() {
			for _, chosen := range []string{"abc", "0", "25"} {
				_, err := svc.Run(ctx, chosen)
				So(errors.Is(err, app.ErrInvalidWeek), ShouldBeTrue)
			}
		})
	})

	Convey("Given permission to report on an incomplete week", t, func() {
		src := testSeason()
		src.weeks[3] = src.weeks[2]
		svc := app.New(src, app.WithAllowIncomplete(true))

		Convey("When the incomplete week is chosen", func() {
			report, err := svc.Run(ctx, "3")

			Convey("Then the run proceeds through it", func() {
				So(err, ShouldBeNil)
				So(report.Week, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a source missing a week the report needs", t, func() {
		src := testSeason()
		delete(src.weeks, 1)
		svc := app.New(src)

		Convey("When the report runs", func() {
			_, err := svc.Run(ctx, "2")

			Convey("Then the whole run aborts", func() {
				So(errors.Is(err, league.ErrWeekUnavailable), ShouldBeTrue)
			})
		})
	})
}
