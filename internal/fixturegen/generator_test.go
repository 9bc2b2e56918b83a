package fixturegen_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridironlab/leaguemetrics/internal/adapters/conductfeed"
	"github.com/gridironlab/leaguemetrics/internal/adapters/league"
	"github.com/gridironlab/leaguemetrics/internal/domain/roster"
	"github.com/gridironlab/leaguemetrics/internal/fixturegen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a fixed seed", t, func() {
		Convey("When two fixtures are generated", func() {
			first, err := fixturegen.Generate(fixturegen.WithSeed(7))
			So(err, ShouldBeNil)
			second, err := fixturegen.Generate(fixturegen.WithSeed(7))
			So(err, ShouldBeNil)

			Convey("Then the outputs are identical byte for byte", func() {
				So(string(second.League), ShouldEqual, string(first.League))
				So(string(second.Severity), ShouldEqual, string(first.Severity))
				So(string(second.Incidents), ShouldEqual, string(first.Incidents))
			})
		})

		Convey("When the seed changes", func() {
			first, err := fixturegen.Generate(fixturegen.WithSeed(7))
			So(err, ShouldBeNil)
			other, err := fixturegen.Generate(fixturegen.WithSeed(8))
			So(err, ShouldBeNil)

			Convey("Then the fixtures differ", func() {
				So(string(other.League), ShouldNotEqual, string(first.League))
			})
		})
	})

	Convey("Given an odd team count", t, func() {
		out, err := fixturegen.Generate(fixturegen.WithTeams(7), fixturegen.WithWeeks(2), fixturegen.WithSeed(1))
		So(err, ShouldBeNil)

		Convey("Then the league rounds up so every team has an opponent", func() {
			src := loadFixture(t, out)
			info, err := src.League(context.Background())
			So(err, ShouldBeNil)

			data, err := src.Week(context.Background(), 1)
			So(err, ShouldBeNil)
			So(data.Teams, ShouldHaveLength, 8)
			So(data.Results, ShouldHaveLength, 8)
			So(info.CurrentWeek, ShouldEqual, 3)
		})
	})

	Convey("Given a generated season", t, func() {
		out, err := fixturegen.Generate(fixturegen.WithTeams(4), fixturegen.WithWeeks(3), fixturegen.WithSeed(99))
		So(err, ShouldBeNil)
		src := loadFixture(t, out)
		ctx := context.Background()

		Convey("When the league adapter reads it back", func() {
			info, err := src.League(ctx)
			So(err, ShouldBeNil)

			Convey("Then the roster shape normalizes to one flex slot", func() {
				So(info.Slots.Counts[roster.FlexSlot], ShouldEqual, 1)
				So(info.Slots.Counts["QB"], ShouldEqual, 1)
				So(info.Slots.Counts["WR"], ShouldEqual, 2)
				So(info.Slots.FlexPositions, ShouldResemble, []string{"WR", "RB", "TE"})
			})

			Convey("And the standings cover every team", func() {
				So(info.Standings, ShouldHaveLength, 4)
				So(info.Standings[0].Rank, ShouldEqual, 1)
			})

			Convey("And every generated week is servable", func() {
				for week := 1; week <= 3; week++ {
					data, err := src.Week(ctx, week)
					So(err, ShouldBeNil)
					So(data.Teams, ShouldHaveLength, 4)
				}
			})

			Convey("And matchup scores match the started lineups", func() {
				data, err := src.Week(ctx, 1)
				So(err, ShouldBeNil)
				totals := make(map[string]float64)
				for _, team := range data.Teams {
					for _, p := range team.Players {
						if !p.Benched() {
							totals[team.Name] += p.FantasyPoints
						}
					}
				}
				for _, result := range data.Results {
					So(result.Score, ShouldAlmostEqual, totals[result.Team], 0.01)
				}
			})
		})

		Convey("When the conduct files are loaded", func() {
			dir := t.TempDir()
			severityPath := filepath.Join(dir, "severity.csv")
			incidentsPath := filepath.Join(dir, "incidents.csv")
			So(os.WriteFile(severityPath, out.Severity, 0o600), ShouldBeNil)
			So(os.WriteFile(incidentsPath, out.Incidents, 0o600), ShouldBeNil)

			severity, err := conductfeed.LoadSeverityTable(severityPath)
			So(err, ShouldBeNil)
			incidents, err := conductfeed.LoadIncidents(incidentsPath)
			So(err, ShouldBeNil)

			Convey("Then every incident category is in the severity table", func() {
				known := make(map[string]struct{}, len(severity))
				for _, row := range severity {
					known[row.Category] = struct{}{}
				}
				So(incidents, ShouldNotBeEmpty)
				for _, incident := range incidents {
					_, ok := known[incident.Categories]
					So(ok, ShouldBeTrue)
				}
			})
		})
	})
}

func loadFixture(t *testing.T, out fixturegen.Output) *league.FileSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "league.yaml")
	if err := os.WriteFile(path, out.League, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src, err := league.NewFileSource(context.Background(), path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return src
}
