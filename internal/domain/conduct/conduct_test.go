package conduct_test

import (
	"context"
	"testing"

	"github.com/gridironlab/leaguemetrics/internal/domain/conduct"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIndexScoring(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	severity := []conduct.CategoryPoints{
		{Category: "DUI", Points: 5},
		{Category: "ASSAULT", Points: 10},
	}

	Convey("Given one player with a multi-category incident", t, func() {
		incidents := []conduct.Incident{
			{Name: "J. Doe", Team: "GB", Position: "WR", CaseID: "case-1", Categories: "DUI,ASSAULT"},
		}
		index := conduct.NewIndex(context.Background(), severity, incidents)

		Convey("When scoring the player", func() {
			points, worst := index.Score("J. Doe", "GB", "WR")

			Convey("Then points accumulate across categories and the worst label wins", func() {
				So(points, ShouldEqual, 15)
				So(worst, ShouldEqual, "ASSAULT")
			})
		})

		Convey("When scoring an unknown player", func() {
			points, worst := index.Score("Nobody", "KC", "QB")

			Convey("Then the lookup returns zero without error", func() {
				So(points, ShouldEqual, 0)
				So(worst, ShouldEqual, "")
			})
		})
	})

	Convey("Given a defensive player's incident", t, func() {
		incidents := []conduct.Incident{
			{Name: "A. Tackler", Team: "Packers", Position: "LB", CaseID: "case-2", Categories: "DUI"},
		}
		index := conduct.NewIndex(context.Background(), severity, incidents)

		Convey("Then the player and the team defense both carry the points", func() {
			playerPoints, _ := index.Score("A. Tackler", "Packers", "LB")
			So(playerPoints, ShouldEqual, 5)

			teamPoints, worst := index.Score("Packers D/ST", "Packers", "DEF")
			So(teamPoints, ShouldEqual, 5)
			So(worst, ShouldEqual, "DUI")
		})

		Convey("And the defense lookup matches regardless of spelling", func() {
			points, _ := index.Score("Packers D/ST", " PACKERS ", "DEF")
			So(points, ShouldEqual, 5)
			points, _ = index.Score("Packers D/ST", "packers", "DEF")
			So(points, ShouldEqual, 5)
		})

		Convey("And a non-defensive slot never reads the team bucket", func() {
			points, _ := index.Score("Packers", "Packers", "WR")
			So(points, ShouldEqual, 0)
		})
	})

	Convey("Given repeat incidents for the same player and category", t, func() {
		incidents := []conduct.Incident{
			{Name: "R. Peat", Team: "DAL", Position: "QB", Categories: "DUI"},
			{Name: "R. Peat", Team: "DAL", Position: "QB", Categories: "DUI"},
			{Name: "R. Peat", Team: "DAL", Position: "QB", Categories: "ASSAULT"},
		}
		index := conduct.NewIndex(context.Background(), severity, incidents)

		Convey("Then points add up and the single largest contribution sets the label", func() {
			points, worst := index.Score("R. Peat", "DAL", "QB")
			So(points, ShouldEqual, 20)
			So(worst, ShouldEqual, "ASSAULT")
		})
	})

	Convey("Given accumulation split into two batches", t, func() {
		batch1 := []conduct.Incident{{Name: "S. Plit", Team: "SF", Position: "TE", Categories: "DUI"}}
		batch2 := []conduct.Incident{{Name: "S. Plit", Team: "SF", Position: "TE", Categories: "ASSAULT"}}

		whole := conduct.NewIndex(context.Background(), severity, append(append([]conduct.Incident{}, batch1...), batch2...))
		first := conduct.NewIndex(context.Background(), severity, batch1)
		second := conduct.NewIndex(context.Background(), severity, batch2)

		Convey("Then batch totals sum to the whole", func() {
			wholePoints, _ := whole.Score("S. Plit", "SF", "TE")
			p1, _ := first.Score("S. Plit", "SF", "TE")
			p2, _ := second.Score("S. Plit", "SF", "TE")
			So(wholePoints, ShouldEqual, p1+p2)
		})
	})

	Convey("Given messy category labels in the severity table and incidents", t, func() {
		messy := []conduct.CategoryPoints{{Category: ` "dui" `, Points: 5}}
		incidents := []conduct.Incident{
			{Name: "N. Ormalize", Team: "MIA", Position: "K", Categories: " dui "},
		}
		index := conduct.NewIndex(context.Background(), messy, incidents)

		Convey("Then case, whitespace, and quotes are normalized before matching", func() {
			points, worst := index.Score("N. Ormalize", "MIA", "K")
			So(points, ShouldEqual, 5)
			So(worst, ShouldEqual, "DUI")
		})
	})

	Convey("Given an incident with an unrecognized category", t, func() {
		incidents := []conduct.Incident{
			{Name: "U. Known", Team: "BUF", Position: "WR", Categories: "JAYWALKING,DUI"},
		}
		index := conduct.NewIndex(context.Background(), severity, incidents)

		Convey("Then the unknown category contributes zero and is reported", func() {
			points, _ := index.Score("U. Known", "BUF", "WR")
			So(points, ShouldEqual, 5)
			So(index.UnknownCategories(), ShouldResemble, []string{"JAYWALKING"})
		})
	})
}
