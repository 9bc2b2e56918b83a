package luck_test

import (
	"testing"

	"github.com/gridironlab/leaguemetrics/internal/domain/luck"
	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluate(t *testing.T) {
	Convey("Given a four team week where the top scorer loses and the bottom scorer wins", t, func() {
		results := []model.MatchupResult{
			{Team: "Aces", Score: 140, Result: model.Loss},
			{Team: "Bears", Score: 150, Result: model.Win},
			{Team: "Comets", Score: 90, Result: model.Win},
			{Team: "Drakes", Score: 80, Result: model.Loss},
		}

		Convey("When luck is evaluated", func() {
			indices := luck.Evaluate(results)

			Convey("Then the loser that out-scored most opponents goes strongly negative", func() {
				So(indices["Aces"], ShouldAlmostEqual, -2.0/3.0)
			})

			Convey("And the winner that most opponents out-scored goes strongly positive", func() {
				So(indices["Comets"], ShouldAlmostEqual, 2.0/3.0)
			})

			Convey("And the deserved outcomes stay near zero", func() {
				So(indices["Bears"], ShouldAlmostEqual, 0)
				So(indices["Drakes"], ShouldAlmostEqual, 0)
			})
		})
	})

	Convey("Given a team that wins while every opponent out-scores it", t, func() {
		results := []model.MatchupResult{
			{Team: "Aces", Score: 70, Result: model.Win},
			{Team: "Bears", Score: 100, Result: model.Loss},
			{Team: "Comets", Score: 110, Result: model.Loss},
			{Team: "Drakes", Score: 120, Result: model.Loss},
		}

		Convey("When luck is evaluated", func() {
			indices := luck.Evaluate(results)

			Convey("Then its index is the maximum +1", func() {
				So(indices["Aces"], ShouldAlmostEqual, 1)
			})
		})
	})

	Convey("Given a team that loses while out-scoring every opponent", t, func() {
		results := []model.MatchupResult{
			{Team: "Aces", Score: 130, Result: model.Loss},
			{Team: "Bears", Score: 100, Result: model.Win},
			{Team: "Comets", Score: 90, Result: model.Win},
			{Team: "Drakes", Score: 80, Result: model.Loss},
		}

		Convey("When luck is evaluated", func() {
			indices := luck.Evaluate(results)

			Convey("Then its index is the minimum -1", func() {
				So(indices["Aces"], ShouldAlmostEqual, -1)
			})
		})
	})

	Convey("Given a head-to-head tie", t, func() {
		results := []model.MatchupResult{
			{Team: "Aces", Score: 100, Result: model.Tie},
			{Team: "Bears", Score: 100, Result: model.Tie},
			{Team: "Comets", Score: 90, Result: model.Win},
			{Team: "Drakes", Score: 80, Result: model.Loss},
		}

		Convey("When luck is evaluated", func() {
			indices := luck.Evaluate(results)

			Convey("Then both tied teams get a zero index", func() {
				So(indices["Aces"], ShouldAlmostEqual, 0)
				So(indices["Bears"], ShouldAlmostEqual, 0)
			})
		})
	})

	Convey("Given fewer than two matchup results", t, func() {
		Convey("When luck is evaluated", func() {
			indices := luck.Evaluate([]model.MatchupResult{{Team: "Aces", Score: 100, Result: model.Win}})

			Convey("Then the lone team gets a zero index", func() {
				So(indices, ShouldHaveLength, 1)
				So(indices["Aces"], ShouldAlmostEqual, 0)
			})
		})
	})
}
