package carryover_test

import (
	"errors"
	"testing"

	"github.com/okian/handball-elo/internal/domain/carryover"
	"github.com/okian/handball-elo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedDefaults map[model.EntityKind]float64

func (d fixedDefaults) Default(k model.EntityKind) float64 { return d[k] }

var defaults = fixedDefaults{model.KindPlayer: 1200, model.KindGoalkeeper: 1250, model.KindTeam: 1350}

func TestInitialRating(t *testing.T) {
	Convey("Given a calculator with default weights", t, func() {
		c, err := carryover.NewCalculator(defaults)
		So(err, ShouldBeNil)
		p := model.PlayerRef("JANE DOE")
		gk := model.GoalkeeperRef("ANNA SMITH")

		Convey("When an entity has no history", func() {
			v, src := c.InitialRating(p, "2023-2024")
			So(v, ShouldEqual, 1200)
			So(src, ShouldEqual, carryover.SourceDefault)

			v, _ = c.InitialRating(gk, "2023-2024")
			So(v, ShouldEqual, 1250)
		})

		Convey("When the prior season was frozen", func() {
			So(c.Freeze("2022-2023", map[string]carryover.Final{
				p.Key(): {Season: 1400, Aggregate: 1300},
			}), ShouldBeNil)

			v, src := c.InitialRating(p, "2023-2024")
			So(v, ShouldAlmostEqual, 1400*0.8+1300*0.2, 1e-9)
			So(src, ShouldEqual, carryover.SourceBlend)

			Convey("Then repeated calls return the same value", func() {
				again, _ := c.InitialRating(p, "2023-2024")
				So(again, ShouldEqual, v)
			})

			Convey("Then the frozen season itself is not its own prior", func() {
				v, src := c.InitialRating(p, "2022-2023")
				So(v, ShouldEqual, 1200)
				So(src, ShouldEqual, carryover.SourceDefault)
			})

			Convey("Then freezing twice is rejected", func() {
				err := c.Freeze("2022-2023", nil)
				So(errors.Is(err, carryover.ErrAlreadyFrozen), ShouldBeTrue)
			})
		})

		Convey("When a player skipped a season", func() {
			So(c.Freeze("2020-2021", map[string]carryover.Final{p.Key(): {Season: 1500, Aggregate: 1500}}), ShouldBeNil)
			So(c.Freeze("2021-2022", map[string]carryover.Final{}), ShouldBeNil)

			Convey("Then the latest season with a rating is used", func() {
				s, f, ok := c.Prior(p, "2022-2023")
				So(ok, ShouldBeTrue)
				So(s, ShouldEqual, model.Season("2020-2021"))
				So(f.Season, ShouldEqual, 1500)
			})
		})

		Convey("When seasons are frozen out of label order", func() {
			So(c.Freeze("2021-2022", map[string]carryover.Final{p.Key(): {Season: 1600, Aggregate: 1600}}), ShouldBeNil)
			So(c.Freeze("2019-2020", map[string]carryover.Final{p.Key(): {Season: 1000, Aggregate: 1000}}), ShouldBeNil)

			v, _ := c.InitialRating(p, "2022-2023")
			So(v, ShouldAlmostEqual, 1600, 1e-9)
		})
	})
}

func TestWeights(t *testing.T) {
	Convey("Given weight configurations", t, func() {
		_, err := carryover.NewCalculator(defaults, carryover.WithWeights(0.7, 0.3))
		So(err, ShouldBeNil)

		_, err = carryover.NewCalculator(defaults, carryover.WithWeights(0.7, 0.2))
		So(errors.Is(err, carryover.ErrInvalidWeights), ShouldBeTrue)

		_, err = carryover.NewCalculator(defaults, carryover.WithWeights(1.2, -0.2))
		So(errors.Is(err, carryover.ErrInvalidWeights), ShouldBeTrue)

		_, err = carryover.NewCalculator(nil)
		So(errors.Is(err, carryover.ErrInvalidWeights), ShouldBeTrue)

		Convey("When the aggregate weight is 1", func() {
			c, err := carryover.NewCalculator(defaults, carryover.WithWeights(0, 1))
			So(err, ShouldBeNil)
			p := model.PlayerRef("X")
			So(c.Freeze("2022-2023", map[string]carryover.Final{p.Key(): {Season: 1400, Aggregate: 1333}}), ShouldBeNil)
			v, _ := c.InitialRating(p, "2023-2024")
			So(v, ShouldEqual, 1333)
		})
	})
}
