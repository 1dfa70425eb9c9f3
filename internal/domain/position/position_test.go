package position_test

import (
	"testing"

	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/position"
	. "github.com/smartystreets/goconvey/convey"
)

func record(c *position.Classifier, p model.PlayerID, code string, n int) {
	for i := 0; i < n; i++ {
		c.RecordAction(p, code)
	}
}

func TestClassifier(t *testing.T) {
	Convey("Given a classifier", t, func() {
		c := position.NewClassifier()
		p := model.PlayerID("JANE DOE")

		Convey("When a player has mixed counts", func() {
			record(c, p, "ST", 5)
			record(c, p, "PL", 12)
			record(c, p, "VB", 3)

			Convey("Then the highest count wins", func() {
				pos, ok := c.Dominant(p)
				So(ok, ShouldBeTrue)
				So(pos, ShouldEqual, position.Playmaker)
			})

			Convey("Then repeated reads agree", func() {
				a, _ := c.Dominant(p)
				b, _ := c.Dominant(p)
				So(a, ShouldEqual, b)
			})
		})

		Convey("When counts tie", func() {
			record(c, p, "ST", 4)
			record(c, p, "HF", 4)
			record(c, p, "VF", 4)

			Convey("Then the earliest enumerated position wins regardless of data order", func() {
				pos, _ := c.Dominant(p)
				So(pos, ShouldEqual, position.LeftWing)
			})
		})

		Convey("When a player appears in a goalkeeper slot", func() {
			record(c, p, "PL", 3)
			c.RecordGoalkeeper(p)

			pos, ok := c.Dominant(p)
			So(ok, ShouldBeTrue)
			So(pos, ShouldEqual, position.Goalkeeper)
			So(c.IsGoalkeeper(p), ShouldBeTrue)
		})

		Convey("When only situational codes are seen", func() {
			So(c.RecordAction(p, "Gbr"), ShouldBeFalse)
			So(c.RecordAction(p, "1:e"), ShouldBeFalse)

			_, ok := c.Dominant(p)
			So(ok, ShouldBeFalse)
		})

		Convey("When a player is unknown", func() {
			pos, ok := c.Dominant("NOBODY")
			So(ok, ShouldBeFalse)
			So(pos, ShouldEqual, position.Unknown)
			So(c.Counts("NOBODY"), ShouldBeNil)
		})

		Convey("When reading counts", func() {
			record(c, p, "pl", 2)
			c.RecordGoalkeeper(p)
			So(c.Counts(p), ShouldResemble, map[position.Position]int{position.Playmaker: 2, position.Goalkeeper: 1})
			So(c.Players(), ShouldEqual, 1)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given raw position codes", t, func() {
		for code, want := range map[string]position.Position{
			"VF": position.LeftWing, "VB": position.LeftBack, "PL": position.Playmaker,
			"HB": position.RightBack, "HF": position.RightWing, "ST": position.Pivot, "MV": position.Goalkeeper,
		} {
			got, ok := position.Parse(code)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
			So(got.Code(), ShouldEqual, code)
		}
		_, ok := position.Parse("Udsk.")
		So(ok, ShouldBeFalse)
	})
}
