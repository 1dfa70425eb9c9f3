package club_test

import (
	"testing"

	"github.com/okian/handball-elo/internal/domain/club"
	"github.com/okian/handball-elo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a tracker", t, func() {
		tr := club.NewTracker()
		p := model.PlayerID("JANE DOE")
		s1, s2 := model.Season("2022-2023"), model.Season("2023-2024")

		Convey("When a player plays mostly for one club", func() {
			tr.RecordAppearance(p, s1, "RIN")
			tr.RecordAppearance(p, s1, "RIN")
			tr.RecordAppearance(p, s1, "AAH")

			c, ok := tr.Dominant(p, s1)
			So(ok, ShouldBeTrue)
			So(c, ShouldEqual, model.ClubCode("RIN"))
			So(tr.Roster(s1, "RIN"), ShouldResemble, []model.PlayerID{p})
			So(tr.Roster(s1, "AAH"), ShouldBeEmpty)
		})

		Convey("When counts tie", func() {
			tr.RecordAppearance(p, s1, "AAH")
			tr.RecordAppearance(p, s1, "RIN")
			tr.RecordAppearance(p, s1, "RIN")
			tr.RecordAppearance(p, s1, "AAH")

			Convey("Then the most recently recorded club wins", func() {
				c, _ := tr.Dominant(p, s1)
				So(c, ShouldEqual, model.ClubCode("AAH"))
			})
		})

		Convey("When seasons differ", func() {
			for i := 0; i < 10; i++ {
				tr.RecordAppearance(p, s1, "RIN")
			}
			tr.RecordAppearance(p, s2, "GOG")

			Convey("Then each season is computed independently", func() {
				c, _ := tr.Dominant(p, s2)
				So(c, ShouldEqual, model.ClubCode("GOG"))
				So(tr.Clubs(p), ShouldResemble, map[model.Season]model.ClubCode{s1: "RIN", s2: "GOG"})
			})
		})

		Convey("When nothing was recorded", func() {
			_, ok := tr.Dominant(p, s1)
			So(ok, ShouldBeFalse)
			tr.RecordAppearance(p, s1, "")
			_, ok = tr.Dominant(p, s1)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a tracker with a roster threshold", t, func() {
		tr := club.NewTracker(club.WithMinAppearances(2))
		s := model.Season("2023-2024")
		tr.RecordAppearance("B", s, "RIN")
		tr.RecordAppearance("B", s, "RIN")
		tr.RecordAppearance("A", s, "RIN")
		tr.RecordAppearance("A", s, "RIN")
		tr.RecordAppearance("C", s, "RIN")

		So(tr.Roster(s, "RIN"), ShouldResemble, []model.PlayerID{"A", "B"})
		So(tr.Roster(s, "AAH"), ShouldBeEmpty)
	})
}
