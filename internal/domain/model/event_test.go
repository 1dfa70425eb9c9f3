package model_test

import (
	"testing"

	model "github.com/okian/handball-elo/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventType(t *testing.T) {
	convey.Convey("Given raw event labels", t, func() {
		convey.Convey("When parsing known labels", func() {
			convey.So(model.ParseEventType("Mål"), convey.ShouldEqual, model.EventGoal)
			convey.So(model.ParseEventType(" Skud reddet "), convey.ShouldEqual, model.EventShotSaved)
			convey.So(model.ParseEventType("Forårs. str."), convey.ShouldEqual, model.EventPenaltyCaused)
		})

		convey.Convey("When parsing an unknown label", func() {
			et := model.ParseEventType("Dommerkast")
			convey.So(et, convey.ShouldEqual, model.EventUnrecognized)
			convey.So(et.Category(), convey.ShouldEqual, model.CategoryUnknown)
			convey.So(et.String(), convey.ShouldEqual, "unrecognized")
		})

		convey.Convey("Then only shot types are goal-relevant", func() {
			convey.So(model.EventGoal.IsGoalRelevant(), convey.ShouldBeTrue)
			convey.So(model.EventPenaltyMissed.IsGoalRelevant(), convey.ShouldBeTrue)
			convey.So(model.EventAssist.IsGoalRelevant(), convey.ShouldBeFalse)
			convey.So(model.EventHalfTime.IsGoalRelevant(), convey.ShouldBeFalse)
		})

		convey.Convey("Then every label round-trips", func() {
			for _, raw := range []string{"Mål på straffe", "Blok af (ret)", "Rødt kort, direkte", "Video Proof slut"} {
				convey.So(model.ParseEventType(raw).String(), convey.ShouldEqual, raw)
			}
		})
	})
}

func TestNormalizeActor(t *testing.T) {
	convey.Convey("Given raw actor slots", t, func() {
		convey.Convey("When the number is 0 and the name empty", func() {
			convey.So(model.NormalizeActor("0", ""), convey.ShouldResemble, model.Actor{})
			convey.So(model.NormalizeActor("0", "").IsAbsent(), convey.ShouldBeTrue)
		})

		convey.Convey("When placeholders are used", func() {
			convey.So(model.NormalizeActor("nan", "nan").IsAbsent(), convey.ShouldBeTrue)
			convey.So(model.NormalizeActor("", "None").IsAbsent(), convey.ShouldBeTrue)
		})

		convey.Convey("When a real player is present", func() {
			a := model.NormalizeActor(" 7 ", " Jane Doe ")
			convey.So(a, convey.ShouldResemble, model.Actor{Number: "7", Name: "Jane Doe"})
		})

		convey.Convey("When only the number is zero", func() {
			a := model.NormalizeActor("0", "Jane Doe")
			convey.So(a.Number, convey.ShouldEqual, "")
			convey.So(a.Name, convey.ShouldEqual, "Jane Doe")
		})
	})
}

func TestEventNormalized(t *testing.T) {
	convey.Convey("Given an event with a raw type and placeholder slots", t, func() {
		e := model.Event{
			RawType:    "Mål",
			TeamCode:   " RIN ",
			Primary:    model.Actor{Number: "0", Name: ""},
			Secondary:  model.Actor{Number: "7", Name: "Jane Doe"},
			Goalkeeper: model.Actor{Number: "nan", Name: "nan"},
		}

		n := e.Normalized()

		convey.So(n.Type, convey.ShouldEqual, model.EventGoal)
		convey.So(n.TeamCode, convey.ShouldEqual, model.ClubCode("RIN"))
		convey.So(n.Primary.IsAbsent(), convey.ShouldBeTrue)
		convey.So(n.Secondary.IsAbsent(), convey.ShouldBeFalse)
		convey.So(n.Goalkeeper.IsAbsent(), convey.ShouldBeTrue)
	})
}
