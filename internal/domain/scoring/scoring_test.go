package scoring_test

import (
	"testing"

	"github.com/okian/handball-elo/internal/domain/attribution"
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	shooter = model.Actor{Number: "9", Name: "Ann Berg"}
	keeper  = model.Actor{Number: "1", Name: "Anna Smith"}
	helper  = model.Actor{Number: "7", Name: "Jane Doe"}
)

func attribute(m *model.Match) []attribution.AttributedEvent {
	a, err := attribution.NewAttributor()
	So(err, ShouldBeNil)
	out := make([]attribution.AttributedEvent, 0, len(m.Events))
	for _, ev := range m.Events {
		ae, err := a.Attribute(ev, m)
		So(err, ShouldBeNil)
		out = append(out, ae)
	}
	return out
}

func ev(raw string, team model.ClubCode) model.Event {
	return model.Event{RawType: raw, Type: model.ParseEventType(raw), TeamCode: team}
}

func snapshotFor(m *model.Match, events []attribution.AttributedEvent, ratings map[string]float64) *scoring.Snapshot {
	snap := scoring.NewSnapshot()
	for _, e := range scoring.Entities(m, events, nil) {
		r, ok := ratings[e.ID]
		if !ok {
			r = 1200
		}
		snap.Put(e, r)
	}
	return snap
}

func deltaOf(res scoring.Result, id string) float64 {
	for _, d := range res.Deltas {
		if d.Entity.ID == id {
			return d.Value
		}
	}
	return 0
}

func goalAgainst() model.Event {
	e := ev("Mål", "RIN")
	e.Primary = shooter
	e.Goalkeeper = keeper
	return e
}

func TestCompute(t *testing.T) {
	Convey("Given the default updater", t, func() {
		u := scoring.NewEloUpdater()
		m := &model.Match{ID: "m1", HomeCode: "RIN", AwayCode: "AAH"}

		Convey("When a goal is scored against goalkeepers of different strength", func() {
			m.Events = []model.Event{goalAgainst()}
			events := attribute(m)

			strong := u.Compute(m, events, snapshotFor(m, events, map[string]float64{"ANN BERG": 1200, "ANNA SMITH": 1600}))
			weak := u.Compute(m, events, snapshotFor(m, events, map[string]float64{"ANN BERG": 1200, "ANNA SMITH": 1000}))

			Convey("Then the strong goalkeeper yields the larger delta", func() {
				So(deltaOf(strong, "ANN BERG"), ShouldBeGreaterThan, deltaOf(weak, "ANN BERG"))
				So(deltaOf(strong, "ANN BERG"), ShouldAlmostEqual, 8*(1-scoring.Expected(1200, 1600))*1.7, 1e-9)
			})

			Convey("Then the goalkeeper loses rating", func() {
				So(deltaOf(strong, "ANNA SMITH"), ShouldBeLessThan, 0)
				So(deltaOf(strong, "ANNA SMITH"), ShouldAlmostEqual, -6*1.2*(1-scoring.Expected(1200, 1600))*1.7, 1e-9)
				So(strong.Stats.Duels, ShouldEqual, 1)
			})
		})

		Convey("When a goal is saved", func() {
			e := ev("Skud reddet", "RIN")
			e.Primary = shooter
			e.Goalkeeper = keeper
			m.Events = []model.Event{e}
			events := attribute(m)
			res := u.Compute(m, events, snapshotFor(m, events, nil))

			So(deltaOf(res, "ANN BERG"), ShouldBeLessThan, 0)
			So(deltaOf(res, "ANNA SMITH"), ShouldBeGreaterThan, 0)
		})

		Convey("When only administrative and card events occur", func() {
			card := ev("Udvisning", "AAH")
			card.Primary = helper
			m.Events = []model.Event{ev("Start 1:e halvleg", ""), ev("Time out", "RIN"), card, ev("Halvleg", "")}
			events := attribute(m)
			res := u.Compute(m, events, snapshotFor(m, events, nil))

			So(res.Deltas, ShouldBeEmpty)
			So(res.Stats.ZeroDelta, ShouldEqual, 4)
			So(res.Stats.Rated, ShouldEqual, 0)
		})

		Convey("When a field goal has an assist and no goalkeeper", func() {
			e := ev("Mål", "RIN")
			e.Primary = shooter
			e.Position = "PL"
			e.SecondaryType = "Assist"
			e.Secondary = helper
			m.Events = []model.Event{e}
			events := attribute(m)
			res := u.Compute(m, events, snapshotFor(m, events, nil))

			So(deltaOf(res, "ANN BERG"), ShouldAlmostEqual, 8*0.65*0.65*1.7, 1e-9)
			So(deltaOf(res, "JANE DOE"), ShouldAlmostEqual, 8*1.0*0.55*1.7, 1e-9)
		})

		Convey("When a steal is credited to the opponent", func() {
			e := ev("Tabt bold", "RIN")
			e.Primary = shooter
			e.SecondaryType = "Bold erobret"
			e.Secondary = helper
			m.Events = []model.Event{e}
			events := attribute(m)
			res := u.Compute(m, events, snapshotFor(m, events, nil))

			So(deltaOf(res, "ANN BERG"), ShouldBeLessThan, 0)
			So(deltaOf(res, "JANE DOE"), ShouldBeGreaterThan, 0)
		})

		Convey("When the same player scores twice", func() {
			m.Events = []model.Event{goalAgainst()}
			one := attribute(m)
			single := u.Compute(m, one, snapshotFor(m, one, nil))

			m.Events = []model.Event{goalAgainst(), goalAgainst()}
			two := attribute(m)
			double := u.Compute(m, two, snapshotFor(m, two, nil))

			Convey("Then both goals are rated against the match-start snapshot", func() {
				So(deltaOf(double, "ANN BERG"), ShouldAlmostEqual, 2*deltaOf(single, "ANN BERG"), 1e-9)
			})
		})

		Convey("When the running score becomes a blowout", func() {
			first := goalAgainst()
			first.Score = "11-0"
			m.Events = []model.Event{first}
			one := attribute(m)
			tied := deltaOf(u.Compute(m, one, snapshotFor(m, one, nil)), "ANN BERG")

			m.Events = []model.Event{first, goalAgainst()}
			two := attribute(m)
			total := deltaOf(u.Compute(m, two, snapshotFor(m, two, nil)), "ANN BERG")

			So(total-tied, ShouldAlmostEqual, tied*0.65/1.7, 1e-9)
		})

		Convey("When the match has a final score", func() {
			m.FinalScore = "30-25"
			m.Events = nil
			res := u.Compute(m, nil, snapshotFor(m, nil, map[string]float64{"RIN": 1350, "AAH": 1350}))

			home := deltaOf(res, "RIN")
			So(home, ShouldAlmostEqual, 14*(1-scoring.Expected(1375, 1350)), 1e-9)
			So(deltaOf(res, "AAH"), ShouldEqual, -home)
		})

		Convey("When computing twice", func() {
			e := ev("Mål", "RIN")
			e.Primary = shooter
			e.SecondaryType = "Assist"
			e.Secondary = helper
			m.Events = []model.Event{goalAgainst(), e, goalAgainst()}
			m.FinalScore = "2-1"
			events := attribute(m)
			snap := snapshotFor(m, events, map[string]float64{"ANNA SMITH": 1310})

			So(u.Compute(m, events, snap), ShouldResemble, u.Compute(m, events, snap))
		})
	})
}

func TestLimits(t *testing.T) {
	Convey("Given updaters with limits", t, func() {
		m := &model.Match{ID: "m1", HomeCode: "RIN", AwayCode: "AAH", Events: []model.Event{goalAgainst()}}

		Convey("When the per-event cap is low", func() {
			u := scoring.NewEloUpdater(scoring.WithMaxEventDelta(1))
			events := attribute(m)
			res := u.Compute(m, events, snapshotFor(m, events, nil))

			So(deltaOf(res, "ANN BERG"), ShouldEqual, 1)
			So(res.Stats.Capped, ShouldBeGreaterThan, 0)
		})

		Convey("When the scorer is already elite", func() {
			u := scoring.NewEloUpdater(scoring.WithMaxEventDelta(0))
			events := attribute(m)
			base := deltaOf(u.Compute(m, events, snapshotFor(m, events, map[string]float64{"ANN BERG": 1500, "ANNA SMITH": 1500})), "ANN BERG")
			elite := deltaOf(u.Compute(m, events, snapshotFor(m, events, map[string]float64{"ANN BERG": 2200, "ANNA SMITH": 2200})), "ANN BERG")

			So(elite, ShouldAlmostEqual, base*0.3, 1e-9)
		})

		Convey("When K-factors and weights are overridden", func() {
			u := scoring.NewEloUpdater(
				scoring.WithKFactors(16, 0, 0),
				scoring.WithActionWeights(map[string]float64{"Mål": 100, "Ukendt": 5}),
				scoring.WithPositionMultipliers(map[string]float64{"PL": 2}),
				scoring.WithScoreBands([]scoring.ScoreBand{{MaxDiff: 100, Multiplier: 1}}, 1),
				scoring.WithMaxEventDelta(0),
			)
			e := ev("Mål", "RIN")
			e.Primary = shooter
			e.Position = "PL"
			m.Events = []model.Event{e}
			events := attribute(m)
			res := u.Compute(m, events, snapshotFor(m, events, nil))

			So(deltaOf(res, "ANN BERG"), ShouldAlmostEqual, 16*2*1.0, 1e-9)
		})
	})
}

func TestEntities(t *testing.T) {
	Convey("Given a match with players and goalkeepers", t, func() {
		m := &model.Match{ID: "m1", HomeCode: "RIN", AwayCode: "AAH"}
		e := goalAgainst()
		e.SecondaryType = "Assist"
		e.Secondary = helper
		m.Events = []model.Event{e}
		events := attribute(m)

		got := scoring.Entities(m, events, model.NewAliases(map[string]string{"Jane Doe": "J Doe"}))

		So(got, ShouldResemble, []model.EntityRef{
			model.TeamRef("RIN"),
			model.TeamRef("AAH"),
			model.PlayerRef("ANN BERG"),
			model.GoalkeeperRef("ANNA SMITH"),
			model.PlayerRef("J DOE"),
		})
	})
}
