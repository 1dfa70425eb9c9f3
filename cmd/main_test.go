package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/handball-elo/internal/adapters/repository"
	service "github.com/okian/handball-elo/internal/app"
	"github.com/okian/handball-elo/internal/config"
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/types"
	"github.com/okian/handball-elo/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func writeLeague(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "herreligaen", "2023-2024")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i, date := range []string{"01-09-2023", "08-09-2023"} {
		doc := fmt.Sprintf(`{
  "match_info": {"kamp_id": "%d", "hold_hjemme": "Ringkøbing Håndbold", "hold_ude": "Aalborg Håndbold", "resultat": "1-0", "dato": %q},
  "match_events": [
    {"tid": "1.00", "maal": "1-0", "hold": "RIN", "haendelse_1": "Mål", "pos": "ST", "nr_1": 9, "navn_1": "Ann Berg", "nr_mv": 1, "mv": "Anna Smith"},
    {"tid": "2.00", "hold": "AAH", "haendelse_1": "Udvisning", "nr_1": 4, "navn_1": "Bo Lund"}
  ]
}`, i+1, date)
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.json", i+1)), []byte(doc), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given a data directory with one league", t, func() {
		root := t.TempDir()
		writeLeague(t, root)
		out := filepath.Join(t.TempDir(), "reports", "ratings.json")
		t.Setenv("HBELO_CONFIG", "")
		t.Setenv("HBELO_DATA_DIR", root)
		t.Setenv("HBELO_OUTPUT", out)
		t.Setenv("HBELO_WORKER_COUNT", "2")

		convey.Convey("When the run completes", func() {
			code := run(context.Background(), io.Discard, io.Discard)

			convey.Convey("Then the report is written to the output file", func() {
				convey.So(code, convey.ShouldEqual, exitOK)

				b, err := os.ReadFile(out)
				convey.So(err, convey.ShouldBeNil)
				var rep types.Report
				convey.So(json.Unmarshal(b, &rep), convey.ShouldBeNil)
				convey.So(rep.Leagues, convey.ShouldHaveLength, 1)

				league := rep.Leagues[0]
				convey.So(league.League, convey.ShouldEqual, "herreligaen")
				convey.So(league.Summary.MatchesApplied, convey.ShouldEqual, 2)
				convey.So(league.Seasons, convey.ShouldHaveLength, 1)
				convey.So(league.Seasons[0].Teams[0].ID, convey.ShouldEqual, "RIN")
			})
		})

		convey.Convey("When the output is stdout", func() {
			t.Setenv("HBELO_OUTPUT", "-")
			var stdout bytes.Buffer
			code := run(context.Background(), &stdout, io.Discard)

			convey.So(code, convey.ShouldEqual, exitOK)
			convey.So(stdout.String(), convey.ShouldContainSubstring, `"league": "herreligaen"`)
		})

		convey.Convey("When the data directory is missing", func() {
			t.Setenv("HBELO_DATA_DIR", filepath.Join(root, "missing"))
			convey.So(run(context.Background(), io.Discard, io.Discard), convey.ShouldEqual, exitFailure)
		})

		convey.Convey("When the config is invalid", func() {
			t.Setenv("HBELO_PRIOR_WEIGHT", "0.1")
			var stderr bytes.Buffer
			convey.So(run(context.Background(), io.Discard, &stderr), convey.ShouldEqual, exitFailure)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "failed to load config")
		})
	})
}

func ratedEngine(cfg *config.Config, shooter string) *service.Engine {
	ctx := context.Background()
	season := model.Season("2023-2024")
	e, err := service.NewEngine(append(engineOptions(cfg), service.WithLeague("herreligaen"))...)
	convey.So(err, convey.ShouldBeNil)
	convey.So(e.StartSeason(ctx, season), convey.ShouldBeNil)
	_, err = e.ApplyMatch(ctx, &model.Match{
		ID:         "1",
		Season:     season,
		HomeCode:   "RIN",
		AwayCode:   "AAH",
		FinalScore: "1-0",
		Date:       time.Date(2023, time.September, 1, 19, 0, 0, 0, time.UTC),
		Events: []model.Event{{
			RawType:    "Mål",
			Type:       model.ParseEventType("Mål"),
			TeamCode:   "RIN",
			Position:   "VF",
			Primary:    model.Actor{Number: "9", Name: shooter},
			Goalkeeper: model.Actor{Number: "1", Name: "Anna Smith"},
		}},
	})
	convey.So(err, convey.ShouldBeNil)
	convey.So(e.EndSeason(ctx, season), convey.ShouldBeNil)
	return e
}

func TestEngineOptions(t *testing.T) {
	ctx := context.Background()
	season := model.Season("2023-2024")

	convey.Convey("Given engines built from config", t, func() {
		cfg := config.New()
		base, _ := ratedEngine(cfg, "Ann Berg").TeamRating(ctx, "RIN", season)
		gain := base - cfg.TeamRating

		convey.Convey("When k_team is doubled", func() {
			cfg.KTeam *= 2
			rating, ok := ratedEngine(cfg, "Ann Berg").TeamRating(ctx, "RIN", season)

			convey.Convey("Then the team gain doubles", func() {
				convey.So(gain, convey.ShouldBeGreaterThan, 0)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(rating-cfg.TeamRating, convey.ShouldAlmostEqual, 2*gain, 1e-9)
			})
		})

		convey.Convey("When max_rating sits just above the team default", func() {
			cfg.MaxRating = cfg.TeamRating + gain/2
			e := ratedEngine(cfg, "Ann Berg")
			rating, _ := e.TeamRating(ctx, "RIN", season)

			convey.Convey("Then the winner is clamped and the clamp counted", func() {
				convey.So(rating, convey.ShouldEqual, cfg.MaxRating)
				convey.So(e.Summary().Clamps, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When an alias maps a short name onto a player", func() {
			cfg.Aliases = map[string]string{"A. Berg": "Ann Berg"}
			e := ratedEngine(cfg, "A. Berg")
			rows, err := e.Leaderboard(ctx, repository.Board{Season: season}, 10)

			convey.Convey("Then the rating is booked on the canonical name", func() {
				convey.So(err, convey.ShouldBeNil)
				ids := make([]string, 0, len(rows))
				for _, r := range rows {
					ids = append(ids, r.ID)
				}
				convey.So(ids, convey.ShouldContain, "ANN BERG")
				convey.So(ids, convey.ShouldNotContain, "A. BERG")
			})
		})
	})
}

func TestWriteReport(t *testing.T) {
	convey.Convey("Given a report", t, func() {
		rep := types.Report{Leagues: []types.LeagueReport{{League: "herreligaen"}}}

		convey.Convey("When the path is empty", func() {
			var buf bytes.Buffer
			convey.So(writeReport("", &buf, rep), convey.ShouldBeNil)
			convey.So(buf.String(), convey.ShouldEndWith, "}\n")
		})

		convey.Convey("When the path is a file in a new directory", func() {
			path := filepath.Join(t.TempDir(), "a", "b", "report.json")
			convey.So(writeReport(path, io.Discard, rep), convey.ShouldBeNil)
			_, err := os.Stat(path)
			convey.So(err, convey.ShouldBeNil)
		})
	})
}
