// Package loader reads league match files from disk.
//
// The layout is <dir>/<league>/<season>/<match>.json, one file per match
// with a "match_info" header and "match_events" rows keyed by the column
// names of the published match reports.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/pkg/logger"
)

var dateLayouts = []string{"02-01-2006", "2006-01-02", "02.01.2006"}

// League is one league directory, seasons in chronological order.
type League struct {
	Name    string
	Seasons []model.SeasonData
}

// Matches returns the number of matches across all seasons.
func (l League) Matches() int {
	n := 0
	for _, s := range l.Seasons {
		n += len(s.Matches)
	}
	return n
}

// Loader reads leagues below a data directory.
type Loader struct {
	dir     string
	clubs   map[string]model.ClubCode // normalized name -> code
	leagues []string
	logger  logger.Logger
}

// New returns a Loader for dir.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:    dir,
		clubs:  make(map[string]model.ClubCode, len(defaultClubCodes)),
		logger: logger.Get().Named("loader"),
	}
	for name, code := range defaultClubCodes {
		l.clubs[model.NormalizeName(name)] = code
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Leagues loads every league directory, sorted by name. WithLeagues
// restricts the set.
func (l *Loader) Leagues(ctx context.Context) ([]League, error) {
	names := l.leagues
	if len(names) == 0 {
		entries, err := os.ReadDir(l.dir)
		if err != nil {
			return nil, fmt.Errorf("read data dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				names = append(names, e.Name())
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLeagues, l.dir)
	}
	sort.Strings(names)

	out := make([]League, 0, len(names))
	for _, name := range names {
		lg, err := l.League(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, lg)
	}
	return out, nil
}

// League loads one league directory.
func (l *Loader) League(ctx context.Context, name string) (League, error) {
	root := filepath.Join(l.dir, name)
	entries, err := os.ReadDir(root)
	if err != nil {
		return League{}, fmt.Errorf("read league %s: %w", name, err)
	}

	var seasons []model.Season
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			seasons = append(seasons, model.Season(e.Name()))
		}
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Before(seasons[j]) })

	lg := League{Name: name}
	for _, s := range seasons {
		if err := ctx.Err(); err != nil {
			return League{}, err
		}
		matches, err := l.season(ctx, filepath.Join(root, string(s)), s)
		if err != nil {
			return League{}, err
		}
		lg.Seasons = append(lg.Seasons, model.SeasonData{Season: s, Matches: matches})
	}
	l.logger.Info(ctx, "league loaded",
		logger.String("league", name),
		logger.Int("seasons", len(lg.Seasons)),
		logger.Int("matches", lg.Matches()),
	)
	return lg, nil
}

func (l *Loader) season(ctx context.Context, dir string, season model.Season) ([]*model.Match, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	matches := make([]*model.Match, 0, len(files))
	for _, path := range files {
		m, err := l.ReadMatch(path, season)
		if err != nil {
			return nil, err
		}
		if m.HomeCode == "" || m.AwayCode == "" {
			l.logger.Warn(ctx, "club code unresolved",
				logger.String("file", path),
				logger.String("home", m.HomeName),
				logger.String("away", m.AwayName),
			)
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matchIDLess(matches[i].ID, matches[j].ID)
	})
	return matches, nil
}

// ReadMatch reads one match file.
func (l *Loader) ReadMatch(path string, season model.Season) (*model.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, path, err)
	}
	defer f.Close()

	m, err := l.Decode(f, season)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.ID == "" {
		m.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Decode parses one match document.
func (l *Loader) Decode(r io.Reader, season model.Season) (*model.Match, error) {
	var doc matchFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	info := doc.Info
	m := &model.Match{
		ID:            string(info.ID),
		Season:        season,
		HomeName:      string(info.Home),
		AwayName:      string(info.Away),
		HomeCode:      model.ClubCode(strings.ToUpper(string(info.HomeCode))),
		AwayCode:      model.ClubCode(strings.ToUpper(string(info.AwayCode))),
		FinalScore:    string(info.Result),
		HalftimeScore: string(info.Halftime),
		Venue:         string(info.Venue),
		Competition:   string(info.Competition),
	}
	if info.Date != "" {
		d, err := parseDate(string(info.Date))
		if err != nil {
			return nil, err
		}
		m.Date = d
	}

	m.Events = make([]model.Event, 0, len(doc.Events))
	for _, row := range doc.Events {
		if m.ID == "" {
			m.ID = string(row.MatchID)
		}
		m.Events = append(m.Events, row.event())
	}
	l.resolveCodes(m)
	return m, nil
}

// resolveCodes fills missing side codes from the club table, then from the
// team codes seen in events when exactly one side is still unknown.
func (l *Loader) resolveCodes(m *model.Match) {
	if m.HomeCode == "" {
		m.HomeCode = l.clubs[model.NormalizeName(m.HomeName)]
	}
	if m.AwayCode == "" {
		m.AwayCode = l.clubs[model.NormalizeName(m.AwayName)]
	}
	if (m.HomeCode == "") == (m.AwayCode == "") {
		return
	}

	known := m.HomeCode + m.AwayCode
	var other model.ClubCode
	for _, ev := range m.Events {
		if ev.TeamCode == "" || ev.TeamCode == known {
			continue
		}
		if other != "" && other != ev.TeamCode {
			return
		}
		other = ev.TeamCode
	}
	if m.HomeCode == "" {
		m.HomeCode = other
	} else {
		m.AwayCode = other
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// matchIDLess orders numeric ids numerically and everything else by text.
func matchIDLess(a, b string) bool {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}
