package loader

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/handball-elo/internal/domain/model"
)

type matchFile struct {
	Info   matchInfo     `json:"match_info"`
	Events []eventRecord `json:"match_events"`
}

type matchInfo struct {
	ID          text `json:"kamp_id"`
	Home        text `json:"hold_hjemme"`
	Away        text `json:"hold_ude"`
	HomeCode    text `json:"hjemme_kode"`
	AwayCode    text `json:"ude_kode"`
	Result      text `json:"resultat"`
	Halftime    text `json:"halvleg_resultat"`
	Date        text `json:"dato"`
	Venue       text `json:"sted"`
	Competition text `json:"turnering"`
}

type eventRecord struct {
	MatchID        text `json:"kamp_id"`
	Time           text `json:"tid"`
	Score          text `json:"maal"`
	Team           text `json:"hold"`
	Type           text `json:"haendelse_1"`
	Position       text `json:"pos"`
	Number         text `json:"nr_1"`
	Name           text `json:"navn_1"`
	SecondaryType  text `json:"haendelse_2"`
	SecondaryNo    text `json:"nr_2"`
	SecondaryName  text `json:"navn_2"`
	GoalkeeperNo   text `json:"nr_mv"`
	GoalkeeperName text `json:"mv"`
}

func (r eventRecord) event() model.Event {
	raw := string(r.Type)
	return model.Event{
		Time:          string(r.Time),
		Score:         string(r.Score),
		TeamCode:      model.ClubCode(strings.ToUpper(string(r.Team))),
		Type:          model.ParseEventType(raw),
		RawType:       raw,
		Position:      string(r.Position),
		Primary:       model.NormalizeActor(string(r.Number), string(r.Name)),
		SecondaryType: string(r.SecondaryType),
		Secondary:     model.NormalizeActor(string(r.SecondaryNo), string(r.SecondaryName)),
		Goalkeeper:    model.NormalizeActor(string(r.GoalkeeperNo), string(r.GoalkeeperName)),
	}
}

// text accepts JSON strings, numbers and null. Whole numbers lose any
// trailing ".0" so jersey numbers read the same from every exporter.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		*t = text(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*t = text(n.String())
	return nil
}
