package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// RawRow is one record produced by the CSV/HTML tokenizer: column name -> cell text.
// Column names vary in case and punctuation between sheets.
type RawRow map[string]string

// Field identifies a canonical summable stat.
type Field string

const (
	FieldPoints    Field = "points"
	FieldOffReb    Field = "offReb"
	FieldDefReb    Field = "defReb"
	FieldTotalReb  Field = "totalReb"
	FieldAssists   Field = "assists"
	FieldSteals    Field = "steals"
	FieldBlocks    Field = "blocks"
	FieldTurnovers Field = "turnovers"
	FieldFouls     Field = "fouls"
	FieldFGMade    Field = "fgMade"
	FieldFGAtt     Field = "fgAtt"
	FieldThreeMade Field = "threeMade"
	FieldThreeAtt  Field = "threeAtt"
	FieldFTMade    Field = "ftMade"
	FieldFTAtt     Field = "ftAtt"
)

// SummableFields lists every Field in box score order.
var SummableFields = []Field{
	FieldPoints, FieldOffReb, FieldDefReb, FieldTotalReb, FieldAssists, FieldSteals,
	FieldBlocks, FieldTurnovers, FieldFouls, FieldFGMade, FieldFGAtt, FieldThreeMade,
	FieldThreeAtt, FieldFTMade, FieldFTAtt,
}

// AliasTable maps a canonical field to the source column names that may carry it,
// in priority order. Lookups are insensitive to case, spaces, underscores, hyphens and dots.
type AliasTable map[Field][]string

// DefaultAliases covers the column spellings seen across the league's sheets.
var DefaultAliases = AliasTable{
	FieldPoints:    {"pts", "points"},
	FieldOffReb:    {"or", "oreb", "offReb", "off_reb"},
	FieldDefReb:    {"dr", "dreb", "defReb", "def_reb"},
	FieldTotalReb:  {"totrb", "reb", "trb", "totalReb", "rebounds"},
	FieldAssists:   {"ass", "ast", "assists"},
	FieldSteals:    {"st", "stl", "steals"},
	FieldBlocks:    {"bs", "blk", "blocks"},
	FieldTurnovers: {"to", "tov", "turnovers"},
	FieldFouls:     {"pf", "fouls"},
	FieldFGMade:    {"fg", "fgm", "fgMade"},
	FieldFGAtt:     {"fga", "fgAtt"},
	FieldThreeMade: {"3p", "3pm", "three", "threeMade"},
	FieldThreeAtt:  {"3pa", "threeAtt"},
	FieldFTMade:    {"ft", "ftm", "ftMade"},
	FieldFTAtt:     {"fta", "ftAtt"},
}

// Text columns consulted by the normalizer, in priority order.
var (
	dateColumns     = []string{"date", "game_date"}
	phaseColumns    = []string{"phase", "game_type"}
	opponentColumns = []string{"opponent", "opp"}
	resultColumns   = []string{"result", "res"}
	teamColumns     = []string{"team_slug", "teamSlug", "team"}
	gameIDColumns   = []string{"game_id", "gameId"}
	playerColumns   = []string{"player", "name", "player_name"}
)

// ToNumber returns the first value that parses as a finite number, or 0 when none does.
func ToNumber(values ...string) float64 {
	for _, v := range values {
		if n, ok := parseFinite(v); ok {
			return n
		}
	}
	return 0
}

func parseFinite(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// normKey folds a column name to its lookup form.
func normKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		}
		return r
	}, k)
}

// lookupRow indexes a RawRow by folded column name. When several columns
// fold to the same name, the first non-blank one in byte order of the
// original column names wins ("PTS" before "pts").
type lookupRow map[string]string

func newLookupRow(row RawRow) lookupRow {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lr := make(lookupRow, len(row))
	for _, k := range keys {
		nk := normKey(k)
		if existing, ok := lr[nk]; ok && strings.TrimSpace(existing) != "" {
			continue
		}
		lr[nk] = row[k]
	}
	return lr
}

// values returns the cell text for each present column, in alias order.
func (lr lookupRow) values(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if v, ok := lr[normKey(c)]; ok {
			out = append(out, v)
		}
	}
	return out
}

// text returns the first non-blank cell among columns, trimmed.
func (lr lookupRow) text(columns []string) string {
	for _, v := range lr.values(columns) {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// present reports whether any column carries a non-blank cell.
func (lr lookupRow) present(columns []string) bool {
	return lr.text(columns) != ""
}

// Number coerces the given field out of row using the table's aliases.
func (t AliasTable) Number(row RawRow, f Field) float64 {
	return t.number(newLookupRow(row), f)
}

func (t AliasTable) number(lr lookupRow, f Field) float64 {
	return ToNumber(lr.values(t[f])...)
}

// Text returns the first non-blank cell among the named columns, trimmed.
func (row RawRow) Text(columns ...string) string {
	return newLookupRow(row).text(columns)
}
