package stats

import (
	"fmt"
	"sort"
)

// Mode selects averages or totals when ranking.
type Mode string

const (
	ModeAverage Mode = "average"
	ModeTotal   Mode = "total"
)

// StatKey names a rankable value: any Field, games played, or a shooting percentage.
type StatKey string

const (
	StatGamesPlayed StatKey = "gamesPlayed"
	StatFGPct       StatKey = "fgPct"
	StatThreePct    StatKey = "threePct"
	StatFTPct       StatKey = "ftPct"
)

// ParseStatKey validates a stat name.
func ParseStatKey(s string) (StatKey, error) {
	switch StatKey(s) {
	case StatGamesPlayed, StatFGPct, StatThreePct, StatFTPct:
		return StatKey(s), nil
	}
	for _, f := range SummableFields {
		if string(f) == s {
			return StatKey(s), nil
		}
	}
	return "", fmt.Errorf("unknown stat %q", s)
}

// ParseMode validates a ranking mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAverage, ModeTotal:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Value returns the entry's value for key under mode. Games played is always a
// count and percentages ignore mode. Unknown keys are 0.
func (e AggregateEntry) Value(key StatKey, mode Mode) float64 {
	switch key {
	case StatGamesPlayed:
		return float64(e.GamesPlayed)
	case StatFGPct:
		return e.Percentages.FG.Value
	case StatThreePct:
		return e.Percentages.Three.Value
	case StatFTPct:
		return e.Percentages.FT.Value
	}
	line := e.Averages
	if mode == ModeTotal {
		line = e.Totals
	}
	v, _ := line.Get(Field(key))
	return v
}

// Rank orders entries by key descending, breaking ties by subject name then
// subject ID ascending. The input slice is not modified.
func Rank(entries []AggregateEntry, key StatKey, mode Mode) []AggregateEntry {
	ranked := make([]AggregateEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Value(key, mode), ranked[j].Value(key, mode)
		if vi != vj {
			return vi > vj
		}
		if ranked[i].SubjectName != ranked[j].SubjectName {
			return ranked[i].SubjectName < ranked[j].SubjectName
		}
		return ranked[i].SubjectID < ranked[j].SubjectID
	})
	return ranked
}
