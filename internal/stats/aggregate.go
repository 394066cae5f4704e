package stats

import "strings"

// AllSeasons and AllPhases select every season or phase in a Filter.
const (
	AllSeasons = "all"
	AllPhases  = "all"
)

// Filter restricts records by season label and phase. Empty values mean "all".
type Filter struct {
	Season string `json:"season"`
	Phase  string `json:"phase"`
}

func (f Filter) allSeasons() bool {
	return f.Season == "" || strings.EqualFold(f.Season, AllSeasons)
}

func (f Filter) allPhases() bool {
	return f.Phase == "" || strings.EqualFold(f.Phase, AllPhases)
}

// Matches reports whether r qualifies. Records with an unknown season only
// qualify when every season is selected.
func (f Filter) Matches(r GameRecord) bool {
	if !f.allSeasons() && r.Season.Label != f.Season {
		return false
	}
	if !f.allPhases() && r.Phase != ParsePhase(f.Phase) {
		return false
	}
	return true
}

// Apply returns the qualifying records in input order.
func (f Filter) Apply(records []GameRecord) []GameRecord {
	out := make([]GameRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// GroupBy extracts the aggregation key and display name of a record.
// Records with an empty key are left out of the aggregation.
type GroupBy func(GameRecord) (key, name string)

// ByPlayer groups by subject.
func ByPlayer(r GameRecord) (string, string) {
	return r.SubjectID, r.SubjectName
}

// ByTeam groups by team slug, naming each group from names when the slug is listed there.
func ByTeam(names map[string]string) GroupBy {
	return func(r GameRecord) (string, string) {
		if name, ok := names[r.Team]; ok {
			return r.Team, name
		}
		return r.Team, r.Team
	}
}

// Combined folds every record into a single entry.
func Combined(id, name string) GroupBy {
	return func(GameRecord) (string, string) {
		return id, name
	}
}

// Percentage is a made/attempted ratio plus whether any attempts existed.
// Value is 0 when HasAttempts is false.
type Percentage struct {
	Value       float64 `json:"value"`
	HasAttempts bool    `json:"hasAttempts"`
}

func percentage(made, att float64) Percentage {
	if att == 0 {
		return Percentage{}
	}
	return Percentage{Value: made / att, HasAttempts: true}
}

// Percentages are shooting ratios over a set of games.
type Percentages struct {
	FG    Percentage `json:"fgPct"`
	Three Percentage `json:"threePct"`
	FT    Percentage `json:"ftPct"`
}

// ShootingPercentages computes ratios from totals.
func ShootingPercentages(totals StatLine) Percentages {
	return Percentages{
		FG:    percentage(totals.FGMade, totals.FGAtt),
		Three: percentage(totals.ThreeMade, totals.ThreeAtt),
		FT:    percentage(totals.FTMade, totals.FTAtt),
	}
}

// AggregateEntry is the per-subject fold of a filtered record set.
type AggregateEntry struct {
	SubjectID   string      `json:"subjectId"`
	SubjectName string      `json:"subjectName"`
	GamesPlayed int         `json:"gamesPlayed"`
	Totals      StatLine    `json:"totals"`
	Averages    StatLine    `json:"averages"`
	Percentages Percentages `json:"percentages"`
}

// Aggregate folds the records that pass filter into one entry per group key,
// ordered by first appearance of the key. Subjects without a qualifying game
// do not appear.
func Aggregate(records []GameRecord, groupBy GroupBy, filter Filter) []AggregateEntry {
	index := make(map[string]int)
	entries := make([]AggregateEntry, 0)

	for _, r := range records {
		if !filter.Matches(r) {
			continue
		}
		key, name := groupBy(r)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, AggregateEntry{SubjectID: key, SubjectName: name})
		}
		entries[i].GamesPlayed++
		entries[i].Totals.Add(r.Stats)
	}

	for i := range entries {
		e := &entries[i]
		e.Averages = e.Totals.Div(float64(e.GamesPlayed))
		e.Percentages = ShootingPercentages(e.Totals)
	}
	return entries
}
