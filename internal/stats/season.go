package stats

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// SubSeason is one of the league's four seasonal competitions within a calendar year.
type SubSeason int

const (
	SubSeasonUnknown SubSeason = iota
	Summer
	Autumn
	Winter
	Spring
)

var subSeasonNames = map[SubSeason]string{
	Summer: "Summer",
	Autumn: "Autumn",
	Winter: "Winter",
	Spring: "Spring",
}

func (s SubSeason) String() string {
	return subSeasonNames[s]
}

// Calendar maps each month (index 0 = January) to its sub-season.
type Calendar [12]SubSeason

// DefaultCalendar follows the southern-hemisphere convention the league uses:
// Dec–Feb Summer, Mar–May Autumn, Jun–Aug Winter, Sep–Nov Spring.
var DefaultCalendar = Calendar{
	Summer, Summer, // Jan, Feb
	Autumn, Autumn, Autumn,
	Winter, Winter, Winter,
	Spring, Spring, Spring,
	Summer, // Dec
}

// Season is the derived season of a game. The zero value is the unknown season.
type Season struct {
	Year  int       `json:"year"`
	Sub   SubSeason `json:"-"`
	Label string    `json:"label"`
}

// Known reports whether the season was derived from a parseable date.
func (s Season) Known() bool {
	return s.Label != ""
}

// SortKey orders seasons chronologically: year*10 + sub-season ordinal.
func (s Season) SortKey() int {
	return s.Year*10 + int(s.Sub)
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 2 Jan 2006",
	"Mon Jan 2 2006",
}

// ParseDate parses the date formats found in league sheets.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Derive maps a raw date string to its season. Unparseable dates yield the zero Season.
func (c Calendar) Derive(date string) Season {
	t, ok := ParseDate(date)
	if !ok {
		return Season{}
	}
	sub := c[t.Month()-1]
	if sub == SubSeasonUnknown {
		return Season{}
	}
	return Season{
		Year:  t.Year(),
		Sub:   sub,
		Label: strconv.Itoa(t.Year()) + " " + sub.String(),
	}
}

// DeriveSeason derives a season with the default calendar.
func DeriveSeason(date string) Season {
	return DefaultCalendar.Derive(date)
}

// ParseSeasonLabel reverses a "<year> <SubSeason>" label.
func ParseSeasonLabel(label string) (Season, bool) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return Season{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Season{}, false
	}
	for sub, name := range subSeasonNames {
		if strings.EqualFold(parts[1], name) {
			return Season{Year: year, Sub: sub, Label: strconv.Itoa(year) + " " + name}, true
		}
	}
	return Season{}, false
}

// SortSeasonLabels sorts labels chronologically in place. Labels that do not parse sort last, alphabetically.
func SortSeasonLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		si, okI := ParseSeasonLabel(labels[i])
		sj, okJ := ParseSeasonLabel(labels[j])
		switch {
		case okI && okJ:
			return si.SortKey() < sj.SortKey()
		case okI != okJ:
			return okI
		default:
			return labels[i] < labels[j]
		}
	})
}

// SeasonLabels returns the distinct known season labels across records, oldest first.
func SeasonLabels(records []GameRecord) []string {
	seen := make(map[string]bool)
	labels := make([]string, 0)
	for _, r := range records {
		if !r.Season.Known() || seen[r.Season.Label] {
			continue
		}
		seen[r.Season.Label] = true
		labels = append(labels, r.Season.Label)
	}
	SortSeasonLabels(labels)
	return labels
}

// LatestSeason returns the most recent known label, or "" when there are none.
func LatestSeason(records []GameRecord) string {
	labels := SeasonLabels(records)
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1]
}
