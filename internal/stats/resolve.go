package stats

import (
	"regexp"
	"strings"
)

// TeamRef identifies a team by slug and display name.
type TeamRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// membershipColumns are every column a schedule, box score or roster row may
// use to name a team. Rows use different subsets.
var membershipColumns = []string{
	"team_slug", "teamSlug", "team", "team_name", "teamName",
	"teamA", "teamB", "team1_slug", "team2_slug", "team1", "team2",
	"home", "away",
}

// sidePairs are the two-sided columns from which an opponent can be inferred.
var sidePairs = [][2][]string{
	{{"teamA"}, {"teamB"}},
	{{"team1_slug", "team1"}, {"team2_slug", "team2"}},
	{{"home"}, {"away"}},
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non-alphanumerics to a single hyphen.
func Slugify(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

func normText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchesTeam reports whether a free-text team cell refers to team. It accepts
// substring matches of the slug or name against the cell, in both raw
// lowercase and slug form.
func matchesTeam(team TeamRef, cell string) bool {
	cell = normText(cell)
	if cell == "" {
		return false
	}
	cellSlug := Slugify(cell)

	for _, needle := range []string{normText(team.Slug), normText(team.Name)} {
		if needle == "" {
			continue
		}
		if strings.Contains(cell, needle) {
			return true
		}
		if ns := Slugify(needle); ns != "" && strings.Contains(cellSlug, ns) {
			return true
		}
	}
	return false
}

// ResolveMembership reports whether any team-naming column of row refers to team.
func ResolveMembership(team TeamRef, row RawRow) bool {
	lr := newLookupRow(row)
	for _, v := range lr.values(membershipColumns) {
		if matchesTeam(team, v) {
			return true
		}
	}
	return false
}

// ResolveOpponentName returns the row's explicit opponent, or else the other
// side of a two-team row that contains team. It returns "" when neither applies.
func ResolveOpponentName(team TeamRef, row RawRow) string {
	lr := newLookupRow(row)
	if opp := lr.text(opponentColumns); opp != "" {
		return opp
	}
	for _, pair := range sidePairs {
		a, b := lr.text(pair[0]), lr.text(pair[1])
		switch {
		case a != "" && matchesTeam(team, a):
			return b
		case b != "" && matchesTeam(team, b):
			return a
		}
	}
	return ""
}

// FilterRows returns the rows that belong to team, in input order. No match
// yields an empty slice; falling back to unfiltered rows is left to the caller.
func FilterRows(team TeamRef, rows []RawRow) []RawRow {
	out := make([]RawRow, 0)
	for _, r := range rows {
		if ResolveMembership(team, r) {
			out = append(out, r)
		}
	}
	return out
}
