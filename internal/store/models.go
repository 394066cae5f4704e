package store

import (
	"strings"
	"time"

	"github.com/fortuna/mystats/internal/stats"
)

// Team is a league team from teams.json.
type Team struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Ref returns the resolver view of the team.
func (t Team) Ref() stats.TeamRef {
	return stats.TeamRef{Slug: t.Slug, Name: t.Name}
}

// Player is a roster entry. Source is where the player's game log lives and
// is never exposed over the API.
type Player struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	TeamSlug string `json:"teamSlug,omitempty"`
	TeamName string `json:"teamName,omitempty"`
	Number   string `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
	Image    string `json:"image,omitempty"`
	Source   string `json:"-"`
}

// Row exposes the roster fields under the column names the resolver reads.
func (p Player) Row() stats.RawRow {
	return stats.RawRow{"teamSlug": p.TeamSlug, "teamName": p.TeamName}
}

// BoxScoreEntry is one row of the box score index.
type BoxScoreEntry struct {
	GameID     string       `json:"gameId"`
	Date       string       `json:"date"`
	Team1Slug  string       `json:"team1Slug"`
	Team2Slug  string       `json:"team2Slug"`
	ScoreTeam1 string       `json:"scoreTeam1,omitempty"`
	ScoreTeam2 string       `json:"scoreTeam2,omitempty"`
	Season     stats.Season `json:"season"`
	Phase      stats.Phase  `json:"phase"`
	Source     string       `json:"-"`
}

// Involves reports whether slug played in the game.
func (e BoxScoreEntry) Involves(slug string) bool {
	return strings.EqualFold(e.Team1Slug, slug) || strings.EqualFold(e.Team2Slug, slug)
}

// Snapshot is one consistent load of every source. It is never mutated after
// being handed to the Store.
type Snapshot struct {
	Teams     []Team             `json:"teams"`
	Players   []Player           `json:"players"`
	Records   []stats.GameRecord `json:"-"`
	Schedule  []stats.RawRow     `json:"-"`
	BoxScores []BoxScoreEntry    `json:"-"`
	LoadedAt  time.Time          `json:"loadedAt"`
}

// Team finds a team by slug, ignoring case.
func (s *Snapshot) Team(slug string) (Team, bool) {
	for _, t := range s.Teams {
		if strings.EqualFold(t.Slug, slug) {
			return t, true
		}
	}
	return Team{}, false
}

// Player finds a player by slug, ignoring case.
func (s *Snapshot) Player(slug string) (Player, bool) {
	for _, p := range s.Players {
		if strings.EqualFold(p.Slug, slug) {
			return p, true
		}
	}
	return Player{}, false
}

// BoxScore finds an index entry by game id.
func (s *Snapshot) BoxScore(gameID string) (BoxScoreEntry, bool) {
	for _, e := range s.BoxScores {
		if e.GameID == gameID {
			return e, true
		}
	}
	return BoxScoreEntry{}, false
}

// TeamNames maps team slug to display name.
func (s *Snapshot) TeamNames() map[string]string {
	names := make(map[string]string, len(s.Teams))
	for _, t := range s.Teams {
		names[t.Slug] = t.Name
	}
	return names
}

// RecordsFor returns the records of one player in source order.
func (s *Snapshot) RecordsFor(playerSlug string) []stats.GameRecord {
	out := make([]stats.GameRecord, 0)
	for _, r := range s.Records {
		if r.SubjectID == playerSlug {
			out = append(out, r)
		}
	}
	return out
}

// RecordsForTeam returns the records attributed to a team slug.
func (s *Snapshot) RecordsForTeam(teamSlug string) []stats.GameRecord {
	out := make([]stats.GameRecord, 0)
	for _, r := range s.Records {
		if strings.EqualFold(r.Team, teamSlug) {
			out = append(out, r)
		}
	}
	return out
}
