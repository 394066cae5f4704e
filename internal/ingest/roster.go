package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

// ParseTeams reads teams.json: an array of {slug, name, logo}. Teams without
// a slug get one from their name.
func ParseTeams(data []byte) ([]store.Team, error) {
	var teams []store.Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("decoding teams: %w", err)
	}

	out := make([]store.Team, 0, len(teams))
	for _, t := range teams {
		t.Name = strings.TrimSpace(t.Name)
		t.Slug = strings.TrimSpace(t.Slug)
		if t.Slug == "" {
			t.Slug = stats.Slugify(t.Name)
		}
		if t.Slug == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// rosterEntry covers every field name either players.json shape uses.
type rosterEntry struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	TeamSlug string `json:"teamSlug"`
	Team     string `json:"team"`
	TeamName string `json:"teamName"`
	Number   any    `json:"number"`
	Position string `json:"position"`
	Image    string `json:"image"`
	CSVURL   string `json:"csvUrl"`
	CSV      string `json:"csv"`
}

func (e rosterEntry) player(slug string) store.Player {
	if slug == "" {
		slug = e.Slug
	}
	name := strings.TrimSpace(e.Name)
	if slug == "" {
		slug = stats.Slugify(name)
	}
	if name == "" {
		name = slug
	}

	p := store.Player{
		Slug:     strings.TrimSpace(slug),
		Name:     name,
		TeamSlug: strings.TrimSpace(e.TeamSlug),
		TeamName: strings.TrimSpace(e.TeamName),
		Position: strings.TrimSpace(e.Position),
		Image:    strings.TrimSpace(e.Image),
		Source:   strings.TrimSpace(e.CSVURL),
	}
	if p.TeamName == "" {
		p.TeamName = strings.TrimSpace(e.Team)
	}
	if p.Source == "" {
		p.Source = strings.TrimSpace(e.CSV)
	}
	switch n := e.Number.(type) {
	case string:
		p.Number = strings.TrimSpace(n)
	case float64:
		p.Number = fmt.Sprintf("%g", n)
	}
	return p
}

// ParsePlayers reads players.json in either shape: an object keyed by player
// slug, or an array of player objects. Object order is preserved.
func ParsePlayers(data []byte) ([]store.Player, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("decoding players: empty document")
	}

	players := make([]store.Player, 0)
	switch trimmed[0] {
	case '[':
		var entries []rosterEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decoding players: %w", err)
		}
		for _, e := range entries {
			players = appendPlayer(players, e.player(""))
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decoding players: %w", err)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("decoding players: %w", err)
			}
			slug, _ := tok.(string)
			var e rosterEntry
			if err := dec.Decode(&e); err != nil {
				return nil, fmt.Errorf("decoding player %q: %w", slug, err)
			}
			players = appendPlayer(players, e.player(slug))
		}
	default:
		return nil, errors.New("decoding players: expected an object or an array")
	}
	return players, nil
}

func appendPlayer(players []store.Player, p store.Player) []store.Player {
	if p.Slug == "" {
		return players
	}
	return append(players, p)
}

// assignTeams fills each player's canonical team slug and name from the
// team list. An exact slug or name match anywhere in the list beats a
// resolver substring match, so "team-10" never lands on "team-1".
func assignTeams(players []store.Player, teams []store.Team) {
	for i := range players {
		p := &players[i]
		t, ok := exactTeam(*p, teams)
		if !ok {
			t, ok = resolvedTeam(*p, teams)
		}
		if ok {
			p.TeamSlug = t.Slug
			p.TeamName = t.Name
		}
	}
}

func exactTeam(p store.Player, teams []store.Team) (store.Team, bool) {
	for _, cell := range []string{p.TeamSlug, p.TeamName} {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		for _, t := range teams {
			if strings.EqualFold(cell, t.Slug) || strings.EqualFold(cell, t.Name) {
				return t, true
			}
		}
	}
	return store.Team{}, false
}

func resolvedTeam(p store.Player, teams []store.Team) (store.Team, bool) {
	row := p.Row()
	for _, t := range teams {
		if stats.ResolveMembership(t.Ref(), row) {
			return t, true
		}
	}
	return store.Team{}, false
}

// canonicalTeam maps a free-text team cell to a team slug, or returns it
// unchanged when no team matches.
func canonicalTeam(cell string, teams []store.Team) string {
	if cell == "" {
		return ""
	}
	if t, ok := exactTeam(store.Player{TeamSlug: cell}, teams); ok {
		return t.Slug
	}
	row := stats.RawRow{"team": cell}
	for _, t := range teams {
		if stats.ResolveMembership(t.Ref(), row) {
			return t.Slug
		}
	}
	return cell
}
