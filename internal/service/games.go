package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

// BoxScoreLoader fetches the per-game sheet behind an index entry.
type BoxScoreLoader interface {
	LoadBoxScore(ctx context.Context, entry store.BoxScoreEntry) ([]stats.RawRow, error)
}

// GameService handles the box score index and per-game box scores
type GameService struct {
	snapshots SnapshotSource
	loader    BoxScoreLoader
}

// NewGameService creates a new game service
func NewGameService(snapshots SnapshotSource, loader BoxScoreLoader) *GameService {
	return &GameService{snapshots: snapshots, loader: loader}
}

// GameSummary is an index entry with team names resolved.
type GameSummary struct {
	store.BoxScoreEntry
	Team1Name string `json:"team1Name"`
	Team2Name string `json:"team2Name"`
}

// BoxScore is one game split into its two sides.
type BoxScore struct {
	Game  GameSummary  `json:"game"`
	Team1 BoxScoreSide `json:"team1"`
	Team2 BoxScoreSide `json:"team2"`
}

// BoxScoreSide holds one team's player lines and totals.
type BoxScoreSide struct {
	TeamSlug    string             `json:"teamSlug"`
	TeamName    string             `json:"teamName"`
	Players     []stats.GameRecord `json:"players"`
	Totals      stats.StatLine     `json:"totals"`
	Percentages stats.Percentages  `json:"percentages"`
}

// ListGames returns index entries matching the query, in index order. An
// empty season means every season.
func (s *GameService) ListGames(q Query, teamSlug string) ([]GameSummary, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}
	if teamSlug != "" {
		if _, ok := snap.Team(teamSlug); !ok {
			return nil, fmt.Errorf("team %q: %w", teamSlug, ErrNotFound)
		}
	}

	f := q.filter(nil, false)
	names := snap.TeamNames()

	games := make([]GameSummary, 0)
	for _, e := range snap.BoxScores {
		if teamSlug != "" && !e.Involves(teamSlug) {
			continue
		}
		if !f.Matches(stats.GameRecord{Season: e.Season, Phase: e.Phase}) {
			continue
		}
		games = append(games, summarize(e, names))
	}
	return games, nil
}

// GetBoxScore loads and splits one game's box score. A game without a sheet
// yields empty sides.
func (s *GameService) GetBoxScore(ctx context.Context, gameID string) (*BoxScore, error) {
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	entry, ok := snap.BoxScore(gameID)
	if !ok {
		return nil, fmt.Errorf("game %q: %w", gameID, ErrNotFound)
	}

	rows, err := s.loader.LoadBoxScore(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("fetching box score: %w", err)
	}

	summary := summarize(entry, snap.TeamNames())
	return &BoxScore{
		Game:  summary,
		Team1: buildSide(snap, entry, rows, entry.Team1Slug, summary.Team1Name),
		Team2: buildSide(snap, entry, rows, entry.Team2Slug, summary.Team2Name),
	}, nil
}

func summarize(e store.BoxScoreEntry, names map[string]string) GameSummary {
	return GameSummary{
		BoxScoreEntry: e,
		Team1Name:     teamName(e.Team1Slug, names),
		Team2Name:     teamName(e.Team2Slug, names),
	}
}

func teamName(slug string, names map[string]string) string {
	if name, ok := names[slug]; ok {
		return name
	}
	return slug
}

// buildSide keeps the rows whose team cell names slug, ignoring case.
func buildSide(snap *store.Snapshot, entry store.BoxScoreEntry, rows []stats.RawRow, slug, name string) BoxScoreSide {
	side := BoxScoreSide{
		TeamSlug: slug,
		TeamName: name,
		Players:  make([]stats.GameRecord, 0),
	}

	for _, row := range rows {
		cell := row.Text("team", "team_slug", "teamSlug")
		if slug == "" || !(strings.EqualFold(cell, slug) || strings.EqualFold(cell, name)) {
			continue
		}

		playerName := stats.PlayerName(row)
		id := stats.Slugify(playerName)
		if p, ok := playerByName(snap, playerName); ok {
			id, playerName = p.Slug, p.Name
		}

		r := stats.Normalize(row, id, playerName)
		r.Team = slug
		if r.GameID == "" {
			r.GameID = entry.GameID
		}
		if r.Date == "" {
			r.Date = entry.Date
			r.Season = entry.Season
		}
		if row.Text("phase", "game_type") == "" {
			r.Phase = entry.Phase
		}

		side.Players = append(side.Players, r)
		side.Totals.Add(r.Stats)
	}
	side.Percentages = stats.ShootingPercentages(side.Totals)
	return side
}

func playerByName(snap *store.Snapshot, name string) (store.Player, bool) {
	if name == "" {
		return store.Player{}, false
	}
	for _, p := range snap.Players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return store.Player{}, false
}
