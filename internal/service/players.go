package service

import (
	"fmt"

	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

// PlayerService handles player-related views
type PlayerService struct {
	snapshots SnapshotSource
}

// NewPlayerService creates a new player service
func NewPlayerService(snapshots SnapshotSource) *PlayerService {
	return &PlayerService{snapshots: snapshots}
}

// PlayerPage is a player's profile, game log, averages and highs.
type PlayerPage struct {
	Player   store.Player          `json:"player"`
	Team     *store.Team           `json:"team,omitempty"`
	Options  SeasonOptions         `json:"options"`
	Games    []stats.GameRecord    `json:"games"`
	Averages *stats.AggregateEntry `json:"averages,omitempty"`
	Highs    []stats.RecordEntry   `json:"highs"`
}

// ListPlayers returns the roster in source order, optionally for one team.
func (s *PlayerService) ListPlayers(teamSlug string) ([]store.Player, error) {
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}
	if teamSlug == "" {
		return snap.Players, nil
	}
	team, ok := snap.Team(teamSlug)
	if !ok {
		return nil, fmt.Errorf("team %q: %w", teamSlug, ErrNotFound)
	}
	roster, _ := rosterOf(snap, team)
	return roster, nil
}

// GetPlayer builds a player page. An empty season means every season.
func (s *PlayerService) GetPlayer(slug string, q Query) (*PlayerPage, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	player, ok := snap.Player(slug)
	if !ok {
		return nil, fmt.Errorf("player %q: %w", slug, ErrNotFound)
	}

	all := snap.RecordsFor(player.Slug)
	f := q.filter(all, false)
	games := f.Apply(all)

	page := &PlayerPage{
		Player:  player,
		Options: seasonOptions(all, f),
		Games:   games,
		Highs:   highsList(stats.TrackHighs(games, stats.AllCategories)),
	}
	if team, ok := snap.Team(player.TeamSlug); ok {
		page.Team = &team
	}
	if entries := stats.Aggregate(games, stats.ByPlayer, stats.Filter{}); len(entries) > 0 {
		page.Averages = &entries[0]
	}
	return page, nil
}
