package service

import (
	"fmt"

	"github.com/fortuna/mystats/internal/stats"
)

// AnalyticsService compares teams against each other
type AnalyticsService struct {
	snapshots SnapshotSource
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(snapshots SnapshotSource) *AnalyticsService {
	return &AnalyticsService{snapshots: snapshots}
}

// TeamRankings is a leaderboard of teams built from their players' game lines.
type TeamRankings struct {
	Options SeasonOptions          `json:"options"`
	Stat    stats.StatKey          `json:"stat"`
	Mode    stats.Mode             `json:"mode"`
	Entries []stats.AggregateEntry `json:"entries"`
}

// GetTeamRankings ranks teams by a stat over their players' combined game
// lines. Games played counts player games, not team games. An empty season
// means the latest one.
func (s *AnalyticsService) GetTeamRankings(q LeadersQuery) (*TeamRankings, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	key, err := parseStat(q.Stat)
	if err != nil {
		return nil, err
	}
	mode, err := parseMode(q.Mode)
	if err != nil {
		return nil, err
	}
	if q.Limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", ErrInvalidArgument, q.Limit)
	}

	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	f := q.filter(snap.Records, true)
	ranked := stats.Rank(stats.Aggregate(snap.Records, stats.ByTeam(snap.TeamNames()), f), key, mode)
	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	return &TeamRankings{
		Options: seasonOptions(snap.Records, f),
		Stat:    key,
		Mode:    mode,
		Entries: ranked,
	}, nil
}
