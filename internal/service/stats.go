package service

import (
	"fmt"
	"strings"

	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

// StatsService builds league leaderboards and season highs
type StatsService struct {
	snapshots SnapshotSource
}

// NewStatsService creates a new stats service
func NewStatsService(snapshots SnapshotSource) *StatsService {
	return &StatsService{snapshots: snapshots}
}

// LeadersQuery selects a leaderboard.
type LeadersQuery struct {
	Query
	Team  string
	Stat  string
	Mode  string
	Limit int
}

// Leaderboard is a ranked league table.
type Leaderboard struct {
	Options SeasonOptions    `json:"options"`
	Team    string           `json:"team,omitempty"`
	Stat    stats.StatKey    `json:"stat"`
	Mode    stats.Mode       `json:"mode"`
	Entries []LeaderboardRow `json:"entries"`
}

// LeaderboardRow is one ranked subject with the value it was ranked by.
type LeaderboardRow struct {
	Rank     int     `json:"rank"`
	TeamSlug string  `json:"teamSlug,omitempty"`
	Value    float64 `json:"value"`
	stats.AggregateEntry
}

// Seasons returns every season label with data, oldest first.
func (s *StatsService) Seasons() ([]string, error) {
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}
	return stats.SeasonLabels(snap.Records), nil
}

// GetLeaders ranks players by one stat. An empty season means the latest one
// with data for the selected team, or for the league when no team is set.
func (s *StatsService) GetLeaders(q LeadersQuery) (*Leaderboard, error) {
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

	records, team, err := teamRecords(snap, q.Team)
	if err != nil {
		return nil, err
	}
	f := q.filter(records, true)

	ranked := stats.Rank(stats.Aggregate(records, stats.ByPlayer, f), key, mode)
	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	rows := make([]LeaderboardRow, len(ranked))
	for i, e := range ranked {
		rows[i] = LeaderboardRow{
			Rank:           i + 1,
			Value:          e.Value(key, mode),
			AggregateEntry: e,
		}
		if p, ok := snap.Player(e.SubjectID); ok {
			rows[i].TeamSlug = p.TeamSlug
		}
	}

	return &Leaderboard{
		Options: seasonOptions(snap.Records, f),
		Team:    team,
		Stat:    key,
		Mode:    mode,
		Entries: rows,
	}, nil
}

// RecordsQuery selects a season-highs table.
type RecordsQuery struct {
	Query
	Team string
}

// Records lists the single-game highs of a season.
type Records struct {
	Options SeasonOptions       `json:"options"`
	Team    string              `json:"team,omitempty"`
	Highs   []stats.RecordEntry `json:"highs"`
}

// GetRecords tracks season highs. An empty season means the latest one with
// data for the selected team, or for the league when no team is set.
func (s *StatsService) GetRecords(q RecordsQuery) (*Records, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	records, team, err := teamRecords(snap, q.Team)
	if err != nil {
		return nil, err
	}
	f := q.filter(records, true)

	return &Records{
		Options: seasonOptions(snap.Records, f),
		Team:    team,
		Highs:   highsList(stats.TrackHighs(f.Apply(records), stats.AllCategories)),
	}, nil
}

// teamRecords narrows records to one team when slug is set.
func teamRecords(snap *store.Snapshot, slug string) ([]stats.GameRecord, string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return snap.Records, "", nil
	}
	team, ok := snap.Team(slug)
	if !ok {
		return nil, "", fmt.Errorf("team %q: %w", slug, ErrNotFound)
	}
	return snap.RecordsForTeam(team.Slug), team.Slug, nil
}

func parseStat(s string) (stats.StatKey, error) {
	if strings.TrimSpace(s) == "" {
		return stats.StatKey(stats.FieldPoints), nil
	}
	key, err := stats.ParseStatKey(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return key, nil
}

func parseMode(s string) (stats.Mode, error) {
	if strings.TrimSpace(s) == "" {
		return stats.ModeAverage, nil
	}
	mode, err := stats.ParseMode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return mode, nil
}
