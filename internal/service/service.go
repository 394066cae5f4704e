package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

var (
	// ErrNotFound is returned when a team, player or game does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for unusable query parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)

// SnapshotSource provides the current data snapshot.
type SnapshotSource interface {
	Snapshot() (*store.Snapshot, error)
}

// Query selects the season and phase of a view. An empty Season means the
// view's default; "all" means every season.
type Query struct {
	Season string
	Phase  string
}

func (q Query) validate() error {
	switch strings.ToLower(strings.TrimSpace(q.Phase)) {
	case "", stats.AllPhases, string(stats.PhaseRegular), string(stats.PhasePlayoff), "playoffs":
		return nil
	}
	return fmt.Errorf("%w: phase %q", ErrInvalidArgument, q.Phase)
}

// filter resolves the query against records. When latestByDefault is set an
// empty season selects the most recent one.
func (q Query) filter(records []stats.GameRecord, latestByDefault bool) stats.Filter {
	season := strings.TrimSpace(q.Season)
	if season == "" {
		if latestByDefault {
			season = stats.LatestSeason(records)
		}
		if season == "" {
			season = stats.AllSeasons
		}
	}
	phase := strings.TrimSpace(q.Phase)
	if phase == "" {
		phase = stats.AllPhases
	}
	return stats.Filter{Season: season, Phase: phase}
}

// SeasonOptions lists the seasons a view can be switched to. The "all seasons"
// choice is only offered when there is more than one.
type SeasonOptions struct {
	Seasons    []string `json:"seasons"`
	AllOption  bool     `json:"allOption"`
	Selected   string   `json:"selected"`
	PhaseShown string   `json:"phase"`
}

func seasonOptions(records []stats.GameRecord, f stats.Filter) SeasonOptions {
	labels := stats.SeasonLabels(records)
	return SeasonOptions{
		Seasons:    labels,
		AllOption:  len(labels) > 1,
		Selected:   f.Season,
		PhaseShown: f.Phase,
	}
}

// highsList orders a TrackHighs result by category display order.
func highsList(highs map[stats.Category]stats.RecordEntry) []stats.RecordEntry {
	out := make([]stats.RecordEntry, 0, len(highs))
	for _, c := range stats.AllCategories {
		if e, ok := highs[c]; ok {
			out = append(out, e)
		}
	}
	return out
}
