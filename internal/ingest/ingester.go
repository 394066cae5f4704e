package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fortuna/mystats/internal/config"
	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

// Source fetches the text behind a source reference.
type Source interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// Ingester loads every configured sheet into a store snapshot.
type Ingester struct {
	source      Source
	sources     config.SourcesConfig
	parallelism int
	normalizer  stats.Normalizer
	now         func() time.Time
}

// NewIngester creates an ingester over the configured sources.
func NewIngester(source Source, sources config.SourcesConfig) *Ingester {
	parallelism := sources.MaxParallelFetches
	if parallelism < 1 {
		parallelism = 1
	}
	return &Ingester{
		source:      source,
		sources:     sources,
		parallelism: parallelism,
		normalizer:  stats.DefaultNormalizer,
		now:         time.Now,
	}
}

// Load fetches teams, roster, player game logs, the games sheet and the box
// score index. Roster and index failures fail the load; a player whose game
// log cannot be read is logged and skipped.
func (i *Ingester) Load(ctx context.Context) (*store.Snapshot, error) {
	start := i.now()

	teams, err := i.loadTeams(ctx)
	if err != nil {
		return nil, err
	}

	players, err := i.loadPlayers(ctx)
	if err != nil {
		return nil, err
	}
	assignTeams(players, teams)

	records, err := i.loadPlayerRecords(ctx, players, teams)
	if err != nil {
		return nil, err
	}

	schedule, err := i.loadRows(ctx, i.sources.Games)
	if err != nil {
		log.Printf("[sheets] ⚠️  games sheet unavailable: %v (continuing without schedule)", err)
		schedule = []stats.RawRow{}
	}

	boxScores, err := i.loadBoxScoreIndex(ctx)
	if err != nil {
		return nil, err
	}

	snap := &store.Snapshot{
		Teams:     teams,
		Players:   players,
		Records:   records,
		Schedule:  schedule,
		BoxScores: boxScores,
		LoadedAt:  i.now(),
	}

	log.Printf("[sheets] ✓ Loaded %d teams, %d players, %d game records, %d games, %d box scores in %v",
		len(teams), len(players), len(records), len(schedule), len(boxScores), i.now().Sub(start).Round(time.Millisecond))

	return snap, nil
}

func (i *Ingester) loadTeams(ctx context.Context) ([]store.Team, error) {
	text, err := i.source.Fetch(ctx, i.sources.Teams)
	if err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	return ParseTeams([]byte(text))
}

func (i *Ingester) loadPlayers(ctx context.Context) ([]store.Player, error) {
	text, err := i.source.Fetch(ctx, i.sources.Players)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	return ParsePlayers([]byte(text))
}

// loadRows fetches and tokenizes one sheet. A missing source yields no rows.
func (i *Ingester) loadRows(ctx context.Context, source string) ([]stats.RawRow, error) {
	text, err := i.source.Fetch(ctx, source)
	if errors.Is(err, ErrNoSource) {
		return []stats.RawRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseTable(text)
}

// loadPlayerRecords fetches every player's game log with bounded parallelism.
// Records come back in roster order regardless of completion order.
func (i *Ingester) loadPlayerRecords(ctx context.Context, players []store.Player, teams []store.Team) ([]stats.GameRecord, error) {
	perPlayer := make([][]stats.GameRecord, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.parallelism)

	for idx, p := range players {
		if IsNoSource(p.Source) {
			continue
		}
		g.Go(func() error {
			rows, err := i.loadRows(gctx, p.Source)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("[sheets] ⚠️  skipping %s: %v", p.Slug, err)
				return nil
			}
			perPlayer[idx] = i.normalizePlayer(p, rows, teams)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading player game logs: %w", err)
	}

	records := make([]stats.GameRecord, 0)
	for _, recs := range perPlayer {
		records = append(records, recs...)
	}
	return records, nil
}

func (i *Ingester) normalizePlayer(p store.Player, rows []stats.RawRow, teams []store.Team) []stats.GameRecord {
	records := make([]stats.GameRecord, 0, len(rows))
	for _, row := range rows {
		r := i.normalizer.Normalize(row, p.Slug, p.Name)
		if r.Team == "" {
			r.Team = p.TeamSlug
		} else {
			r.Team = canonicalTeam(r.Team, teams)
		}
		records = append(records, r)
	}
	return records
}

// loadBoxScoreIndex reads the index of per-game box score sheets.
func (i *Ingester) loadBoxScoreIndex(ctx context.Context) ([]store.BoxScoreEntry, error) {
	rows, err := i.loadRows(ctx, i.sources.BoxScoreIndex)
	if err != nil {
		return nil, fmt.Errorf("loading box score index: %w", err)
	}

	entries := make([]store.BoxScoreEntry, 0, len(rows))
	for _, row := range rows {
		id := row.Text("game_id", "gameId")
		if id == "" {
			continue
		}
		date := row.Text("date")
		season, ok := stats.ParseSeasonLabel(row.Text("season"))
		if !ok {
			season = i.normalizer.Calendar.Derive(date)
		}
		entries = append(entries, store.BoxScoreEntry{
			GameID:     id,
			Date:       date,
			Team1Slug:  row.Text("team1_slug", "team1"),
			Team2Slug:  row.Text("team2_slug", "team2"),
			ScoreTeam1: row.Text("score_team1"),
			ScoreTeam2: row.Text("score_team2"),
			Season:     season,
			Phase:      stats.ParsePhase(row.Text("phase")),
			Source:     row.Text("csv_url", "csvUrl"),
		})
	}
	return entries, nil
}

// LoadBoxScore fetches the per-game sheet of an index entry. An entry without
// a sheet has no rows.
func (i *Ingester) LoadBoxScore(ctx context.Context, entry store.BoxScoreEntry) ([]stats.RawRow, error) {
	if IsNoSource(entry.Source) {
		return []stats.RawRow{}, nil
	}
	rows, err := i.loadRows(ctx, strings.TrimSpace(entry.Source))
	if err != nil {
		return nil, fmt.Errorf("loading box score %s: %w", entry.GameID, err)
	}
	return rows, nil
}
