package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/mystats/internal/config"
	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

type fixture struct {
	dir     string
	sources config.SourcesConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{dir: t.TempDir()}
	fx.write(t, "teams.json", `[{"slug": "hawks", "name": "Northside Hawks"}, {"slug": "kings", "name": "Kings"}]`)
	fx.write(t, "sam.csv", "date,opponent,team,pts,fg,fga\n2024-07-01,Kings,,21,8,15\n2024-07-08,Kings,Northside Hawks,9,3,10\n")
	fx.write(t, "ana.csv", "date,opponent,pts\n2024-07-01,Northside Hawks,17\n")
	fx.write(t, "games.csv", "date,season,phase,team,opponent,result\n2024-07-01,2024 Winter,regular,Northside Hawks,Kings,W 60-55\n")
	fx.write(t, "index.csv", "game_id,date,team1_slug,team2_slug,score_team1,score_team2,csv_url,season,phase\n"+
		"g1,2024-07-01,hawks,kings,60,55,"+filepath.Join(fx.dir, "g1.csv")+",2024 Winter,regular\n"+
		"g2,2024-12-20,kings,hawks,,,n/a,,playoff\n"+
		",2024-07-01,hawks,kings,,,,,\n")
	fx.write(t, "g1.csv", "player,team,pts\nSam Lee,hawks,21\nAna Diaz,kings,17\n")
	fx.write(t, "players.json", `[
		{"slug": "sam-lee", "name": "Sam Lee", "teamName": "Northside Hawks", "csvUrl": "`+filepath.Join(fx.dir, "sam.csv")+`"},
		{"slug": "ana-diaz", "name": "Ana Diaz", "teamSlug": "kings", "csvUrl": "`+filepath.Join(fx.dir, "ana.csv")+`"},
		{"slug": "ghost", "name": "Ghost", "teamSlug": "kings", "csvUrl": "`+filepath.Join(fx.dir, "missing.csv")+`"},
		{"slug": "bench", "name": "Bench", "teamSlug": "kings", "csvUrl": "n/a"}
	]`)

	fx.sources = config.SourcesConfig{
		Teams:              filepath.Join(fx.dir, "teams.json"),
		Players:            filepath.Join(fx.dir, "players.json"),
		Games:              filepath.Join(fx.dir, "games.csv"),
		BoxScoreIndex:      filepath.Join(fx.dir, "index.csv"),
		MaxParallelFetches: 2,
	}
	return fx
}

func (fx *fixture) write(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(fx.dir, name), []byte(body), 0o644))
}

func newTestIngester(sources config.SourcesConfig) *Ingester {
	return NewIngester(NewFetcher(NewHTTPGetter(time.Second, ""), 10, nil), sources)
}

func TestIngester_Load(t *testing.T) {
	fx := newFixture(t)

	snap, err := newTestIngester(fx.sources).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Teams, 2)
	require.Len(t, snap.Players, 4)
	assert.Equal(t, "hawks", snap.Players[0].TeamSlug, "team name resolves to slug")

	require.Len(t, snap.Records, 3, "missing and n/a game logs are skipped")
	assert.Equal(t, []string{"sam-lee", "sam-lee", "ana-diaz"},
		[]string{snap.Records[0].SubjectID, snap.Records[1].SubjectID, snap.Records[2].SubjectID})
	assert.Equal(t, "hawks", snap.Records[0].Team, "blank team falls back to roster team")
	assert.Equal(t, "hawks", snap.Records[1].Team, "team cell is canonicalized")
	assert.Equal(t, "kings", snap.Records[2].Team)
	assert.Equal(t, 21.0, snap.Records[0].Stats.Points)
	assert.Equal(t, "2024 Winter", snap.Records[0].Season.Label)

	assert.Len(t, snap.Schedule, 1)

	require.Len(t, snap.BoxScores, 2, "index rows without a game id are dropped")
	assert.Equal(t, "2024 Winter", snap.BoxScores[0].Season.Label)
	assert.Equal(t, "2024 Summer", snap.BoxScores[1].Season.Label, "season derived from date when blank")
	assert.Equal(t, stats.PhasePlayoff, snap.BoxScores[1].Phase)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestIngester_LoadRosterFailure(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "players.json", `not json`)

	_, err := newTestIngester(fx.sources).Load(context.Background())
	assert.Error(t, err)
}

func TestIngester_LoadWithoutOptionalSheets(t *testing.T) {
	fx := newFixture(t)
	fx.sources.Games = filepath.Join(fx.dir, "nope.csv")
	fx.sources.BoxScoreIndex = ""

	snap, err := newTestIngester(fx.sources).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Schedule)
	assert.Empty(t, snap.BoxScores)
}

func TestIngester_LoadBoxScore(t *testing.T) {
	fx := newFixture(t)
	ing := newTestIngester(fx.sources)
	snap, err := ing.Load(context.Background())
	require.NoError(t, err)

	rows, err := ing.LoadBoxScore(context.Background(), snap.BoxScores[0])
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = ing.LoadBoxScore(context.Background(), snap.BoxScores[1])
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = ing.LoadBoxScore(context.Background(), store.BoxScoreEntry{GameID: "x", Source: filepath.Join(fx.dir, "gone.csv")})
	assert.Error(t, err)
}
