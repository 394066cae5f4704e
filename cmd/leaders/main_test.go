package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fortuna/mystats/internal/service"
	"github.com/fortuna/mystats/internal/stats"
)

func TestPrintLeaders(t *testing.T) {
	board := &service.Leaderboard{
		Options: service.SeasonOptions{Selected: "2024 Winter"},
		Stat:    stats.StatKey("points"),
		Mode:    stats.ModeAverage,
		Entries: []service.LeaderboardRow{
			{Rank: 1, TeamSlug: "hawks", Value: 21.5, AggregateEntry: stats.AggregateEntry{SubjectName: "Ari", GamesPlayed: 4}},
		},
	}

	var buf bytes.Buffer
	printLeaders(&buf, board)

	out := buf.String()
	assert.Contains(t, out, "points (average), season 2024 Winter")
	assert.Regexp(t, `1\s+Ari\s+hawks\s+4\s+21\.5`, out)
}

func TestPrintRecords(t *testing.T) {
	records := &service.Records{
		Options: service.SeasonOptions{Selected: "all"},
		Highs: []stats.RecordEntry{
			{Category: stats.CategoryPoints, SubjectName: "Bo", Value: 41, Opponent: "Kings", Date: "2024-07-01"},
		},
	}

	var buf bytes.Buffer
	printRecords(&buf, records)

	assert.Regexp(t, `points\s+Bo\s+41\s+Kings\s+2024-07-01`, buf.String())
}
