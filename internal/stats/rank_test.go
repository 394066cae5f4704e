package stats

import "testing"

func entry(name string, games int, totals StatLine) AggregateEntry {
	return AggregateEntry{
		SubjectID:   name,
		SubjectName: name,
		GamesPlayed: games,
		Totals:      totals,
		Averages:    totals.Div(float64(games)),
		Percentages: ShootingPercentages(totals),
	}
}

func names(entries []AggregateEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.SubjectName
	}
	return out
}

func TestRank(t *testing.T) {
	entries := []AggregateEntry{
		entry("Cam", 4, StatLine{Points: 40, FGMade: 10, FGAtt: 20}),
		entry("Ari", 1, StatLine{Points: 20, FGMade: 5, FGAtt: 5}),
		entry("Bo", 2, StatLine{Points: 20, FGMade: 0, FGAtt: 0}),
		entry("Dee", 2, StatLine{Points: 20, FGMade: 5, FGAtt: 10}),
	}

	tests := []struct {
		name string
		key  StatKey
		mode Mode
		want []string
	}{
		{"average points", StatKey(FieldPoints), ModeAverage, []string{"Ari", "Bo", "Cam", "Dee"}},
		{"total points", StatKey(FieldPoints), ModeTotal, []string{"Cam", "Ari", "Bo", "Dee"}},
		{"games played ignores mode", StatGamesPlayed, ModeAverage, []string{"Cam", "Bo", "Dee", "Ari"}},
		{"fg pct", StatFGPct, ModeTotal, []string{"Ari", "Cam", "Dee", "Bo"}},
		{"unknown stat falls back to names", StatKey("dunks"), ModeTotal, []string{"Ari", "Bo", "Cam", "Dee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Rank(entries, tt.key, tt.mode))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Rank(%s, %s) = %v, want %v", tt.key, tt.mode, got, tt.want)
				}
			}
		})
	}

	if entries[0].SubjectName != "Cam" {
		t.Errorf("Rank modified its input")
	}
}

func TestRank_TieBreakByName(t *testing.T) {
	entries := []AggregateEntry{
		entry("Zed", 1, StatLine{Assists: 5}),
		entry("Amy", 1, StatLine{Assists: 5}),
		entry("Max", 1, StatLine{Assists: 5}),
	}
	got := names(Rank(entries, StatKey(FieldAssists), ModeAverage))
	want := []string{"Amy", "Max", "Zed"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank() = %v, want %v", got, want)
		}
	}
}

func TestParseStatKeyAndMode(t *testing.T) {
	for _, ok := range []string{"points", "totalReb", "gamesPlayed", "fgPct", "threePct", "ftPct"} {
		if _, err := ParseStatKey(ok); err != nil {
			t.Errorf("ParseStatKey(%q) error: %v", ok, err)
		}
	}
	if _, err := ParseStatKey("dunks"); err == nil {
		t.Error("ParseStatKey(dunks) should fail")
	}
	if _, err := ParseMode("total"); err != nil {
		t.Errorf("ParseMode(total) error: %v", err)
	}
	if _, err := ParseMode("median"); err == nil {
		t.Error("ParseMode(median) should fail")
	}
}
