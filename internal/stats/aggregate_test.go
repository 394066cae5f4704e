package stats

import (
	"math"
	"testing"
)

func rec(player, season string, phase Phase, line StatLine) GameRecord {
	s, _ := ParseSeasonLabel(season)
	return GameRecord{SubjectID: player, SubjectName: player, Season: s, Phase: phase, Stats: line}
}

func TestAggregate_ScenarioByPlayer(t *testing.T) {
	records := []GameRecord{
		rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 20, FGMade: 8, FGAtt: 15}),
		rec("A", "2024 Winter", PhasePlayoff, StatLine{Points: 10, FGMade: 3, FGAtt: 10}),
		rec("B", "2024 Winter", PhaseRegular, StatLine{Points: 30, FGMade: 12, FGAtt: 20}),
	}

	entries := Aggregate(records, ByPlayer, Filter{Season: "2024 Winter", Phase: AllPhases})
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	a := entries[0]
	if a.SubjectID != "A" || a.GamesPlayed != 2 {
		t.Fatalf("entries[0] = %s with %d games", a.SubjectID, a.GamesPlayed)
	}
	if a.Totals.Points != 30 || a.Averages.Points != 15 {
		t.Errorf("A points total/avg = %v/%v, want 30/15", a.Totals.Points, a.Averages.Points)
	}
	if math.Abs(a.Percentages.FG.Value-0.44) > 1e-9 || !a.Percentages.FG.HasAttempts {
		t.Errorf("A fgPct = %+v, want 0.44 with attempts", a.Percentages.FG)
	}

	ranked := Rank(entries, StatKey(FieldPoints), ModeAverage)
	if ranked[0].SubjectID != "B" || ranked[1].SubjectID != "A" {
		t.Errorf("rank order = [%s %s], want [B A]", ranked[0].SubjectID, ranked[1].SubjectID)
	}
	if ranked[0].Averages.Points != 30 {
		t.Errorf("B average = %v, want 30", ranked[0].Averages.Points)
	}
}

func TestAggregate_Filters(t *testing.T) {
	records := []GameRecord{
		rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 1}),
		rec("A", "2024 Spring", PhasePlayoff, StatLine{Points: 2}),
		rec("B", "2024 Spring", PhaseRegular, StatLine{Points: 4}),
		{SubjectID: "C", SubjectName: "C", Phase: PhaseRegular, Stats: StatLine{Points: 8}},
	}

	tests := []struct {
		name      string
		filter    Filter
		wantIDs   []string
		wantTotal float64
	}{
		{"everything", Filter{}, []string{"A", "B", "C"}, 15},
		{"explicit all", Filter{Season: "all", Phase: "all"}, []string{"A", "B", "C"}, 15},
		{"one season", Filter{Season: "2024 Spring"}, []string{"A", "B"}, 6},
		{"playoffs", Filter{Phase: "playoff"}, []string{"A"}, 2},
		{"regular spring", Filter{Season: "2024 Spring", Phase: "regular"}, []string{"B"}, 4},
		{"no match", Filter{Season: "1999 Summer"}, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Aggregate(records, ByPlayer, tt.filter)
			if len(entries) != len(tt.wantIDs) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.wantIDs))
			}
			var total float64
			for i, e := range entries {
				if e.SubjectID != tt.wantIDs[i] {
					t.Errorf("entries[%d] = %s, want %s", i, e.SubjectID, tt.wantIDs[i])
				}
				if e.GamesPlayed == 0 {
					t.Errorf("entry %s has zero games", e.SubjectID)
				}
				total += e.Totals.Points
			}
			if total != tt.wantTotal {
				t.Errorf("total points = %v, want %v", total, tt.wantTotal)
			}
		})
	}
}

func TestAggregate_AveragesRoundTrip(t *testing.T) {
	records := []GameRecord{
		rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 7, Assists: 3, OffReb: 1, DefReb: 2, TotalReb: 3, FTAtt: 5}),
		rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 11, Assists: 0, Steals: 4, Fouls: 2}),
		rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 4, Blocks: 1, Turnovers: 5, ThreeAtt: 3}),
	}

	for _, e := range Aggregate(records, ByPlayer, Filter{}) {
		for _, f := range SummableFields {
			avg, _ := e.Averages.Get(f)
			total, _ := e.Totals.Get(f)
			if math.Abs(avg*float64(e.GamesPlayed)-total) > 1e-9 {
				t.Errorf("%s: avg %v * %d != total %v", f, avg, e.GamesPlayed, total)
			}
		}
	}
}

func TestAggregate_NoAttempts(t *testing.T) {
	records := []GameRecord{rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 2, FTMade: 2, FTAtt: 2})}

	e := Aggregate(records, ByPlayer, Filter{})[0]
	if e.Percentages.FG.Value != 0 || e.Percentages.FG.HasAttempts {
		t.Errorf("fgPct = %+v, want zero without attempts", e.Percentages.FG)
	}
	if e.Percentages.FT.Value != 1 || !e.Percentages.FT.HasAttempts {
		t.Errorf("ftPct = %+v, want 1 with attempts", e.Percentages.FT)
	}
}

func TestAggregate_GroupBy(t *testing.T) {
	records := []GameRecord{
		{SubjectID: "a", Team: "hawks", Stats: StatLine{Points: 10}},
		{SubjectID: "b", Team: "kings", Stats: StatLine{Points: 6}},
		{SubjectID: "c", Team: "hawks", Stats: StatLine{Points: 4}},
		{SubjectID: "d", Stats: StatLine{Points: 99}},
	}

	byTeam := Aggregate(records, ByTeam(map[string]string{"hawks": "Hawks"}), Filter{})
	if len(byTeam) != 2 {
		t.Fatalf("ByTeam produced %d entries, want 2", len(byTeam))
	}
	if byTeam[0].SubjectName != "Hawks" || byTeam[0].Totals.Points != 14 {
		t.Errorf("hawks entry = %+v", byTeam[0])
	}
	if byTeam[1].SubjectName != "kings" {
		t.Errorf("unnamed team should fall back to slug, got %q", byTeam[1].SubjectName)
	}

	combined := Aggregate(records, Combined("league", "League"), Filter{})
	if len(combined) != 1 || combined[0].GamesPlayed != 4 || combined[0].Totals.Points != 119 {
		t.Errorf("Combined = %+v", combined)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	records := []GameRecord{
		rec("B", "2024 Winter", PhaseRegular, StatLine{Points: 1}),
		rec("A", "2024 Winter", PhaseRegular, StatLine{Points: 2}),
		rec("B", "2024 Winter", PhaseRegular, StatLine{Points: 3}),
	}
	first := Aggregate(records, ByPlayer, Filter{})
	for i := 0; i < 5; i++ {
		again := Aggregate(records, ByPlayer, Filter{})
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
}
