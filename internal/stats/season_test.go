package stats

import (
	"reflect"
	"testing"
)

func TestDeriveSeason(t *testing.T) {
	tests := []struct {
		date      string
		wantYear  int
		wantLabel string
	}{
		{"2024-07-15", 2024, "2024 Winter"},
		{"2024-01-10", 2024, "2024 Summer"},
		{"2024-02-29", 2024, "2024 Summer"},
		{"2024-03-01", 2024, "2024 Autumn"},
		{"2024-05-31", 2024, "2024 Autumn"},
		{"2024-06-01", 2024, "2024 Winter"},
		{"2024-08-31", 2024, "2024 Winter"},
		{"2024-09-01", 2024, "2024 Spring"},
		{"2024-11-30", 2024, "2024 Spring"},
		{"2024-12-01", 2024, "2024 Summer"},
		{"2024-07-15T19:30:00Z", 2024, "2024 Winter"},
		{"2023/10/05", 2023, "2023 Spring"},
		{"7/15/2024", 2024, "2024 Winter"},
		{"15 Jul 2024", 2024, "2024 Winter"},
		{"Jul 15, 2024", 2024, "2024 Winter"},
		{"not-a-date", 0, ""},
		{"", 0, ""},
		{"2024-13-01", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := DeriveSeason(tt.date)
			if got.Year != tt.wantYear || got.Label != tt.wantLabel {
				t.Errorf("DeriveSeason(%q) = {%d, %q}, want {%d, %q}", tt.date, got.Year, got.Label, tt.wantYear, tt.wantLabel)
			}
			if got.Known() != (tt.wantLabel != "") {
				t.Errorf("DeriveSeason(%q).Known() = %v", tt.date, got.Known())
			}
		})
	}
}

func TestSeason_SortKey(t *testing.T) {
	summer := DeriveSeason("2024-01-10")
	spring := DeriveSeason("2024-10-10")
	nextSummer := DeriveSeason("2025-01-10")

	if !(summer.SortKey() < spring.SortKey() && spring.SortKey() < nextSummer.SortKey()) {
		t.Errorf("sort keys out of order: %d, %d, %d", summer.SortKey(), spring.SortKey(), nextSummer.SortKey())
	}
	if summer.SortKey() != 20241 {
		t.Errorf("SortKey() = %d, want 20241", summer.SortKey())
	}
}

func TestParseSeasonLabel(t *testing.T) {
	s, ok := ParseSeasonLabel("2024 winter")
	if !ok || s.Year != 2024 || s.Sub != Winter || s.Label != "2024 Winter" {
		t.Errorf("ParseSeasonLabel() = %+v, %v", s, ok)
	}
	for _, bad := range []string{"", "2024", "Winter 2024", "2024 Monsoon"} {
		if _, ok := ParseSeasonLabel(bad); ok {
			t.Errorf("ParseSeasonLabel(%q) should fail", bad)
		}
	}
}

func TestSortSeasonLabels(t *testing.T) {
	labels := []string{"2024 Spring", "mystery", "2023 Winter", "2024 Summer", "2024 Autumn"}
	SortSeasonLabels(labels)

	want := []string{"2023 Winter", "2024 Summer", "2024 Autumn", "2024 Spring", "mystery"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("SortSeasonLabels() = %v, want %v", labels, want)
	}
}

func TestSeasonLabels(t *testing.T) {
	records := []GameRecord{
		{Season: DeriveSeason("2024-10-01")},
		{Season: DeriveSeason("bad date")},
		{Season: DeriveSeason("2024-04-01")},
		{Season: DeriveSeason("2024-10-08")},
	}

	want := []string{"2024 Autumn", "2024 Spring"}
	if got := SeasonLabels(records); !reflect.DeepEqual(got, want) {
		t.Errorf("SeasonLabels() = %v, want %v", got, want)
	}
	if got := LatestSeason(records); got != "2024 Spring" {
		t.Errorf("LatestSeason() = %q, want %q", got, "2024 Spring")
	}
	if got := LatestSeason(nil); got != "" {
		t.Errorf("LatestSeason(nil) = %q, want empty", got)
	}
}
