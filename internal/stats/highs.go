package stats

import "fmt"

// Category is a season-high category.
type Category string

const (
	CategoryPoints      Category = "points"
	CategoryRebounds    Category = "rebounds"
	CategoryOffRebounds Category = "offRebounds"
	CategoryDefRebounds Category = "defRebounds"
	CategoryAssists     Category = "assists"
	CategorySteals      Category = "steals"
	CategoryBlocks      Category = "blocks"
	CategoryTurnovers   Category = "turnovers"
	CategoryFGMade      Category = "fgMade"
	CategoryThreeMade   Category = "threeMade"
	CategoryFTMade      Category = "ftMade"
	CategoryFGPct       Category = "fgPct"
	CategoryThreePct    Category = "threePct"
	CategoryGamesPlayed Category = "gamesPlayed"
)

// AllCategories lists every tracked category in display order.
var AllCategories = []Category{
	CategoryPoints, CategoryRebounds, CategoryOffRebounds, CategoryDefRebounds,
	CategoryAssists, CategorySteals, CategoryBlocks, CategoryTurnovers,
	CategoryFGMade, CategoryThreeMade, CategoryFTMade,
	CategoryFGPct, CategoryThreePct, CategoryGamesPlayed,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// perGame extracts a category's single-game value. ok is false when the game
// cannot contribute (no attempts for a percentage).
func (c Category) perGame(s StatLine) (v float64, ok bool) {
	switch c {
	case CategoryPoints:
		return s.Points, true
	case CategoryRebounds:
		return s.TotalReb, true
	case CategoryOffRebounds:
		return s.OffReb, true
	case CategoryDefRebounds:
		return s.DefReb, true
	case CategoryAssists:
		return s.Assists, true
	case CategorySteals:
		return s.Steals, true
	case CategoryBlocks:
		return s.Blocks, true
	case CategoryTurnovers:
		return s.Turnovers, true
	case CategoryFGMade:
		return s.FGMade, true
	case CategoryThreeMade:
		return s.ThreeMade, true
	case CategoryFTMade:
		return s.FTMade, true
	case CategoryFGPct:
		p := percentage(s.FGMade, s.FGAtt)
		return p.Value, p.HasAttempts
	case CategoryThreePct:
		p := percentage(s.ThreeMade, s.ThreeAtt)
		return p.Value, p.HasAttempts
	}
	return 0, false
}

// RecordEntry is a season high with the game that produced it. SourceGameID is
// a navigation hint only and is empty for games-played.
type RecordEntry struct {
	Category     Category `json:"category"`
	Value        float64  `json:"value"`
	SubjectID    string   `json:"subjectId"`
	SubjectName  string   `json:"subjectName"`
	Opponent     string   `json:"opponent,omitempty"`
	Date         string   `json:"date,omitempty"`
	SourceGameID string   `json:"sourceGameId,omitempty"`
}

// TrackHighs keeps the single maximum per category across records. Ties go to
// the first record encountered, so callers wanting chronological tie-breaks
// must sort records first. A category whose best value is 0 has no entry.
// Games played is counted per subject, not per game.
func TrackHighs(records []GameRecord, categories []Category) map[Category]RecordEntry {
	highs := make(map[Category]RecordEntry)

	for _, c := range categories {
		if c == CategoryGamesPlayed {
			if e, ok := gamesPlayedHigh(records); ok {
				highs[c] = e
			}
			continue
		}
		var best RecordEntry
		for _, r := range records {
			v, ok := c.perGame(r.Stats)
			if !ok || v <= best.Value {
				continue
			}
			best = RecordEntry{
				Category:     c,
				Value:        v,
				SubjectID:    r.SubjectID,
				SubjectName:  r.SubjectName,
				Opponent:     r.Opponent,
				Date:         r.Date,
				SourceGameID: r.GameID,
			}
		}
		if best.Value > 0 {
			highs[c] = best
		}
	}
	return highs
}

func gamesPlayedHigh(records []GameRecord) (RecordEntry, bool) {
	counts := Aggregate(records, ByPlayer, Filter{})
	var best RecordEntry
	for _, e := range counts {
		if float64(e.GamesPlayed) > best.Value {
			best = RecordEntry{
				Category:    CategoryGamesPlayed,
				Value:       float64(e.GamesPlayed),
				SubjectID:   e.SubjectID,
				SubjectName: e.SubjectName,
			}
		}
	}
	return best, best.Value > 0
}
