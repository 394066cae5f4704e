package stats

import "strings"

// Phase classifies a game as regular season or playoff.
type Phase string

const (
	PhaseRegular Phase = "regular"
	PhasePlayoff Phase = "playoff"
)

// ParsePhase maps free text to a Phase. Anything other than playoff/playoffs is regular.
func ParsePhase(raw string) Phase {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "playoff", "playoffs":
		return PhasePlayoff
	default:
		return PhaseRegular
	}
}

// StatLine holds one value per summable field.
type StatLine struct {
	Points    float64 `json:"points"`
	OffReb    float64 `json:"offReb"`
	DefReb    float64 `json:"defReb"`
	TotalReb  float64 `json:"totalReb"`
	Assists   float64 `json:"assists"`
	Steals    float64 `json:"steals"`
	Blocks    float64 `json:"blocks"`
	Turnovers float64 `json:"turnovers"`
	Fouls     float64 `json:"fouls"`
	FGMade    float64 `json:"fgMade"`
	FGAtt     float64 `json:"fgAtt"`
	ThreeMade float64 `json:"threeMade"`
	ThreeAtt  float64 `json:"threeAtt"`
	FTMade    float64 `json:"ftMade"`
	FTAtt     float64 `json:"ftAtt"`
}

func (s *StatLine) ptr(f Field) *float64 {
	switch f {
	case FieldPoints:
		return &s.Points
	case FieldOffReb:
		return &s.OffReb
	case FieldDefReb:
		return &s.DefReb
	case FieldTotalReb:
		return &s.TotalReb
	case FieldAssists:
		return &s.Assists
	case FieldSteals:
		return &s.Steals
	case FieldBlocks:
		return &s.Blocks
	case FieldTurnovers:
		return &s.Turnovers
	case FieldFouls:
		return &s.Fouls
	case FieldFGMade:
		return &s.FGMade
	case FieldFGAtt:
		return &s.FGAtt
	case FieldThreeMade:
		return &s.ThreeMade
	case FieldThreeAtt:
		return &s.ThreeAtt
	case FieldFTMade:
		return &s.FTMade
	case FieldFTAtt:
		return &s.FTAtt
	}
	return nil
}

// Get returns the value of f, or false for an unknown field.
func (s StatLine) Get(f Field) (float64, bool) {
	p := s.ptr(f)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set assigns f. Unknown fields are ignored.
func (s *StatLine) Set(f Field, v float64) {
	if p := s.ptr(f); p != nil {
		*p = v
	}
}

// Add accumulates other into s.
func (s *StatLine) Add(other StatLine) {
	for _, f := range SummableFields {
		v, _ := other.Get(f)
		*s.ptr(f) += v
	}
}

// Div returns s with every field divided by n, or the zero line when n is 0.
func (s StatLine) Div(n float64) StatLine {
	var out StatLine
	if n == 0 {
		return out
	}
	for _, f := range SummableFields {
		v, _ := s.Get(f)
		out.Set(f, v/n)
	}
	return out
}

// GameRecord is one subject's canonical stat line for a single game.
type GameRecord struct {
	SubjectID   string   `json:"subjectId"`
	SubjectName string   `json:"subjectName"`
	Team        string   `json:"team,omitempty"`
	GameID      string   `json:"gameId,omitempty"`
	Date        string   `json:"date"`
	Season      Season   `json:"season"`
	Phase       Phase    `json:"phase"`
	Opponent    string   `json:"opponent"`
	Result      string   `json:"result,omitempty"`
	Stats       StatLine `json:"stats"`
}

// Normalizer turns raw rows into GameRecords using an alias table and season calendar.
type Normalizer struct {
	Aliases  AliasTable
	Calendar Calendar
}

// DefaultNormalizer uses DefaultAliases and DefaultCalendar.
var DefaultNormalizer = Normalizer{Aliases: DefaultAliases, Calendar: DefaultCalendar}

// Normalize maps one row to a GameRecord with DefaultNormalizer.
func Normalize(row RawRow, subjectID, subjectName string) GameRecord {
	return DefaultNormalizer.Normalize(row, subjectID, subjectName)
}

// Normalize maps one row to a GameRecord. It never fails: missing or malformed
// numeric cells become 0 and text cells pass through trimmed.
//
// Total rebounds come from an explicit combined column when one is present;
// otherwise they are offensive + defensive. When only the combined column
// exists the components stay 0 rather than being invented.
func (n Normalizer) Normalize(row RawRow, subjectID, subjectName string) GameRecord {
	lr := newLookupRow(row)

	var line StatLine
	for _, f := range SummableFields {
		if f == FieldTotalReb {
			continue
		}
		line.Set(f, n.Aliases.number(lr, f))
	}
	if lr.present(n.Aliases[FieldTotalReb]) {
		line.TotalReb = n.Aliases.number(lr, FieldTotalReb)
	} else {
		line.TotalReb = line.OffReb + line.DefReb
	}

	date := lr.text(dateColumns)
	return GameRecord{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Team:        lr.text(teamColumns),
		GameID:      lr.text(gameIDColumns),
		Date:        date,
		Season:      n.Calendar.Derive(date),
		Phase:       ParsePhase(lr.text(phaseColumns)),
		Opponent:    lr.text(opponentColumns),
		Result:      lr.text(resultColumns),
		Stats:       line,
	}
}

// PlayerName returns the player column of a box score row.
func PlayerName(row RawRow) string {
	return row.Text(playerColumns...)
}
