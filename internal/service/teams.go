package service

import (
	"fmt"
	"strings"

	"github.com/fortuna/mystats/internal/stats"
	"github.com/fortuna/mystats/internal/store"
)

// TeamService handles team pages
type TeamService struct {
	snapshots SnapshotSource
}

// NewTeamService creates a new team service
func NewTeamService(snapshots SnapshotSource) *TeamService {
	return &TeamService{snapshots: snapshots}
}

// TeamGame is one schedule row as seen from the team.
type TeamGame struct {
	Date     string `json:"date"`
	Season   string `json:"season,omitempty"`
	Phase    string `json:"phase"`
	Opponent string `json:"opponent"`
	Result   string `json:"result,omitempty"`
	GameID   string `json:"gameId,omitempty"`
}

// TeamPage is a team's roster, schedule, player leaders, totals and highs.
// RosterMatched and GamesMatched are false when the resolver found nothing;
// the lists are then empty rather than unfiltered.
type TeamPage struct {
	Team          store.Team             `json:"team"`
	Options       SeasonOptions          `json:"options"`
	Roster        []store.Player         `json:"roster"`
	RosterMatched bool                   `json:"rosterMatched"`
	Games         []TeamGame             `json:"games"`
	GamesMatched  bool                   `json:"gamesMatched"`
	Leaders       []stats.AggregateEntry `json:"leaders"`
	Totals        *stats.AggregateEntry  `json:"totals,omitempty"`
	Highs         []stats.RecordEntry    `json:"highs"`
}

// ListTeams returns every team.
func (s *TeamService) ListTeams() ([]store.Team, error) {
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Teams, nil
}

// GetTeam builds a team page. An empty season means every season.
func (s *TeamService) GetTeam(slug string, q Query) (*TeamPage, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	team, ok := snap.Team(slug)
	if !ok {
		return nil, fmt.Errorf("team %q: %w", slug, ErrNotFound)
	}

	all := snap.RecordsForTeam(team.Slug)
	f := q.filter(all, false)
	records := f.Apply(all)

	roster, rosterMatched := rosterOf(snap, team)
	games, gamesMatched := scheduleOf(snap.Schedule, team, f)

	page := &TeamPage{
		Team:          team,
		Options:       seasonOptions(all, f),
		Roster:        roster,
		RosterMatched: rosterMatched,
		Games:         games,
		GamesMatched:  gamesMatched,
		Leaders:       stats.Rank(stats.Aggregate(records, stats.ByPlayer, stats.Filter{}), stats.StatKey(stats.FieldPoints), stats.ModeAverage),
		Highs:         highsList(stats.TrackHighs(records, stats.AllCategories)),
	}
	if totals := stats.Aggregate(records, stats.Combined(team.Slug, team.Name), stats.Filter{}); len(totals) > 0 {
		page.Totals = &totals[0]
	}
	return page, nil
}

// rosterOf returns the players the resolver places on team.
func rosterOf(snap *store.Snapshot, team store.Team) ([]store.Player, bool) {
	roster := make([]store.Player, 0)
	for _, p := range snap.Players {
		if strings.EqualFold(p.TeamSlug, team.Slug) || stats.ResolveMembership(team.Ref(), p.Row()) {
			roster = append(roster, p)
		}
	}
	return roster, len(roster) > 0
}

// scheduleOf returns the team's games from the schedule sheet. matched
// reports whether any row belonged to the team before season filtering.
func scheduleOf(schedule []stats.RawRow, team store.Team, f stats.Filter) ([]TeamGame, bool) {
	rows := stats.FilterRows(team.Ref(), schedule)

	games := make([]TeamGame, 0, len(rows))
	for _, row := range rows {
		date := row.Text("date", "game_date")
		season, ok := stats.ParseSeasonLabel(row.Text("season"))
		if !ok {
			season = stats.DeriveSeason(date)
		}
		phase := stats.ParsePhase(row.Text("phase", "game_type"))
		if !f.Matches(stats.GameRecord{Season: season, Phase: phase}) {
			continue
		}
		games = append(games, TeamGame{
			Date:     date,
			Season:   season.Label,
			Phase:    string(phase),
			Opponent: stats.ResolveOpponentName(team.Ref(), row),
			Result:   row.Text("result", "res"),
			GameID:   row.Text("game_id", "gameId"),
		})
	}
	return games, len(rows) > 0
}
