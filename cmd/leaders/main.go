package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/fortuna/mystats/internal/config"
	"github.com/fortuna/mystats/internal/ingest"
	"github.com/fortuna/mystats/internal/service"
	"github.com/fortuna/mystats/internal/store"
)

const (
	appName    = "mystats-leaders"
	appVersion = "1.0.0"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to TOML config (default $MYSTATS_CONFIG)")
		season     = flag.String("season", "", "Season label (e.g. \"2024 Winter\"), \"all\", or empty for the latest")
		phase      = flag.String("phase", "", "regular, playoff or all")
		team       = flag.String("team", "", "Limit to one team slug")
		stat       = flag.String("stat", "points", "Stat to rank by")
		mode       = flag.String("mode", "average", "average or total")
		top        = flag.Int("top", 10, "Number of leaders to print (0 for all)")
		records    = flag.Bool("records", false, "Print season highs instead of leaders")
	)
	flag.Parse()

	log.Printf("=== %s v%s ===", appName, appVersion)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	fetcher, closeFetcher := ingest.NewFetcherForMode(cfg.Sources.FetchMode, cfg.Sources.RequestsPerSecond, cfg.FetchTimeout(), nil)
	defer closeFetcher()

	snap, err := ingest.NewIngester(fetcher, cfg.Sources).Load(context.Background())
	if err != nil {
		log.Fatalf("load data: %v", err)
	}

	st := store.New()
	st.Replace(snap)
	svc := service.NewStatsService(st)
	q := service.Query{Season: *season, Phase: *phase}

	if *records {
		highs, err := svc.GetRecords(service.RecordsQuery{Query: q, Team: *team})
		if err != nil {
			log.Fatalf("records: %v", err)
		}
		printRecords(os.Stdout, highs)
		return
	}

	board, err := svc.GetLeaders(service.LeadersQuery{Query: q, Team: *team, Stat: *stat, Mode: *mode, Limit: *top})
	if err != nil {
		log.Fatalf("leaders: %v", err)
	}
	printLeaders(os.Stdout, board)
}

func printLeaders(out io.Writer, board *service.Leaderboard) {
	fmt.Fprintf(out, "%s (%s), season %s\n\n", board.Stat, board.Mode, board.Options.Selected)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tTEAM\tGP\tVALUE")
	for _, e := range board.Entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.1f\n", e.Rank, e.SubjectName, e.TeamSlug, e.GamesPlayed, e.Value)
	}
	w.Flush()
}

func printRecords(out io.Writer, records *service.Records) {
	fmt.Fprintf(out, "Season highs, season %s\n\n", records.Options.Selected)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPLAYER\tVALUE\tOPPONENT\tDATE")
	for _, r := range records.Highs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n", r.Category, r.SubjectName, r.Value, r.Opponent, r.Date)
	}
	w.Flush()
}
