package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/ezBadminton/volleyrank/core"
	"github.com/ezBadminton/volleyrank/internal/config"
	"github.com/ezBadminton/volleyrank/internal/source"
	"github.com/ezBadminton/volleyrank/internal/store"
	"github.com/ezBadminton/volleyrank/internal/telemetry"
	"github.com/ezBadminton/volleyrank/rating"
	"github.com/ezBadminton/volleyrank/sheet"
	"github.com/ezBadminton/volleyrank/volleyball"
)

type options struct {
	season    string
	category  string
	sheets    string
	day       int
	daily     bool
	qualified bool
	sorting   string
	dot       string
	db        string
	strict    bool
	strategy  string
	pool      bool
	team      string
	setters   string
}

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	var opts options
	flag.StringVar(&opts.season, "season", "", "season of the results file to read from the data dir")
	flag.StringVar(&opts.category, "category", "", "category of the results file to read from the data dir")
	flag.StringVar(&opts.sheets, "sheets", cfg.SheetsPath, "JSON match sheets")
	flag.IntVar(&opts.day, "day", 0, "day of the board (default: last day)")
	flag.BoolVar(&opts.daily, "daily", false, "rank on the matches of the day only")
	flag.BoolVar(&opts.qualified, "qualified", false, "rank the teams in course only")
	flag.StringVar(&opts.sorting, "sort", "points", "board order: points or rating")
	flag.StringVar(&opts.dot, "dot", "", "write the competition graph in DOT to this file")
	flag.StringVar(&opts.db, "db", cfg.DBPath, "save a snapshot to this SQLite database")
	flag.BoolVar(&opts.strict, "strict", cfg.StrictSheets, "fail on sheets that disagree with the results")
	flag.StringVar(&opts.strategy, "strategy", cfg.Strategy, "rating strategy: set or match")
	flag.BoolVar(&opts.pool, "pool", false, "process as pools whatever the entity")
	flag.StringVar(&opts.team, "team", "", "print the sheet stats of this team")
	flag.StringVar(&opts.setters, "setters", "", "comma separated setter licences for -team")
	flag.Parse()

	if err := run(context.Background(), cfg, opts, flag.Args(), os.Stdout); err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, paths []string, out io.Writer) error {
	model := rating.DefaultModel()
	settings := volleyball.DefaultSettings
	strategy, err := rating.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	var rf config.RatingFile
	if _, err := os.Stat(cfg.ConfigPath); err == nil {
		rf, err = config.LoadRating(cfg.ConfigPath)
		if err != nil {
			return err
		}
		if model, err = rf.Rating.Model(); err != nil {
			return err
		}
		if settings, err = rf.Score.Settings(); err != nil {
			return err
		}
		if rf.Rating.Strategy != "" && opts.strategy == cfg.Strategy {
			if strategy, err = rating.ParseStrategy(rf.Rating.Strategy); err != nil {
				return err
			}
		}
		telemetry.Debugf("Loaded rating config  path=%s", cfg.ConfigPath)
	} else {
		rf.Resource = config.DefaultResource
	}

	if len(paths) == 0 {
		if opts.season == "" || opts.category == "" {
			return errors.New("no results file: pass files or -season and -category")
		}
		name, err := rf.ResourceName(opts.season, opts.category)
		if err != nil {
			return err
		}
		paths = []string{filepath.Join(cfg.DataDir, name)}
	}

	batches, err := readResults(ctx, paths)
	if err != nil {
		return err
	}

	var sheets source.Sheets
	if opts.sheets != "" {
		if sheets, err = source.ReadSheetsFile(opts.sheets); err != nil {
			return err
		}
	}

	name := "CDF"
	if cat, ok := rf.Category(opts.category); ok && cat.Name != "" {
		name = cat.Name
	}
	c := core.NewCompetition(name, opts.season, strings.ToUpper(opts.category), model, strategy)
	processor := core.NewProcessor(core.Options{
		PoolMode:     opts.pool,
		Settings:     settings,
		Sheets:       sheets,
		StrictSheets: opts.strict,
	})
	if err := processor.Process(c, batches); err != nil {
		return err
	}

	sorting := core.SortPoints
	if opts.sorting == "rating" {
		sorting = core.SortRating
	}
	day := opts.day
	if day == 0 {
		day = c.DayCount
	}
	printBoard(out, c, c.Board(sorting, day, opts.daily, opts.qualified), day, opts.daily)

	calibration := core.NewCalibration()
	calibration.AddAll(c.Matches)
	fmt.Fprintf(out, "\n%s\n", calibration)

	if opts.team != "" {
		team, ok := c.Teams[opts.team]
		if !ok {
			return fmt.Errorf("unknown team %s", opts.team)
		}
		printSheetStats(out, team, splitList(opts.setters))
	}

	if opts.dot != "" {
		if err := writeGraph(c, opts.dot); err != nil {
			return err
		}
	}

	if opts.db != "" {
		s, err := store.Open(opts.db)
		if err != nil {
			return err
		}
		defer s.Close()
		if _, err := s.SaveCompetition(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// readResults reads the results files concurrently, one batch per
// file in the order of the paths.
func readResults(ctx context.Context, paths []string) ([][]core.Row, error) {
	batches := make([][]core.Row, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := source.ReadRowsFile(path)
			if err != nil {
				return err
			}
			telemetry.Infof("Read results  path=%s  rows=%d", path, len(rows))
			batches[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func printBoard(out io.Writer, c *core.Competition, board []*core.Team, day int, daily bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTeam\tPts\tM\tW-L\tSets\tPoints\tRating\tFloor\tDifficulty\tDays")
	for i, team := range board {
		s := team.Stats(day, !daily)
		mean, std := c.Difficulty(team, day, !daily)
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d-%d\t%d/%d\t%d/%d\t%.2f ±%.2f\t%.2f\t%.1f ±%.1f\t%s\n",
			i+1, team.Name, s.Points, s.MatchCount, s.MatchWon, s.MatchLost,
			s.SetWon, s.SetLost, s.PointWon, s.PointLost,
			s.Rating.Mu, s.Rating.Sigma, s.Rating.Conservative(), 100*mean, 100*std, c.Trophies(team))
	}
	w.Flush()
}

func printSheetStats(out io.Writer, team *core.Team, setters []string) {
	stats := sheet.CalcStats(setters, team.Sheets)
	fmt.Fprintf(out, "\n%s: %d sheets\n", team.Name, len(team.Sheets))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tSets\tRallies\tServes")
	line := func(label string, st sheet.Stat) {
		fmt.Fprintf(w, "%s\t%d/%d\t%d/%d\t%d/%d\n", label,
			st.SetWon, st.Sets, st.PointWon, st.Points, st.ServeWon, st.Serves)
	}
	line("Total", stats.Total)
	line("Serve", stats.Serve)
	line("Receive", stats.Receive)
	if len(setters) > 0 {
		for i := range stats.PServes {
			line(fmt.Sprintf("P%d serve", i+1), stats.PServes[i])
			line(fmt.Sprintf("P%d receive", i+1), stats.PReceives[i])
		}
	}
	w.Flush()

	if stats.Incomplete {
		fmt.Fprintln(out, "some rallies have no single setter on court")
	}
}

func writeGraph(c *core.Competition, path string) error {
	g, err := c.BuildGraph(nil, nil)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create graph file: %w", err)
	}
	defer f.Close()
	if err := g.WriteDOT(f); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	telemetry.Infof("Wrote graph  path=%s", path)
	return nil
}

func splitList(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
