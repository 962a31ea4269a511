package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/config"
	"github.com/richard-senior/gamecomp/pkg/pipeline"
	"github.com/richard-senior/gamecomp/pkg/report"
	"github.com/richard-senior/gamecomp/pkg/source"
	"github.com/richard-senior/gamecomp/pkg/store"
	"github.com/richard-senior/gamecomp/pkg/table"
)

const usage = `usage: gamecomp <command> [flags]

commands:
  run       build the enriched table and write it out (default)
  persist   build the enriched table and record the run in the database
  report    render the comparison page from a fresh or a stored run
  runs      list stored runs
  config    print the effective configuration

common flags:
  -config path   TOML configuration file (default gamecomp.toml)
`

// commonFlags are accepted by every command
type commonFlags struct {
	configPath string
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", "gamecomp.toml", "TOML configuration file")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	return fs, c
}

// setup loads the configuration and points the logger where it says
func setup(c *commonFlags) (*config.GameCompConfig, error) {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return nil, err
	}
	config.UpdateConfig(cfg)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if err := logger.SetLogOutput(cfg.LogOutputRune(), cfg.LogPath); err != nil {
		return nil, err
	}
	logger.Debug("Configuration:", cfg)
	return cfg, nil
}

// runPipeline loads every configured season and runs the pipeline over them
func runPipeline(ctx context.Context, cfg *config.GameCompConfig) (*pipeline.Result, error) {
	seasons := make([]*table.Table, len(cfg.Seasons))
	for i, s := range cfg.Seasons {
		logger.Info(fmt.Sprintf("Loading season %d from", s.Year), s.Location)
		t, err := source.Load(ctx, s.Location)
		if err != nil {
			return nil, err
		}
		seasons[i] = t
	}
	return pipeline.Run(pipeline.OptionsFromConfig(cfg), seasons...)
}

func sourcesOf(cfg *config.GameCompConfig) string {
	locations := make([]string, len(cfg.Seasons))
	for i, s := range cfg.Seasons {
		locations[i] = s.Location
	}
	return strings.Join(locations, ",")
}

func cmdRun(ctx context.Context, args []string) error {
	fs, common := newFlagSet("run")
	out := fs.String("out", "", "write the enriched table to this .csv or .xlsx file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup(common)
	if err != nil {
		return err
	}
	res, err := runPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	if *out == "" {
		return source.WriteCSV(os.Stdout, res.Table)
	}
	return source.Save(*out, res.Table)
}

func cmdPersist(ctx context.Context, args []string) error {
	fs, common := newFlagSet("persist")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup(common)
	if err != nil {
		return err
	}
	res, err := runPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	db, err := store.Open(ctx, cfg.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.RecordRun(ctx, store.PipelineRun{
		TrackedTeam:   cfg.TrackedTeam,
		CurrentSeason: cfg.CurrentSeason,
		Sources:       sourcesOf(cfg),
	}, res)
	if err != nil {
		return err
	}
	fmt.Println(run.ID)
	return nil
}

func cmdReport(ctx context.Context, args []string) error {
	fs, common := newFlagSet("report")
	x := fs.String("x", "", "x axis column (default from config)")
	y := fs.String("y", "", "y axis column (default from config)")
	mean := fs.String("mean", "", "mean lines: none, all or current (default from config)")
	runID := fs.String("run", "", "stored run to report on, \"latest\" for the newest")
	out := fs.String("out", "report.html", "output file, .md gives markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup(common)
	if err != nil {
		return err
	}

	opts := report.Options{
		XVar:              cfg.DefaultXAxis,
		YVar:              cfg.DefaultYAxis,
		CurrentSeason:     cfg.CurrentSeason,
		PriorSeasonMarker: cfg.PriorSeasonMarker,
	}
	if *x != "" {
		opts.XVar = *x
	}
	if *y != "" {
		opts.YVar = *y
	}
	modeName := cfg.MeanLineMode
	if *mean != "" {
		modeName = *mean
	}
	if opts.MeanMode, err = report.ParseMeanMode(modeName); err != nil {
		return err
	}

	var games *table.Table
	team := cfg.TrackedTeam
	if *runID == "" {
		res, err := runPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		games = res.Table
	} else {
		db, err := store.Open(ctx, cfg.DbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		id := *runID
		if id == "latest" {
			run, err := db.LatestRun(ctx)
			if err != nil {
				return err
			}
			id, team = run.ID, run.TrackedTeam
			opts.CurrentSeason = run.CurrentSeason
		}
		if games, err = db.LoadGames(ctx, id); err != nil {
			return err
		}
	}

	page, err := report.NewPage(games, team, opts)
	if err != nil {
		return err
	}
	return page.WriteFile(*out, strings.HasSuffix(strings.ToLower(*out), ".md"))
}

func cmdRuns(ctx context.Context, args []string) error {
	fs, common := newFlagSet("runs")
	issues := fs.Bool("issues", false, "also list the row errors and warnings of each run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup(common)
	if err != nil {
		return err
	}
	db, err := store.Open(ctx, cfg.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %-20s %d  games=%d errors=%d warnings=%d\n",
			r.ID, r.CreatedAt, r.TrackedTeam, r.CurrentSeason, r.Games, r.RowErrors, r.Warnings)
		if !*issues {
			continue
		}
		found, err := db.Issues(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, i := range found {
			fmt.Printf("    %-7s %-26s %s\n", i.Level, i.Kind, i.Message)
		}
	}
	return nil
}

func cmdConfig(args []string) error {
	fs, common := newFlagSet("config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup(common)
	if err != nil {
		return err
	}
	return config.Write(os.Stdout, cfg)
}

func main() {
	logger.SetShowDateTime(true)
	defer logger.Close()

	command, args := "run", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}
	logger.Debug("Command:", command, "arguments:", len(args))

	ctx := context.Background()
	var err error
	switch command {
	case "run":
		err = cmdRun(ctx, args)
	case "persist":
		err = cmdPersist(ctx, args)
	case "report":
		err = cmdReport(ctx, args)
	case "runs":
		err = cmdRuns(ctx, args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		err = fmt.Errorf("unknown command %q", command)
		fmt.Fprint(os.Stderr, usage)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Error("gamecomp failed:", err)
		logger.Close()
		os.Exit(1)
	}
}
