package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tmshv/bulletin/cli"
	"github.com/tmshv/bulletin/feed"
	"github.com/tmshv/bulletin/internal/config"
	"github.com/tmshv/bulletin/internal/logging"
	"github.com/tmshv/bulletin/source"
	"github.com/tmshv/bulletin/store"
)

type Globals struct {
	Config   string `help:"Path to a YAML config file." type:"path"`
	LogLevel string `help:"Log level: debug, info, warn or error. Overrides the config."`
}

type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	session  *cli.Session
	importer *source.Importer
	stdin    io.Reader
	stdout   io.Writer
}

type RunCmd struct{}

func (c *RunCmd) Run(app *App) error {
	return cli.NewMenu(app.session, app.stdin, app.stdout, app.logger).Run()
}

type ImportCmd struct {
	Format string `arg:"" enum:"txt,json,xml,rss" help:"Source format: txt, json, xml or rss."`
	Path   string `arg:"" optional:"" help:"Source file (txt) or folder. Defaults to the configured one."`
	Print  bool   `help:"Print the published feed when done."`
}

func (c *ImportCmd) Run(app *App) error {
	format, err := source.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	path := c.Path
	if path == "" {
		path = app.session.DefaultPath(format)
	}

	report, ok, err := app.session.Import(format, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nothing imported from %s: %w", path, report.Err())
	}
	if err := app.session.ExportStats(); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%d records added, %d skipped\n", len(report.Added), len(report.Skipped))
	if c.Print {
		fmt.Fprint(app.stdout, app.session.Feed().PublishFeed())
	}
	return nil
}

type ConvertCmd struct {
	From string `arg:"" enum:"txt,json,xml,rss" help:"Format to read."`
	To   string `arg:"" enum:"txt,json,xml" help:"Format to write."`
	Src  string `help:"Source file or folder. Defaults to the configured one."`
	Dst  string `help:"Destination file or folder. Defaults to the configured one."`
}

func (c *ConvertCmd) Run(app *App) error {
	from, err := source.ParseFormat(c.From)
	if err != nil {
		return err
	}
	to, err := source.ParseFormat(c.To)
	if err != nil {
		return err
	}

	src, err := source.New(from, pathOr(c.Src, app.session.DefaultPath(from)), app.cfg.Sources.DefaultCity, app.logger)
	if err != nil {
		return err
	}
	dst, err := source.New(to, pathOr(c.Dst, app.session.DefaultPath(to)), app.cfg.Sources.DefaultCity, app.logger)
	if err != nil {
		return err
	}
	writer, ok := dst.(source.Writer)
	if !ok {
		return fmt.Errorf("cannot write %s", to)
	}

	report, err := app.importer.Convert(src, writer)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%d records converted, %d skipped\n", len(report.Added), len(report.Skipped))
	return nil
}

func pathOr(path string, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

type CLI struct {
	Globals

	Run     RunCmd     `cmd:"" default:"1" help:"Add records through the interactive menu."`
	Import  ImportCmd  `cmd:"" help:"Import one source and save the feed."`
	Convert ConvertCmd `cmd:"" help:"Rewrite the records of one source in another format."`
}

var kongOptions = []kong.Option{
	kong.Name("bulletin"),
	kong.Description("Collects news, private ads and weather into one feed."),
	kong.UsageOnError(),
}

// run executes the parsed command. Resources it opens are released before
// it returns, whatever the outcome.
func run(ctx *kong.Context, globals Globals, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(globals.Config, config.WithLogLevel(globals.LogLevel))
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	st, err := store.NewFileStore(store.FileOptions{
		Dir:          cfg.Output.Dir,
		FeedFile:     cfg.Output.FeedFile,
		WordCounts:   cfg.Output.WordCounts,
		LetterCounts: cfg.Output.LetterCounts,
		Workbook:     cfg.Output.Workbook,
	}, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	importer := source.NewImporter(logger)
	app := &App{
		cfg:      cfg,
		logger:   logger,
		session:  cli.NewSession(feed.New(logger), st, importer, cfg.Sources, logger),
		importer: importer,
		stdin:    stdin,
		stdout:   stdout,
	}

	if err := ctx.Run(app); err != nil {
		logger.Error("Command failed", slog.String("command", ctx.Command()), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func main() {
	var c CLI
	ctx := kong.Parse(&c, kongOptions...)
	ctx.FatalIfErrorf(run(ctx, c.Globals, os.Stdin, os.Stdout))
}
