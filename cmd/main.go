package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/dmasviz/internal/adapters/chart"
	"github.com/okian/dmasviz/internal/adapters/csvsource"
	"github.com/okian/dmasviz/internal/adapters/http/viewer"
	"github.com/okian/dmasviz/internal/adapters/worker"
	app "github.com/okian/dmasviz/internal/app"
	"github.com/okian/dmasviz/internal/config"
	"github.com/okian/dmasviz/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM. Cancelling it dismisses an
	// http viewer.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// cli holds flag values and the state resolved before a subcommand runs.
type cli struct {
	configPath string
	dataRoot   string
	logLevel   string
	viewerKind string
	addr       string
	outputDir  string
	exact      bool
	workers    int

	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "dmasviz",
		Short: "Plot the power and score outputs of a simulation run",
		Long: `dmasviz reads power.csv, taskScores.csv and subtaskScores.csv from
<data-root>/<problem>/ and plots the satellite power telemetry. Charts are
written to --output-dir, or served on --addr until interrupted when the http
viewer is selected.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	flags.StringVar(&c.dataRoot, "data-root", "", "Directory holding the problem statement directories")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&c.viewerKind, "viewer", "", "Chart viewer: file or http")
	flags.StringVar(&c.addr, "addr", "", "Listen address of the http viewer")
	flags.StringVar(&c.outputDir, "output-dir", "", "Directory charts are written to")
	flags.BoolVar(&c.exact, "exact-series", false, "Plot only the named satellites, without the series one index past the last name")
	flags.IntVar(&c.workers, "workers", 0, "Problem statements plotted at once (default number of CPUs)")

	root.AddCommand(c.plotCmd())
	root.AddCommand(c.powerCmd())
	root.AddCommand(c.scoresCmd())
	root.AddCommand(c.summaryCmd())
	root.AddCommand(c.serveCmd())
	return root
}

// setup loads configuration, applies flag overrides and initializes logging.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	path := c.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-root") {
		cfg.DataRoot = c.dataRoot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("viewer") {
		cfg.Viewer = c.viewerKind
	}
	if flags.Changed("addr") {
		cfg.Addr = c.addr
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = c.outputDir
	}
	if flags.Changed("exact-series") {
		cfg.ExactSeries = c.exact
	}
	if flags.Changed("workers") {
		cfg.Workers = c.workers
	}
	if cmd.Name() == "serve" {
		cfg.Viewer = config.ViewerHTTP
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitWithWriter(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
		return err
	}
	c.log = logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	c.log.Debug(ctx, "configuration loaded", logger.Any("config", cfg))
	c.cfg = cfg
	return nil
}

func (c *cli) loader(ctx context.Context) *csvsource.Loader {
	log := c.log.Named("csvsource")
	ld := csvsource.NewLoader(csvsource.Layout{
		Root:        c.cfg.DataRoot,
		PowerFile:   c.cfg.PowerFile,
		TaskFile:    c.cfg.TaskFile,
		SubtaskFile: c.cfg.SubtaskFile,
	}, csvsource.WithLogger(log))
	layout := ld.Layout()
	log.Debug(ctx, "data layout",
		logger.String("root", layout.Root), logger.String("power_file", layout.PowerFile),
		logger.String("task_file", layout.TaskFile), logger.String("subtask_file", layout.SubtaskFile))
	return ld
}

func (c *cli) renderer() *chart.Renderer {
	return chart.NewRenderer(
		chart.WithTitle(c.cfg.ChartTitle),
		chart.WithFormat(c.cfg.ChartFormat),
		chart.WithSize(c.cfg.ChartWidthCM, c.cfg.ChartHeightCM),
		chart.WithExactSeries(c.cfg.ExactSeries),
		chart.WithLogger(c.log.Named("chart")),
	)
}

func (c *cli) newViewer() app.Viewer {
	if c.cfg.Viewer == config.ViewerHTTP {
		return viewer.NewHTTPViewer(c.cfg.Addr, viewer.WithLogger(c.log.Named("viewer")))
	}
	return viewer.NewFileViewer(c.cfg.OutputDir, c.log.Named("viewer"))
}

func (c *cli) service(ctx context.Context) *app.Service {
	return app.New(
		app.WithLogger(c.log),
		app.WithLoader(c.loader(ctx)),
		app.WithRenderer(c.renderer()),
		app.WithViewer(c.newViewer()),
	)
}

func (c *cli) pool(svc *app.Service) *worker.Pool {
	return worker.NewPool(svc,
		worker.WithSize(c.cfg.Workers),
		worker.WithLogger(c.log.Named("batch")),
	)
}
