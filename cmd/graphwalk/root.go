package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smallnest/graphwalk/config"
	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootFlags mirrors the command line; only flags the user set override the
// loaded configuration.
type rootFlags struct {
	configPath string
	input      string
	output     string
	walks      int
	length     int
	sample     float64
	threads    int
	seed       uint64
	logLevel   string

	server    bool
	port      int
	batchSize int
	outputDir string
	storeURL  string
	session   string
	strict    bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "graphwalk",
		Short: "Sample random walks over a knowledge graph",
		Long: "graphwalk loads subject-predicate-object triples and writes random walks\n" +
			"as CSV lines, either once for a sample of start nodes or on request\n" +
			"from a TCP server.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, f)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML configuration file")
	pf.StringVarP(&f.input, "file", "f", def.Input, "input graph file")
	pf.StringVar(&f.logLevel, "log-level", def.LogLevel, "log level: debug, info, warn, error, none")

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", def.Output, "output file for walks")
	fl.IntVarP(&f.walks, "walks", "w", def.Walks, "number of walks per node")
	fl.IntVarP(&f.length, "length", "l", def.Length, "length of each walk in entities")
	fl.Float64VarP(&f.sample, "sample", "s", def.Sample, "sampling rate for start nodes (0.0-1.0)")
	fl.IntVarP(&f.threads, "threads", "t", def.Threads, "number of worker goroutines")
	fl.Uint64Var(&f.seed, "seed", 0, "base random seed (0 picks one from the clock)")
	fl.BoolVarP(&f.server, "server", "S", false, "serve random walks over a socket")
	fl.IntVarP(&f.port, "port", "p", def.Server.Port, "port number for server mode")
	fl.IntVar(&f.batchSize, "batch-size", def.Server.BatchSize, "start nodes per server request")
	fl.StringVar(&f.outputDir, "output-dir", def.Server.OutputDir, "directory for server artifacts")
	fl.StringVar(&f.storeURL, "store", def.Server.Store, "run record store URL (memory://, file://, sqlite://, postgres://, redis://, none)")
	fl.StringVar(&f.session, "session", "", "session ID for run records")
	fl.BoolVar(&f.strict, "strict", false, "never accept duplicate walks in server mode")

	cmd.AddCommand(newClientCmd())
	cmd.AddCommand(newBenchCmd(f))
	cmd.AddCommand(newRunsCmd())
	return cmd
}

// loadConfig layers explicitly set flags over the file and environment.
func loadConfig(cmd *cobra.Command, f *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	set := func(name string, apply func()) {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			apply()
		}
	}
	set("file", func() { cfg.Input = f.input })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("output", func() { cfg.Output = f.output })
	set("walks", func() { cfg.Walks = f.walks })
	set("length", func() { cfg.Length = f.length })
	set("sample", func() { cfg.Sample = f.sample })
	set("threads", func() { cfg.Threads = f.threads })
	set("seed", func() { cfg.Seed = f.seed })
	set("server", func() { cfg.Server.Enabled = f.server })
	set("port", func() { cfg.Server.Port = f.port })
	set("batch-size", func() { cfg.Server.BatchSize = f.batchSize })
	set("output-dir", func() { cfg.Server.OutputDir = f.outputDir })
	set("store", func() { cfg.Server.Store = f.storeURL })
	set("session", func() { cfg.Server.Session = f.session })
	set("strict", func() { cfg.Server.Strict = f.strict })

	return cfg, nil
}

func newLogger(cmd *cobra.Command, level string) (log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New(lvl, cmd.ErrOrStderr())
	log.SetDefaultLogger(logger)
	return logger, nil
}

func loadGraph(ctx context.Context, path string, logger log.Logger) (*kg.Graph, error) {
	g, _, err := kg.LoadFile(ctx, path, kg.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	logger.Info("Loaded graph with %d nodes and %d edges", g.Len(), g.EdgeCount())
	return g, nil
}

func runRoot(cmd *cobra.Command, f *rootFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cmd, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := loadGraph(ctx, cfg.Input, logger)
	if err != nil {
		return err
	}

	if cfg.Server.Enabled {
		return runServer(ctx, cmd, cfg, g, logger)
	}
	return runBatch(ctx, cmd, cfg, g, logger)
}
