// Package main is the entry point for the chrest command, which runs
// chunk-learning sessions against a discrimination network model and
// reports what was learned.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/config"
	"github.com/normanking/chrest/internal/logging"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/metrics"
	"github.com/normanking/chrest/internal/pattern"
	"github.com/normanking/chrest/internal/trace"
)

var (
	version = "0.1.0"
	cfgPath string
	dbPath  string
	verbose bool
	noColor bool
	noTrace bool

	cfg    *config.Config
	logger *logging.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chrest",
		Short: "chrest - chunk learning with a discrimination network",
		Long: `chrest presents patterns to a simulated learner that grows a
discrimination network of chunks in virtual time.

Learn a session:     chrest learn session.yaml
Recognise probes:    chrest recognise session.yaml
Network statistics:  chrest stats session.yaml
Configuration:       chrest config show`,
		PersistentPreRunE:  initRuntime,
		PersistentPostRunE: closeRuntime,
		SilenceUsage:       true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.chrest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "trace database path (overrides trace.db_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noTrace, "no-trace", false, "do not record the session in the trace database")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chrest v%s\n", version)
		},
	})
	rootCmd.AddCommand(learnCmd())
	rootCmd.AddCommand(recogniseCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(traceCmd())
	return rootCmd
}

func initRuntime(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Trace.DBPath = dbPath
	}
	if noTrace {
		cfg.Trace.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := &logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Out:    cmd.ErrOrStderr(),
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err = logging.Setup(logCfg)
	if err != nil {
		return err
	}

	profile := termenv.EnvColorProfile()
	if noColor {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	log.Debug().Str("version", version).Str("command", cmd.Name()).Msg("chrest started")
	return nil
}

func closeRuntime(cmd *cobra.Command, args []string) error {
	if logger != nil {
		return logger.Close()
	}
	return nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// newModel builds a model from the loaded configuration.
func newModel() *chrest.Model {
	var opts []chrest.Option
	if cfg.Model.Seed != 0 {
		opts = append(opts, chrest.WithSeed(cfg.Model.Seed))
	}
	return chrest.New(cfg.Model.ToParams(), 0, opts...)
}

func openTrace() (*trace.Store, error) {
	if !cfg.Trace.Enabled {
		return nil, nil
	}
	return trace.Open(cfg.Trace.Driver, cfg.Trace.DBPath)
}

// runSession loads the session file and presents it to a fresh model.
func runSession(ctx context.Context, path, label string, passes int) (*runner, *session, func(), error) {
	s, err := loadSession(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if passes > 0 {
		s.Passes = passes
	}

	r := newRunner(newModel(), s.Gap)
	cleanup := func() {}

	store, err := openTrace()
	if err != nil {
		return nil, nil, nil, err
	}
	if store != nil {
		cleanup = func() { store.Close() }
		if label == "" {
			label = path
		}
		if err := r.withTrace(ctx, store, label); err != nil {
			cleanup()
			return nil, nil, nil, err
		}
	}

	if err := r.learn(ctx, s); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return r, s, cleanup, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// LEARNING COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func learnCmd() *cobra.Command {
	var (
		passes  int
		label   string
		details bool
	)
	cmd := &cobra.Command{
		Use:   "learn [session.yaml]",
		Short: "Present a session's patterns to a new model",
		Long: `Present every pattern of a session file to a new model, pass after
pass, and report the outcome of each presentation.

Examples:
  chrest learn shapes.yaml
  chrest learn shapes.yaml --passes 10 --label "ten passes"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			r, _, cleanup, err := runSession(ctx, args[0], label, passes)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if details {
				for _, e := range r.collector.GetRecentEpisodes(50) {
					fmt.Fprintf(out, "%8d  %-28s %-30s -> %d\n", e.At, e.Pattern, e.Result.Status, e.Result.Time)
				}
			}
			d := metrics.NewDashboard()
			fmt.Fprintln(out, d.RenderSession(r.collector.GetSessionStats()))
			fmt.Fprintln(out, d.RenderCompact(metrics.Collect(r.model, r.now)))
			if r.runID != "" {
				fmt.Fprintf(out, "trace run: %s\n", r.runID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&passes, "passes", 0, "number of passes (overrides the session file)")
	cmd.Flags().StringVar(&label, "label", "", "trace run label (default: the file name)")
	cmd.Flags().BoolVar(&details, "details", false, "list the most recent presentations")
	return cmd
}

func recogniseCmd() *cobra.Command {
	var passes int
	cmd := &cobra.Command{
		Use:     "recognise [session.yaml]",
		Aliases: []string{"recognize"},
		Short:   "Learn a session, then sort its probes through the network",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			r, s, cleanup, err := runSession(ctx, args[0], "", passes)
			if err != nil {
				return err
			}
			defer cleanup()

			probes := s.Probes
			if len(probes) == 0 {
				probes = s.Patterns
			}
			out := cmd.OutOrStdout()
			for _, p := range probes {
				node := r.model.Recognise(p, r.now, false)
				fmt.Fprintln(out, describeRecognition(p, node, r.now))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&passes, "passes", 0, "number of passes (overrides the session file)")
	return cmd
}

func statsCmd() *cobra.Command {
	var (
		passes int
		asJSON bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "stats [session.yaml]",
		Short: "Learn a session and show network statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			r, _, cleanup, err := runSession(ctx, args[0], "", passes)
			if err != nil {
				return err
			}
			defer cleanup()

			snapshot := metrics.Collect(r.model, r.now)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			}
			d := metrics.NewDashboard()
			d.SetWidth(width)
			fmt.Fprintln(out, d.Render(snapshot))
			return nil
		},
	}
	cmd.Flags().IntVar(&passes, "passes", 0, "number of passes (overrides the session file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().IntVar(&width, "width", 80, "dashboard width")
	return cmd
}

func describeRecognition(p *pattern.List, node *ltm.Node, t int) string {
	if node == nil {
		return fmt.Sprintf("%-28s -> (model not available)", p)
	}
	if node.IsRoot() {
		return fmt.Sprintf("%-28s -> nothing recognised", p)
	}
	return fmt.Sprintf("%-28s -> node %d contents %s image %s",
		p, node.Reference(), node.Contents(), node.Image(t))
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIG COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				path = cfg.GetConfigPath()
			}
			if err := config.Default().SaveToPath(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			path := cfgPath
			if path == "" {
				path = cfg.GetConfigPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	})
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// TRACE COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func traceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded learning runs",
	}

	var limit int
	runs := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trace.Open(cfg.Trace.Driver, cfg.Trace.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, run := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
					run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"), run.Label)
			}
			return nil
		},
	}
	runs.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")

	var n int
	recent := &cobra.Command{
		Use:   "recent [run-id]",
		Short: "Show the latest episodes of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trace.Open(cfg.Trace.Driver, cfg.Trace.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			episodes, err := store.Recent(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}
			for _, e := range episodes {
				fmt.Fprintf(cmd.OutOrStdout(), "%5d %8d  %-8s %-28s %s\n",
					e.Seq, e.PresentedAt, e.Modality, e.Pattern, e.Status)
			}
			return nil
		},
	}
	recent.Flags().IntVarP(&n, "number", "n", 20, "number of episodes")

	counts := &cobra.Command{
		Use:   "counts [run-id]",
		Short: "Count a run's episodes by status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trace.Open(cfg.Trace.Driver, cfg.Trace.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			byStatus, err := store.StatusCounts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(byStatus))
			for name := range byStatus {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %d\n", name, byStatus[name])
			}
			return nil
		},
	}

	cmd.AddCommand(runs, recent, counts)
	return cmd
}
