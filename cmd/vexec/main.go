package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"vexec/internal/config"
	"vexec/internal/supervisor"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configPath  string
	chunkSize   int
	colorMode   string
	stdoutColor string
	stderrColor string
	signalExit  string
	usePTY      bool
	logLevel    string
)

// exitError carries the child's exit code out of RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var rootCmd = &cobra.Command{
	Use:   "vexec [flags] cmd [args...]",
	Short: "Run a command and show its stdout and stderr in different colors",
	Long: `vexec runs a command, captures its stdout and stderr separately and, once
the command has exited, writes both to the terminal in the order they were
read, each stream in its own color.

Ordering between the two streams is best effort: when both have output ready
at the same moment, which one is read first is up to the scheduler. Output of
a single stream always keeps its order.

vexec exits with the command's exit code. A command killed by a signal is
reported according to --signal-exit.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("please give at least one arg")
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		level, _ := cfg.Level()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		palette, err := cfg.Palette(term.IsTerminal(int(os.Stdout.Fd())))
		if err != nil {
			return err
		}
		policy, err := cfg.SignalPolicy()
		if err != nil {
			return err
		}

		sup, err := supervisor.Launch(args[0], args[1:],
			supervisor.WithChunkSize(cfg.ChunkSize),
			supervisor.WithSignalPolicy(policy),
			supervisor.WithPTY(cfg.PTY),
			supervisor.WithPalette(palette),
			supervisor.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		d, err := sup.Run()
		if err != nil {
			return err
		}
		if d.ExitCode != 0 {
			return &exitError{code: d.ExitCode}
		}
		return nil
	},
}

// loadConfig reads the config file and applies the flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = chunkSize
	}
	if flags.Changed("color") {
		cfg.Color = colorMode
	}
	if flags.Changed("stdout-color") {
		cfg.StdoutColor = stdoutColor
	}
	if flags.Changed("stderr-color") {
		cfg.StderrColor = stderrColor
	}
	if flags.Changed("signal-exit") {
		cfg.SignalExit = signalExit
	}
	if flags.Changed("pty") {
		cfg.PTY = usePTY
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	defaults := config.Default()

	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default: $VEXEC_CONFIG or $XDG_CONFIG_HOME/vexec/config.toml)")
	rootCmd.Flags().IntVar(&chunkSize, "chunk-size", defaults.ChunkSize, "Maximum number of bytes read from a stream at once")
	rootCmd.Flags().StringVar(&colorMode, "color", defaults.Color, "When to color output: auto, always or never")
	rootCmd.Flags().StringVar(&stdoutColor, "stdout-color", defaults.StdoutColor, "Color for stdout")
	rootCmd.Flags().StringVar(&stderrColor, "stderr-color", defaults.StderrColor, "Color for stderr")
	rootCmd.Flags().StringVar(&signalExit, "signal-exit", defaults.SignalExit, "Exit code when the command is killed by a signal: success (0), failure (1) or shell (128+signal)")
	rootCmd.Flags().BoolVar(&usePTY, "pty", defaults.PTY, "Give the command a pseudo-terminal as stdout")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaults.LogLevel, "Log level for diagnostics on stderr: debug, info, warn or error")

	// Everything after the command belongs to the command.
	rootCmd.Flags().SetInterspersed(false)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
