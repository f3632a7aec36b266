package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tally/internal/calc"
	"tally/internal/config"
	"tally/internal/logging"
	"tally/internal/store"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	noHistory  bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "tally - a console calculator with persistent history",
	Long: `tally is a console calculator.

It performs the four basic arithmetic operations, keeps an append-only
history of every completed operation, and can persist that history to a
local SQLite database under .tally/.

Examples:
  tally add 10 5
  tally divide 12 3
  tally history
  tally run`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
			workspace = wd
		}

		if err := logging.Initialize(workspace); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging unavailable: %v\n", err)
		}

		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .tally/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Skip persisting operations to the history database")

	// Arithmetic commands
	rootCmd.AddCommand(newOpCommand("add", calc.OpAdd, "addition"))
	rootCmd.AddCommand(newOpCommand("subtract", calc.OpSubtract, "subtraction"))
	rootCmd.AddCommand(newOpCommand("multiply", calc.OpMultiply, "multiplication"))
	rootCmd.AddCommand(newOpCommand("divide", calc.OpDivide, "division"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the effective configuration for the current workspace.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath(workspace)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// environment bundles the pieces a command needs: config, calculator, and
// the optional history store bound through a session recorder.
type environment struct {
	cfg       *config.Config
	calc      *calc.Calculator
	store     *store.LocalStore
	sessionID string
}

func (e *environment) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			logging.StoreError("close failed: %v", err)
		}
	}
}

// openEnvironment loads config and, when history is enabled, opens the
// store and begins a session. Store failures degrade to in-memory only.
func openEnvironment(label string) (*environment, error) {
	return newEnvironment(label, true)
}

// openEnvironmentReadOnly opens the store without starting a session.
// Used by commands that only read history.
func openEnvironmentReadOnly() (*environment, error) {
	return newEnvironment("", false)
}

func newEnvironment(label string, startSession bool) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg}

	if cfg.History.Enabled && !noHistory {
		dbPath := cfg.History.DatabasePath
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(workspace, dbPath)
		}

		s, err := store.NewLocalStore(dbPath)
		if err != nil {
			logger.Warn("history store unavailable, continuing in memory",
				zap.String("path", dbPath), zap.Error(err))
		} else if !startSession {
			logging.Store("history store open at %s", dbPath)
			env.store = s
		} else {
			if pruned, err := s.PruneSessions(cfg.GetSessionTTL()); err != nil {
				logger.Warn("failed to prune expired sessions", zap.Error(err))
			} else if pruned > 0 {
				logging.Session("pruned %d expired sessions", pruned)
			}

			sid, err := s.BeginSession(label)
			if err != nil {
				s.Close()
				logger.Warn("failed to begin session, continuing in memory", zap.Error(err))
			} else {
				logging.Store("history store open at %s", dbPath)
				env.store = s
				env.sessionID = sid
				logging.Session("session %s started (%s)", sid, label)
			}
		}
	}

	if env.store != nil && env.sessionID != "" {
		env.calc = calc.NewWithRecorder(store.NewSessionRecorder(env.store, env.sessionID))
	} else {
		env.calc = calc.New()
	}

	return env, nil
}

// formatResult renders a float according to the configured precision.
func formatResult(cfg *config.Config, v float64) string {
	if cfg.Output.Precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', cfg.Output.Precision, 64)
}
