// mirrorhouse traces a laser beam through a house of mirrors.
//
// Usage:
//
//	mirrorhouse solve -i <file>     - Run a board and print the console report
//	mirrorhouse solve --board <id>  - Run a puzzle pack board by ID
//	mirrorhouse validate <file>...  - Check board files without running them
//	mirrorhouse watch [-i <file>]   - Animate a run, or pick one from the puzzle pack
//	mirrorhouse history [board]     - Show recorded runs
//	mirrorhouse list [dir]          - List the boards of a puzzle pack
//	mirrorhouse serve               - Start the SSH browser and HTTP solve API
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.mirrorhouse, ./configs)
//	--max-steps <n>     - Step budget per run (default: 2000)
//	--db <path>         - History database (default: ~/.mirrorhouse/history.db)
//	--no-history        - Do not record runs
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/config"
	"github.com/vovakirdan/mirrorhouse/internal/logging"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
	"github.com/vovakirdan/mirrorhouse/internal/storage"
)

var (
	// Global flags
	flagConfig    string
	flagMaxSteps  int
	flagDBPath    string
	flagNoHistory bool
	flagLogLevel  string
)

var (
	cfg    = config.DefaultConfig()
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mirrorhouse",
	Short: "Mirror House - trace a laser through a house of mirrors",
	Long: `Mirror House simulates a laser beam entering a rectangular grid of
rooms from an edge, bouncing off two-way and one-way mirrors, and reports
the room and direction through which it leaves.

Available commands:
  solve     - Run a board and print the step report
  validate  - Check board files without running them
  watch     - Animate a run step by step
  history   - Show recorded runs
  list      - List the boards of a puzzle pack
  serve     - Start the SSH puzzle browser and HTTP solve API

Examples:
  mirrorhouse solve -i puzzles/turn.txt
  mirrorhouse watch -i puzzles/turn.txt --speed fast
  mirrorhouse validate puzzles/*.txt
  mirrorhouse serve --ssh :23235 --http :8080`,
	SilenceUsage:     true,
	PersistentPreRun: loadSettings,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagMaxSteps, "max-steps", mirror.DefaultMaxSteps, "Step budget per run")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record runs")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings loads the config file and applies flag overrides.
func loadSettings(cmd *cobra.Command, _ []string) {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	flags := cmd.Flags()
	if flags.Changed("max-steps") {
		loaded.Simulation.MaxSteps = flagMaxSteps
	}
	if flags.Changed("db") {
		loaded.Storage.DBPath = flagDBPath
	}
	if flagNoHistory {
		loaded.Storage.Enabled = false
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg = loaded
	logger = logging.New(cfg.Log, "mirrorhouse")
	logger.Debug("config loaded", "max_steps", maxSteps(), "history", cfg.Storage.Enabled)
}

// maxSteps returns the effective step budget.
func maxSteps() int {
	if cfg.Simulation.MaxSteps <= 0 {
		return mirror.DefaultMaxSteps
	}
	return cfg.Simulation.MaxSteps
}

// boardOptions returns the engine options selected by the config.
func boardOptions() []mirror.BoardOption {
	if cfg.Simulation.LegacyRightGate {
		return []mirror.BoardOption{mirror.WithLegacyRightGate()}
	}
	return nil
}

// loadBoard reads a board file and places the beam on its entry.
func loadBoard(path string) (boardfile.Definition, *mirror.Board, mirror.Beam, error) {
	def, err := boardfile.LoadFile(path)
	if err != nil {
		return boardfile.Definition{}, nil, mirror.Beam{}, err
	}
	return buildBoard(def, path)
}

// loadPackBoard loads a board of the puzzle pack in dir by its ID.
func loadPackBoard(dir, id string) (boardfile.Definition, *mirror.Board, mirror.Beam, error) {
	def, err := boardfile.NewLoader(dir).LoadByID(id)
	if err != nil {
		return boardfile.Definition{}, nil, mirror.Beam{}, fmt.Errorf("%s: %w", dir, err)
	}
	return buildBoard(def, def.FilePath)
}

func buildBoard(def boardfile.Definition, path string) (boardfile.Definition, *mirror.Board, mirror.Beam, error) {
	b, beam, err := def.Build(boardOptions()...)
	if err != nil {
		return def, nil, mirror.Beam{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("board loaded", "id", def.ID, "width", b.W, "height", b.H, "mirrors", b.MirrorCount())
	return def, b, beam, nil
}

// formatList names the board file extensions the loader understands.
func formatList() string {
	return strings.Join(boardfile.Extensions(), " ")
}

// openStore opens the history database. It returns nil when history is
// disabled or the database cannot be opened; runs still work without it.
func openStore() *storage.Store {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.Open(config.ExpandHome(cfg.Storage.DBPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return nil
	}
	return store
}

// recordRun saves a finished run, logging instead of failing.
func recordRun(store *storage.Store, def boardfile.Definition, b *mirror.Board, out mirror.Outcome, source string) {
	if store == nil {
		return
	}
	rec := storage.NewRunRecord(def.ID, def.Hash(), b, out, maxSteps(), source)
	if _, err := store.SaveRun(rec); err != nil {
		logger.Warn("could not record run", "board", def.ID, "error", err)
	}
}
