package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mirrorhouse/internal/platform/tui"
	"github.com/vovakirdan/mirrorhouse/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryPlain bool
	flagHistoryClear bool
	flagHistoryRunID int64
)

var historyCmd = &cobra.Command{
	Use:   "history [board-id]",
	Short: "Show recorded runs",
	Long: `Display recorded runs, newest first. On a terminal an interactive
table is shown; use --plain (or pipe the output) for a text listing.

Examples:
  mirrorhouse history
  mirrorhouse history turn --plain
  mirrorhouse history turn --clear
  mirrorhouse history --id 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print a text listing")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the runs of the given board")
	historyCmd.Flags().Int64Var(&flagHistoryRunID, "id", 0, "Show one run by its number")
}

func runHistory(_ *cobra.Command, args []string) {
	boardID := ""
	if len(args) > 0 {
		boardID = args[0]
	}

	store := openStore()
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: run history is disabled")
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryRunID > 0 {
		if err := printRun(store, flagHistoryRunID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flagHistoryClear {
		if boardID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a board id")
			os.Exit(1)
		}
		if err := store.ClearRuns(boardID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared history of %s\n", boardID)
		return
	}

	if !flagHistoryPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunHistory(store, boardID, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printHistory(store, boardID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHistory(store *storage.Store, boardID string) error {
	var (
		runs []storage.RunRecord
		err  error
	)
	if boardID == "" {
		runs, err = store.RecentRuns(flagHistoryLimit)
	} else {
		runs, err = store.RunsForBoard(boardID, flagHistoryLimit)
	}
	if err != nil {
		return err
	}

	title := "all boards"
	if boardID != "" {
		title = boardID
	}
	fmt.Printf("Run History - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'mirrorhouse solve -i <file>' to record the first one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-5s  %-14s  %-9s  %-10s  %-6s  %s\n", "#", "Board", "Outcome", "Exit", "Steps", "Date")
	fmt.Printf("  %-5s  %-14s  %-9s  %-10s  %-6s  %s\n", "-", "-----", "-------", "----", "-----", "----")

	for _, row := range tui.HistoryRows(runs) {
		fmt.Printf("  %-5s  %-14s  %-9s  %-10s  %-6s  %s\n", row[0], row[1], row[2], row[3], row[4], row[5])
	}

	if boardID != "" {
		stats, err := store.BoardStats(boardID)
		if err == nil && stats.Runs > 0 {
			fmt.Println()
			fmt.Printf("Runs: %d  Exits: %d  Step caps: %d  Avg steps: %.1f\n",
				stats.Runs, stats.Exits, stats.StepCaps, stats.AvgSteps)
		}
	}
	return nil
}

// printRun shows the full record of a single run.
func printRun(store *storage.Store, id int64) error {
	run, err := store.RunByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return fmt.Errorf("no run #%d", id)
		}
		return err
	}

	fmt.Printf("Run #%d - %s\n", run.ID, run.BoardID)
	fmt.Println()
	fmt.Printf("  Board:    %dx%d, %d mirrors (hash %s)\n", run.Width, run.Height, run.Mirrors, run.BoardHash)
	fmt.Printf("  Outcome:  %s\n", run.Outcome)
	fmt.Printf("  Exit:     %s %s\n", run.ExitPos, run.ExitDir)
	fmt.Printf("  Steps:    %d of %d\n", run.Steps, run.MaxSteps)
	fmt.Printf("  Source:   %s\n", run.Source)
	fmt.Printf("  Recorded: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}
