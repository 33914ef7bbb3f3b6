package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/config"
	"github.com/vovakirdan/mirrorhouse/internal/platform/tui"
	"github.com/vovakirdan/mirrorhouse/internal/storage"
)

var (
	flagWatchInput string
	flagSpeed      string
	flagPaused     bool
	flagPuzzlesDir string
)

var watchCmd = &cobra.Command{
	Use:   "watch [-i <file>]",
	Short: "Animate a run step by step",
	Long: `Animate the beam on the board, one step per tick.

With -i the given board is shown directly. Without it a menu lists the
boards of the puzzle pack (serve.puzzles_dir, or --dir).

Controls:
  Space/P    - Pause or resume
  N/Right    - Single step
  R          - Restart
  +/-        - Faster/slower
  Esc/B      - Back to the menu
  Q/Ctrl+C   - Quit

Speed presets:
  slow   - 2 steps per second
  normal - 8 steps per second
  fast   - 24 steps per second
  max    - 60 steps per second

Examples:
  mirrorhouse watch -i puzzles/turn.txt
  mirrorhouse watch -i puzzles/trap.mh --speed fast --max-steps 100
  mirrorhouse watch --dir ./puzzles`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&flagWatchInput, "input", "i", "", "Board file")
	watchCmd.Flags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast, max")
	watchCmd.Flags().BoolVar(&flagPaused, "paused", false, "Start paused")
	watchCmd.Flags().StringVar(&flagPuzzlesDir, "dir", "", "Puzzle pack directory for the menu")
}

func runWatch(_ *cobra.Command, _ []string) {
	sps := cfg.Watch.StepsPerSecond
	if flagSpeed != "" {
		preset, ok := config.StepsPerSecondForPreset(config.SpeedPreset(flagSpeed))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown speed preset %q\n", flagSpeed)
			os.Exit(1)
		}
		sps = preset
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	opts := tui.WatchOptions{
		MaxSteps:       maxSteps(),
		StepsPerSecond: sps,
		StartPaused:    flagPaused,
		Recorder:       tui.StoreRecorder(store, "cli", logger),
	}

	if flagWatchInput != "" {
		def, b, beam, err := loadBoard(flagWatchInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if _, err := tui.RunWatch(def, b, beam, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dir := cfg.Serve.PuzzlesDir
	if flagPuzzlesDir != "" {
		dir = flagPuzzlesDir
	}
	if err := watchMenu(dir, store, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// watchMenu loops menu -> watch/history -> menu until the user quits.
func watchMenu(dir string, store *storage.Store, opts tui.WatchOptions) error {
	for {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}

		// Re-read the pack so edits show up between runs
		loader := boardfile.NewLoader(dir)
		defs, err := loader.LoadAll()
		if err != nil {
			return fmt.Errorf("loading puzzles from %s: %w", dir, err)
		}
		for path, loadErr := range loader.Errors {
			logger.Debug("skipped puzzle", "path", path, "error", loadErr)
		}

		result, err := tui.RunMenu(defs, len(loader.Errors), width, height)
		if err != nil {
			return err
		}

		switch {
		case result.Quit:
			return nil

		case result.WantsHistory:
			var source tui.HistorySource
			if store != nil {
				source = store
			}
			back, err := tui.RunHistory(source, "", width, height)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}

		case result.Selected != nil:
			def := *result.Selected
			b, beam, err := def.Build(boardOptions()...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", def.ID, err)
				continue
			}
			back, err := tui.RunWatch(def, b, beam, opts)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
		}
	}
}
