package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
	"github.com/vovakirdan/mirrorhouse/internal/report"
)

var (
	flagInput    string
	flagQuiet    bool
	flagMarkdown bool
	flagBoardID  string
)

var solveCmd = &cobra.Command{
	Use:   "solve [-i <file>]",
	Short: "Run a board and print the step report",
	Long: `Load a board file, fire the laser and print each step until the beam
leaves the board or the step budget runs out. With --board the board is
looked up by ID in the puzzle pack (serve.puzzles_dir) instead.

Board file extensions: ` + formatList() + `

Examples:
  mirrorhouse solve -i puzzles/turn.txt
  mirrorhouse solve puzzles/turn.txt --quiet
  mirrorhouse solve --board gallery
  mirrorhouse solve -i puzzles/zigzag.yaml --markdown
  mirrorhouse solve -i puzzles/trap.mh --max-steps 50`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Board file")
	solveCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Omit the per-step lines")
	solveCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Print a markdown summary instead of the step report")
	solveCmd.Flags().StringVarP(&flagBoardID, "board", "b", "", "Board ID from the puzzle pack")
}

func runSolve(_ *cobra.Command, args []string) {
	var (
		def  boardfile.Definition
		b    *mirror.Board
		beam mirror.Beam
		err  error
	)
	if path := inputPath(args); path != "" {
		def, b, beam, err = loadBoard(path)
	} else if flagBoardID != "" {
		def, b, beam, err = loadPackBoard(cfg.Serve.PuzzlesDir, flagBoardID)
	} else {
		fmt.Fprintln(os.Stderr, "Error: no board given (use -i <file> or --board <id>)")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var res mirror.Result
	if flagMarkdown {
		res = mirror.Run(b, beam, maxSteps())
		md := report.Markdown(def, b, beam, res)
		if report.IsTerminal(os.Stdout) {
			rendered, renderErr := report.Render(md, report.TerminalWidth(os.Stdout, 80))
			if renderErr == nil {
				md = rendered
			} else {
				logger.Warn("could not render markdown", "error", renderErr)
			}
		}
		fmt.Print(md)
	} else {
		res = report.NewPrinter(os.Stdout, flagQuiet).Run(b, beam, maxSteps())
	}

	logger.Info("run finished", "board", def.ID, "outcome", res.Outcome.Kind, "steps", res.Outcome.Steps)

	store := openStore()
	if store != nil {
		recordRun(store, def, b, res.Outcome, "cli")
		store.Close()
	}
}

// inputPath prefers the -i flag over a positional argument.
func inputPath(args []string) string {
	if flagInput != "" {
		return flagInput
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
