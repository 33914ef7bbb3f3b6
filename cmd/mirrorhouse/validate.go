package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check board files without running them",
	Long: `Load and build each board file, reporting the first problem found in
each. Exits with status 1 if any file is invalid.

Board file extensions: ` + formatList() + `

Examples:
  mirrorhouse validate puzzles/turn.txt
  mirrorhouse validate puzzles/*.txt puzzles/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	failed := 0
	for _, path := range args {
		def, b, _, err := loadBoard(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s  [%s] %v\n", path, errorCode(err), err)
			continue
		}
		fmt.Printf("ok    %s  (%s, %dx%d, %d mirrors)\n", path, def.ID, b.W, b.H, b.MirrorCount())
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d file(s) invalid\n", failed, len(args))
		os.Exit(1)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, boardfile.ErrMalformedBoard):
		return "MALFORMED_BOARD"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, boardfile.ErrBoardNotFound):
		return "NOT_FOUND"
	}
	return mirror.Code(err)
}
