package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List the boards of a puzzle pack",
	Long: `Shows every board file found under a puzzle pack directory
(default: serve.puzzles_dir from the config). Files that fail to load
are reported on stderr. With --ids only the board IDs are printed, one
per line, for use in scripts.

Board file extensions: ` + formatList() + `

Examples:
  mirrorhouse list
  mirrorhouse list puzzles --ids`,
	Args: cobra.MaximumNArgs(1),
	Run:  runList,
}

var flagListIDs bool

func init() {
	listCmd.Flags().BoolVar(&flagListIDs, "ids", false, "Print only the board IDs")
}

func runList(_ *cobra.Command, args []string) {
	dir := cfg.Serve.PuzzlesDir
	if len(args) > 0 {
		dir = args[0]
	}

	loader := boardfile.NewLoader(dir)
	if flagListIDs {
		ids, err := loader.ListIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		printSkipped(loader)
		return
	}

	defs, err := loader.LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(defs) == 0 {
		fmt.Printf("No boards found in %s.\n", dir)
	} else {
		fmt.Printf("Boards in %s:\n", dir)
		fmt.Println()

		// Calculate column widths
		maxIDLen := 2 // "ID" header
		for _, d := range defs {
			if len(d.ID) > maxIDLen {
				maxIDLen = len(d.ID)
			}
		}

		// Print header
		fmt.Printf("  %-*s  %-7s  %-7s  %s\n", maxIDLen, "ID", "Size", "Mirrors", "Title")
		fmt.Printf("  %-*s  %-7s  %-7s  %s\n", maxIDLen, "--", "----", "-------", "-----")

		for _, d := range defs {
			size := fmt.Sprintf("%dx%d", d.Width, d.Height)
			fmt.Printf("  %-*s  %-7s  %-7d  %s\n", maxIDLen, d.ID, size, len(d.Mirrors), d.Title())
		}

		fmt.Println()
		fmt.Println("Run 'mirrorhouse watch --dir " + dir + "' to browse them.")
	}

	printSkipped(loader)
}

// printSkipped reports files the loader could not read.
func printSkipped(loader *boardfile.Loader) {
	if len(loader.Errors) > 0 {
		paths := make([]string, 0, len(loader.Errors))
		for path := range loader.Errors {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		fmt.Fprintln(os.Stderr)
		for _, path := range paths {
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", path, loader.Errors[path])
		}
	}
}
