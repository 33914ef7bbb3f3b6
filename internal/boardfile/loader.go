package boardfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFile reads and parses a single board file. The format is chosen by
// extension; files without a known extension are read as text.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		ext = ".txt"
	}

	def, err := Parse(data, ext)
	if err != nil {
		return Definition{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	if def.ID == "" {
		def.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	def.FilePath = path
	return def, nil
}

// Loader loads a puzzle pack: a directory tree of board files.
type Loader struct {
	Root string

	// Errors holds the files LoadAll skipped, keyed by path.
	Errors map[string]error
}

// NewLoader creates a loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every supported board file under Root.
// Unparseable files are skipped and recorded in Errors. Results are
// sorted by ID.
func (l *Loader) LoadAll() ([]Definition, error) {
	var defs []Definition
	l.Errors = make(map[string]error)

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !Supported(filepath.Ext(path)) {
			return nil
		}

		def, err := LoadFile(path)
		if err != nil {
			l.Errors[path] = err
			return nil
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

// LoadByID loads the board with the given ID.
func (l *Loader) LoadByID(id string) (Definition, error) {
	defs, err := l.LoadAll()
	if err != nil {
		return Definition{}, err
	}
	for _, d := range defs {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %s", ErrBoardNotFound, id)
}

// ListIDs returns all board IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	defs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids, nil
}
