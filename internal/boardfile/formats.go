package boardfile

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParseFunc parses raw file contents into a Definition.
type ParseFunc func(data []byte) (Definition, error)

var (
	parsers = make(map[string]ParseFunc)
	mu      sync.RWMutex
)

// Register adds a parser for a file extension (including the dot).
// Formats register themselves from init. Panics on a duplicate extension.
func Register(ext string, fn ParseFunc) {
	mu.Lock()
	defer mu.Unlock()

	ext = strings.ToLower(ext)
	if _, exists := parsers[ext]; exists {
		panic(fmt.Sprintf("boardfile: format %q already registered", ext))
	}
	parsers[ext] = fn
}

// Extensions returns all registered extensions, sorted.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]string, 0, len(parsers))
	for ext := range parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supported reports whether ext has a registered parser.
func Supported(ext string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := parsers[strings.ToLower(ext)]
	return ok
}

// Parse routes data to the parser registered for ext.
func Parse(data []byte, ext string) (Definition, error) {
	mu.RLock()
	fn, ok := parsers[strings.ToLower(ext)]
	mu.RUnlock()

	if !ok {
		return Definition{}, fmt.Errorf("boardfile: unsupported extension %q", ext)
	}
	return fn(data)
}
