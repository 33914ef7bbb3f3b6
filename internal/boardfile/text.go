package boardfile

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

const sectionSeparator = "-1"

var (
	dimsPattern  = regexp.MustCompile(`^\s*(\d+)\s*,\s*(\d+)\s*$`)
	entryPattern = regexp.MustCompile(`^\s*(\d+)\s*,\s*(\d+)\s*(?:,?\s*([A-Z]{1,2}))?\s*$`)
)

func init() {
	Register(".txt", ParseText)
	Register(".mh", ParseText)
	Register(".board", ParseText)
}

type line struct {
	n    int
	text string
}

// ParseText parses the section-delimited board format:
//
//	width,height
//	-1
//	x,y,CODE        (zero or more mirrors)
//	-1
//	x,y[,CODE]      (laser entry)
//	-1
//
// Blank lines are ignored and the trailing separator is optional.
func ParseText(data []byte) (Definition, error) {
	sections := splitSections(string(data))
	if len(sections) < 3 {
		return Definition{}, fmt.Errorf("%w: expected 3 sections separated by %q, got %d",
			ErrMalformedBoard, sectionSeparator, len(sections))
	}
	for _, extra := range sections[3:] {
		if len(extra) > 0 {
			return Definition{}, fmt.Errorf("%w: line %d: unexpected content after entry section",
				ErrMalformedBoard, extra[0].n)
		}
	}

	var def Definition

	dims := sections[0]
	if len(dims) != 1 {
		return Definition{}, fmt.Errorf("%w: dimension section must hold exactly one line", ErrMalformedBoard)
	}
	w, h, err := parseDims(dims[0].text)
	if err != nil {
		return Definition{}, fmt.Errorf("%w: line %d: %v", ErrMalformedBoard, dims[0].n, err)
	}
	def.Width, def.Height = w, h

	for _, l := range sections[1] {
		spec, err := mirror.ParseMirrorLine(l.text)
		if err != nil {
			var specErr *mirror.SpecError
			if errors.As(err, &specErr) {
				specErr.Line = l.n
			}
			return Definition{}, err
		}
		spec.Line = l.n
		def.Mirrors = append(def.Mirrors, spec)
	}

	entry := sections[2]
	if len(entry) != 1 {
		return Definition{}, fmt.Errorf("%w: entry section must hold exactly one line, got %d",
			ErrMalformedBoard, len(entry))
	}
	def.Entry, err = parseEntry(entry[0])
	if err != nil {
		return Definition{}, err
	}

	return def, nil
}

// splitSections groups non-blank lines into sections. A separator closes
// the current section; content after the last separator forms a final
// section of its own.
func splitSections(s string) [][]line {
	var sections [][]line
	var cur []line
	closed := false

	for i, raw := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if text == sectionSeparator {
			sections = append(sections, cur)
			cur = nil
			closed = true
			continue
		}
		closed = false
		cur = append(cur, line{n: i + 1, text: text})
	}
	if !closed || len(cur) > 0 {
		sections = append(sections, cur)
	}
	return sections
}

func parseDims(s string) (int, int, error) {
	parts := dimsPattern.FindStringSubmatch(s)
	if parts == nil {
		return 0, 0, fmt.Errorf("expected width,height, got %q", s)
	}
	w, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return w, h, nil
}

func parseEntry(l line) (EntrySpec, error) {
	parts := entryPattern.FindStringSubmatch(l.text)
	if parts == nil {
		return EntrySpec{}, fmt.Errorf("%w: line %d: expected laser entry x,y,CODE, got %q",
			ErrMalformedBoard, l.n, l.text)
	}
	x, err := strconv.Atoi(parts[1])
	if err != nil {
		return EntrySpec{}, fmt.Errorf("%w: line %d: x: %v", ErrMalformedBoard, l.n, err)
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return EntrySpec{}, fmt.Errorf("%w: line %d: y: %v", ErrMalformedBoard, l.n, err)
	}
	return EntrySpec{Pos: mirror.C(x, y), Code: parts[3], Line: l.n}, nil
}
