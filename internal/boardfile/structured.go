package boardfile

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

func init() {
	Register(".yaml", ParseYAML)
	Register(".yml", ParseYAML)
	Register(".toml", ParseTOML)
}

// fileBoard is the shared YAML/TOML layout of a board file.
type fileBoard struct {
	ID       string            `yaml:"id" toml:"id"`
	Name     string            `yaml:"name" toml:"name"`
	Size     fileSize          `yaml:"size" toml:"size"`
	Mirrors  []fileCell        `yaml:"mirrors" toml:"mirrors"`
	Entry    *fileCell         `yaml:"entry" toml:"entry"`
	Metadata map[string]string `yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

type fileSize struct {
	W int `yaml:"w" toml:"w"`
	H int `yaml:"h" toml:"h"`
}

type fileCell struct {
	X    int    `yaml:"x" toml:"x"`
	Y    int    `yaml:"y" toml:"y"`
	Code string `yaml:"code" toml:"code"`
}

// ParseYAML parses a YAML board file.
func ParseYAML(data []byte) (Definition, error) {
	var fb fileBoard
	if err := yaml.Unmarshal(data, &fb); err != nil {
		return Definition{}, fmt.Errorf("%w: yaml: %v", ErrMalformedBoard, err)
	}
	return fb.definition()
}

// ParseTOML parses a TOML board file.
func ParseTOML(data []byte) (Definition, error) {
	var fb fileBoard
	if _, err := toml.Decode(string(data), &fb); err != nil {
		return Definition{}, fmt.Errorf("%w: toml: %v", ErrMalformedBoard, err)
	}
	return fb.definition()
}

func (fb fileBoard) definition() (Definition, error) {
	if fb.Entry == nil {
		return Definition{}, fmt.Errorf("%w: missing entry", ErrMalformedBoard)
	}

	def := Definition{
		ID:       fb.ID,
		Name:     fb.Name,
		Width:    fb.Size.W,
		Height:   fb.Size.H,
		Entry:    EntrySpec{Pos: mirror.C(fb.Entry.X, fb.Entry.Y), Code: fb.Entry.Code},
		Metadata: fb.Metadata,
	}

	for i, c := range fb.Mirrors {
		if _, _, err := mirror.ParseMirrorCode(c.Code); err != nil {
			return Definition{}, &mirror.SpecError{
				Input: fmt.Sprintf("mirrors[%d]: %d,%d,%s", i, c.X, c.Y, c.Code),
				Err:   err,
			}
		}
		def.Mirrors = append(def.Mirrors, mirror.MirrorSpec{Pos: mirror.C(c.X, c.Y), Code: c.Code})
	}

	return def, nil
}
