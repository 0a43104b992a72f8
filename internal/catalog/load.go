package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File names looked up by Load, relative to the catalog root.
const (
	QuestionsFile = "questions.yaml"
	ObjectsFile   = "objects.yaml"
	LevelsFile    = "levels.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

type questionsDoc struct {
	Questions []Question `yaml:"questions"`
}

type objectsDoc struct {
	Objects []RoomObject `yaml:"objects"`
}

type levelsDoc struct {
	Levels []Level `yaml:"levels"`
}

// Default returns the catalog shipped with the binary. It is validated, so a
// nil error means the data-integrity checks passed.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	c, err := Load(sub)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir reads a catalog from a directory on disk. The result is not
// validated.
func LoadDir(dir string) (*Catalog, error) {
	cleanDir := filepath.Clean(dir)
	info, err := os.Stat(cleanDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path %s is not a directory", cleanDir)
	}
	return Load(os.DirFS(cleanDir))
}

// Load decodes the three catalog files from fsys. The result is not
// validated.
func Load(fsys fs.FS) (*Catalog, error) {
	var qd questionsDoc
	if err := decodeFile(fsys, QuestionsFile, &qd); err != nil {
		return nil, err
	}
	var od objectsDoc
	if err := decodeFile(fsys, ObjectsFile, &od); err != nil {
		return nil, err
	}
	var ld levelsDoc
	if err := decodeFile(fsys, LevelsFile, &ld); err != nil {
		return nil, err
	}
	return &Catalog{
		Questions: qd.Questions,
		Objects:   od.Objects,
		Levels:    ld.Levels,
	}, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
