package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(c.Questions) != 30 {
		t.Errorf("Expected 30 questions, got %d", len(c.Questions))
	}
	if len(c.Objects) != 11 {
		t.Errorf("Expected 11 room objects, got %d", len(c.Objects))
	}
	for n := FirstLevel; n <= LastLevel; n++ {
		if got := len(c.QuestionsForLevel(n)); got < QuestionsPerLevel {
			t.Errorf("Level %d has %d questions", n, got)
		}
		if _, ok := c.Level(n); !ok {
			t.Errorf("Level %d missing", n)
		}
	}
}

func TestDefault_CodeSamplesDecoded(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	q, ok := c.Question("l2q2")
	if !ok {
		t.Fatal("Expected question l2q2")
	}
	if q.Kind != KindFreeform {
		t.Errorf("Expected freeform kind, got %q", q.Kind)
	}
	if !strings.HasPrefix(q.Code, "#include <stdio.h>\n") {
		t.Errorf("Expected code sample to keep its lines, got %q", q.Code)
	}
	if q.Answer != "10" {
		t.Errorf("Expected answer 10, got %q", q.Answer)
	}
}

func TestDefault_ObjectCapabilities(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	clock, ok := c.Object("clock")
	if !ok {
		t.Fatal("Expected clock object")
	}
	if !clock.CanHoldQuestions || clock.CanHideKey {
		t.Errorf("Clock should only hold questions: %+v", clock)
	}
	crate, _ := c.Object("crate")
	if crate.CanHoldQuestions || !crate.CanHideKey {
		t.Errorf("Crate should only hide the key: %+v", crate)
	}
	if crate.KeyPosition == nil || *crate.KeyPosition != (Vec3{3.5, -1.8, 3}) {
		t.Errorf("Unexpected crate key position: %v", crate.KeyPosition)
	}
	table, _ := c.Object("table")
	if table.CanHoldQuestions || table.CanHideKey {
		t.Errorf("Table should be decorative: %+v", table)
	}
}

func validCatalog() *Catalog {
	c := &Catalog{}
	for n := FirstLevel; n <= LastLevel; n++ {
		c.Levels = append(c.Levels, Level{Number: n, Name: "Room"})
		for i := 0; i < QuestionsPerLevel; i++ {
			c.Questions = append(c.Questions, Question{
				ID:     string(rune('a'+n)) + string(rune('0'+i)),
				Level:  n,
				Kind:   KindFreeform,
				Prompt: "?",
				Answer: "1",
			})
		}
	}
	pos := Vec3{1, 1, 1}
	c.Objects = []RoomObject{
		{ID: "desk", CanHoldQuestions: true, CanHideKey: true, KeyPosition: &pos},
		{ID: "crate", CanHideKey: true, KeyPosition: &pos},
	}
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Catalog)
		wantMsg string
	}{
		{
			name:   "valid",
			mutate: func(c *Catalog) {},
		},
		{
			name:    "too few questions",
			mutate:  func(c *Catalog) { c.Questions = c.Questions[1:] },
			wantMsg: "level 1 has 2 questions",
		},
		{
			name: "choice answer not in options",
			mutate: func(c *Catalog) {
				c.Questions[0].Kind = KindChoice
				c.Questions[0].Options = []string{"a", "b"}
				c.Questions[0].Answer = "c"
			},
			wantMsg: "is not one of its options",
		},
		{
			name:    "duplicate question id",
			mutate:  func(c *Catalog) { c.Questions[1].ID = c.Questions[0].ID },
			wantMsg: "duplicate question id",
		},
		{
			name:    "unknown kind",
			mutate:  func(c *Catalog) { c.Questions[0].Kind = "essay" },
			wantMsg: "unknown kind",
		},
		{
			name:    "key hider without position",
			mutate:  func(c *Catalog) { c.Objects[1].KeyPosition = nil },
			wantMsg: "has no keyPosition",
		},
		{
			name:    "no distinct key hider",
			mutate:  func(c *Catalog) { c.Objects = c.Objects[:1] },
			wantMsg: "no key hider distinct from question holder \"desk\"",
		},
		{
			name: "no question holder",
			mutate: func(c *Catalog) {
				c.Objects[0].CanHoldQuestions = false
			},
			wantMsg: "no room object can hold questions",
		},
		{
			name:    "reserved object id",
			mutate:  func(c *Catalog) { c.Objects[1].ID = DoorID },
			wantMsg: "is reserved",
		},
		{
			name:    "missing level",
			mutate:  func(c *Catalog) { c.Levels = c.Levels[:4] },
			wantMsg: "level 5 missing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCatalog()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantMsg)
			}
			if !errors.Is(err, ErrDataIntegrity) {
				t.Errorf("Expected ErrDataIntegrity, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := validCatalog()
	c.Questions = nil
	err := c.Validate()
	if err == nil {
		t.Fatal("Expected error")
	}
	for n := FirstLevel; n <= LastLevel; n++ {
		want := "level " + string(rune('0'+n)) + " has 0 questions"
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in %q", want, err)
		}
	}
}

func TestLoad_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		QuestionsFile: {Data: []byte("questions:\n  - id: q\n    level: 1\n    kind: freeform\n    prompt: p\n    answer: \"4\"\n")},
		ObjectsFile:   {Data: []byte("objects:\n  - id: desk\n    position: [1, 2, 3]\n    canHideKey: true\n    keyPosition: [1, 0, 3]\n")},
		LevelsFile:    {Data: []byte("levels:\n  - number: 1\n    name: One\n")},
	}
	c, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Questions) != 1 || c.Questions[0].Answer != "4" {
		t.Errorf("Unexpected questions: %+v", c.Questions)
	}
	if c.Objects[0].Position != (Vec3{1, 2, 3}) {
		t.Errorf("Unexpected position: %v", c.Objects[0].Position)
	}
	if c.Levels[0].Name != "One" {
		t.Errorf("Unexpected level: %+v", c.Levels[0])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	if err == nil {
		t.Fatal("Expected error for missing files")
	}
	if !strings.Contains(err.Error(), QuestionsFile) {
		t.Errorf("Expected error to name %s, got %v", QuestionsFile, err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		QuestionsFile: {Data: []byte("questions: [")},
	}
	if _, err := Load(fsys); err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		QuestionsFile: "questions: []\n",
		ObjectsFile:   "objects: []\n",
		LevelsFile:    "levels: []\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	c, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if err := c.Validate(); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("Expected empty catalog to fail validation, got %v", err)
	}

	if _, err := LoadDir(filepath.Join(dir, QuestionsFile)); err == nil {
		t.Error("Expected error when path is a file")
	}
}
