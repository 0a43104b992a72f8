package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Levels in a full game, numbered from FirstLevel.
const (
	FirstLevel = 1
	LastLevel  = 5
)

// QuestionsPerLevel is how many questions a room poses.
const QuestionsPerLevel = 3

// ErrDataIntegrity marks a catalog that cannot run a full game. It is a
// startup failure, never a runtime condition.
var ErrDataIntegrity = errors.New("catalog data integrity")

// Validate checks every table and returns all problems found, each wrapping
// ErrDataIntegrity.
func (c *Catalog) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...)))
	}

	for n := FirstLevel; n <= LastLevel; n++ {
		if _, ok := c.Level(n); !ok {
			fail("level %d missing from level table", n)
		}
	}
	for _, l := range c.Levels {
		if l.Number < FirstLevel || l.Number > LastLevel {
			fail("level table entry %d out of range", l.Number)
		}
	}

	seen := map[string]bool{}
	perLevel := map[int]int{}
	for _, q := range c.Questions {
		if q.ID == "" {
			fail("question with empty id")
			continue
		}
		if seen[q.ID] {
			fail("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if q.Level < FirstLevel || q.Level > LastLevel {
			fail("question %q has level %d", q.ID, q.Level)
		}
		perLevel[q.Level]++
		switch q.Kind {
		case KindChoice:
			if len(q.Options) < 2 {
				fail("choice question %q needs at least 2 options", q.ID)
			}
			if !slices.Contains(q.Options, q.Answer) {
				fail("choice question %q answer %q is not one of its options", q.ID, q.Answer)
			}
		case KindFreeform:
			if q.Answer == "" {
				fail("freeform question %q has no answer", q.ID)
			}
			if len(q.Options) > 0 {
				fail("freeform question %q must not list options", q.ID)
			}
		default:
			fail("question %q has unknown kind %q", q.ID, q.Kind)
		}
	}
	for n := FirstLevel; n <= LastLevel; n++ {
		if perLevel[n] < QuestionsPerLevel {
			fail("level %d has %d questions, need %d", n, perLevel[n], QuestionsPerLevel)
		}
	}

	objSeen := map[string]bool{}
	var holders, hiders []string
	for _, o := range c.Objects {
		if o.ID == "" {
			fail("room object with empty id")
			continue
		}
		if objSeen[o.ID] {
			fail("duplicate room object id %q", o.ID)
		}
		objSeen[o.ID] = true
		if o.ID == SwitchID || o.ID == DoorID {
			fail("room object id %q is reserved", o.ID)
		}
		if o.CanHoldQuestions {
			holders = append(holders, o.ID)
		}
		if o.CanHideKey {
			hiders = append(hiders, o.ID)
			if o.KeyPosition == nil {
				fail("room object %q can hide the key but has no keyPosition", o.ID)
			}
		}
	}
	if len(holders) == 0 {
		fail("no room object can hold questions")
	}
	for _, h := range holders {
		if !slices.ContainsFunc(hiders, func(id string) bool { return id != h }) {
			fail("no key hider distinct from question holder %q", h)
		}
	}

	return errors.Join(errs...)
}
