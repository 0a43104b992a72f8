// Package level assigns puzzle roles to room objects and picks the questions
// for one room. The assignment is a pure function of (level, seed): the same
// pair always yields the same Setup.
package level

import (
	"errors"
	"fmt"
	"sync"

	"escaperoom/internal/catalog"
	"escaperoom/internal/rng"
)

var (
	ErrUnknownLevel       = errors.New("unknown level")
	ErrNoQuestionHolder   = errors.New("no room object can hold questions")
	ErrNoKeyHider         = errors.New("no key hider distinct from the question holder")
	ErrNotEnoughQuestions = errors.New("not enough questions for level")
)

// DefaultKeyPosition is used when the key hider has no key position. It sits
// below the floor, out of view.
var DefaultKeyPosition = catalog.Vec3{0, -2, 0}

// Role is the part an object plays in a room.
type Role string

const (
	RoleNone      Role = ""
	RoleQuestions Role = "questions"
	RoleKeyHider  Role = "keyHider"
)

// Setup is the resolved layout of one room.
type Setup struct {
	Level            int
	Seed             int64
	QuestionObjectID string
	KeyObjectID      string
	Questions        []catalog.Question
	KeyPosition      catalog.Vec3
	QuestionObject   catalog.RoomObject
	KeyObject        catalog.RoomObject
}

// RoleOf reports the role of a room object in this setup.
func (s Setup) RoleOf(objectID string) Role {
	switch objectID {
	case s.QuestionObjectID:
		return RoleQuestions
	case s.KeyObjectID:
		return RoleKeyHider
	default:
		return RoleNone
	}
}

// DeriveSeed mixes the session seed with the level number so that each room
// of a session gets its own layout.
func DeriveSeed(seed int64, level int) uint32 {
	return uint32(seed*31 + int64(level)*7)
}

// Resolve computes the setup for level under seed.
func Resolve(cat *catalog.Catalog, level int, seed int64) (Setup, error) {
	if level < catalog.FirstLevel || level > catalog.LastLevel {
		return Setup{}, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	src := rng.New(DeriveSeed(seed, level))

	var holders []catalog.RoomObject
	for _, o := range cat.Objects {
		if o.CanHoldQuestions {
			holders = append(holders, o)
		}
	}
	if len(holders) == 0 {
		return Setup{}, ErrNoQuestionHolder
	}
	questionObj := rng.Shuffle(holders, src)[0]

	var hiders []catalog.RoomObject
	for _, o := range cat.Objects {
		if o.CanHideKey && o.ID != questionObj.ID {
			hiders = append(hiders, o)
		}
	}
	if len(hiders) == 0 {
		return Setup{}, fmt.Errorf("%w: %s", ErrNoKeyHider, questionObj.ID)
	}
	keyObj := rng.Shuffle(hiders, src)[0]

	pool := cat.QuestionsForLevel(level)
	if len(pool) < catalog.QuestionsPerLevel {
		return Setup{}, fmt.Errorf("%w %d: have %d, need %d",
			ErrNotEnoughQuestions, level, len(pool), catalog.QuestionsPerLevel)
	}
	selected := rng.Shuffle(pool, src)[:catalog.QuestionsPerLevel]

	keyPos := DefaultKeyPosition
	if keyObj.KeyPosition != nil {
		keyPos = *keyObj.KeyPosition
	}

	return Setup{
		Level:            level,
		Seed:             seed,
		QuestionObjectID: questionObj.ID,
		KeyObjectID:      keyObj.ID,
		Questions:        selected,
		KeyPosition:      keyPos,
		QuestionObject:   questionObj,
		KeyObject:        keyObj,
	}, nil
}

// maxCachedSetups bounds the cache; it is dropped wholesale when full.
const maxCachedSetups = 1024

type cacheKey struct {
	level int
	seed  int64
}

// Resolver resolves setups against one catalog and remembers the results.
type Resolver struct {
	cat *catalog.Catalog

	mu    sync.Mutex
	cache map[cacheKey]Setup
}

// NewResolver validates cat and returns a resolver for it.
func NewResolver(cat *catalog.Catalog) (*Resolver, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{cat: cat, cache: map[cacheKey]Setup{}}, nil
}

// Catalog returns the catalog the resolver was built with.
func (r *Resolver) Catalog() *catalog.Catalog { return r.cat }

// Resolve returns the cached setup for (level, seed), computing it on first
// use.
func (r *Resolver) Resolve(level int, seed int64) (Setup, error) {
	k := cacheKey{level: level, seed: seed}
	r.mu.Lock()
	s, ok := r.cache[k]
	r.mu.Unlock()
	if ok {
		return s, nil
	}
	s, err := Resolve(r.cat, level, seed)
	if err != nil {
		return Setup{}, err
	}
	r.mu.Lock()
	if len(r.cache) >= maxCachedSetups {
		clear(r.cache)
	}
	r.cache[k] = s
	r.mu.Unlock()
	return s, nil
}
