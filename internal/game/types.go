package game

import (
	"errors"
	"fmt"

	"escaperoom/internal/catalog"
)

// Phase is the top-level screen the player is on.
type Phase string

const (
	PhaseStart   Phase = "start"
	PhasePlaying Phase = "playing"
	PhaseVictory Phase = "victory"
)

// FeedbackKind says whether a message reports success or failure.
type FeedbackKind string

const (
	FeedbackCorrect   FeedbackKind = "correct"
	FeedbackIncorrect FeedbackKind = "incorrect"
)

// Feedback is a transient message shown to the player.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}

// MaxLives is the life budget of every room.
const MaxLives = 3

// State is the whole progression state of one player. It is only ever
// replaced by Transition, never patched in place.
type State struct {
	Phase               Phase     `json:"gamePhase"`
	Level               int       `json:"currentLevel"`
	Seed                int64     `json:"seed"`
	Lives               int       `json:"lives"`
	AllQuestionsCorrect bool      `json:"allQuestionsCorrect"`
	KeyRevealed         bool      `json:"keyRevealed"`
	KeyCollected        bool      `json:"keyCollected"`
	SwitchActivated     bool      `json:"switchActivated"`
	DoorUnlocked        bool      `json:"doorUnlocked"`
	ShowQuestionPanel   bool      `json:"showQuestionPanel"`
	Feedback            *Feedback `json:"feedback"`
}

// NewState returns the state a process starts in.
func NewState() State {
	return State{
		Phase: PhaseStart,
		Level: catalog.FirstLevel,
		Lives: MaxLives,
	}
}

// ErrInvariant is wrapped by every error Check returns.
var ErrInvariant = errors.New("state invariant violated")

// Check reports the first broken invariant, or nil.
func (s State) Check() error {
	switch {
	case s.KeyCollected && !s.KeyRevealed:
		return fmt.Errorf("%w: key collected before it was revealed", ErrInvariant)
	case s.SwitchActivated && !s.KeyCollected:
		return fmt.Errorf("%w: switch activated without the key", ErrInvariant)
	case s.DoorUnlocked && !s.SwitchActivated:
		return fmt.Errorf("%w: door unlocked without the switch", ErrInvariant)
	case s.AllQuestionsCorrect && s.ShowQuestionPanel:
		return fmt.Errorf("%w: question panel open after all questions were answered", ErrInvariant)
	case s.Lives < 1 || s.Lives > MaxLives:
		return fmt.Errorf("%w: lives = %d", ErrInvariant, s.Lives)
	case s.Level < catalog.FirstLevel || s.Level > catalog.LastLevel:
		return fmt.Errorf("%w: level = %d", ErrInvariant, s.Level)
	}
	return nil
}
