package game

import (
	"errors"

	"escaperoom/internal/catalog"
	"escaperoom/internal/level"
	"escaperoom/internal/rng"
)

var (
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrNoActiveQuestion = errors.New("no question is open")
	ErrEmptyAnswer      = errors.New("answer is empty")
)

// Engine drives sessions through the state machine and tracks the
// question sequence of the current room.
type Engine struct {
	Resolver *level.Resolver
	// NewSeed draws the seed of a fresh game. Defaults to rng.NewSeed.
	NewSeed func() (int64, error)
}

// Session is the record kept per player. Answered counts the questions of
// the current room answered correctly, in order. Epoch changes whenever the
// room layout or phase changes, so a delayed dispatch can tell that the game
// it was scheduled for is gone.
type Session struct {
	State    State  `json:"state"`
	Answered int    `json:"answered"`
	Epoch    uint64 `json:"epoch"`
}

func NewSession() Session {
	return Session{State: NewState()}
}

type AnswerResult struct {
	Question   catalog.Question
	Correct    bool
	AllCorrect bool // the last question of the room was just answered
	LivesReset bool // the wrong answer used up the last life
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.Resolver.Catalog()
}

// Setup returns the layout of the session's current room.
func (e *Engine) Setup(s Session) (level.Setup, error) {
	return e.Resolver.Resolve(s.State.Level, s.State.Seed)
}

// Apply runs one action through Transition.
func (e *Engine) Apply(s Session, a Action) (Session, bool) {
	next, applied := Transition(s.State, a)
	if !applied {
		return s, false
	}
	prev := s.State
	s.State = next
	if prev.Phase != next.Phase || prev.Level != next.Level || prev.Seed != next.Seed {
		s.Epoch++
		s.Answered = 0
	}
	return s, true
}

// StartGame begins a new game with a fresh seed.
func (e *Engine) StartGame(s Session) (Session, bool, error) {
	newSeed := e.NewSeed
	if newSeed == nil {
		newSeed = rng.NewSeed
	}
	seed, err := newSeed()
	if err != nil {
		return s, false, err
	}
	s, applied := e.Apply(s, Action{Kind: ActionStartGame, Seed: seed})
	return s, applied, nil
}

// CurrentQuestion returns the question the player has to answer next. ok is
// false when the room has no open question.
func (e *Engine) CurrentQuestion(s Session) (q catalog.Question, ok bool, err error) {
	if s.State.Phase != PhasePlaying || s.State.AllQuestionsCorrect {
		return catalog.Question{}, false, nil
	}
	setup, err := e.Setup(s)
	if err != nil {
		return catalog.Question{}, false, err
	}
	if s.Answered >= len(setup.Questions) {
		return catalog.Question{}, false, nil
	}
	return setup.Questions[s.Answered], true, nil
}

// SubmitAnswer checks answer against the current question. A wrong answer
// costs a life right away. When the last question is answered the result has
// AllCorrect set and the caller dispatches ALL_QUESTIONS_CORRECT, possibly
// after a delay.
func (e *Engine) SubmitAnswer(s Session, answer string) (Session, AnswerResult, error) {
	if s.State.Phase != PhasePlaying {
		return s, AnswerResult{}, ErrNotPlaying
	}
	if !s.State.ShowQuestionPanel {
		return s, AnswerResult{}, ErrNoActiveQuestion
	}
	q, ok, err := e.CurrentQuestion(s)
	if err != nil {
		return s, AnswerResult{}, err
	}
	if !ok {
		return s, AnswerResult{}, ErrNoActiveQuestion
	}
	if isBlank(answer) {
		return s, AnswerResult{}, ErrEmptyAnswer
	}

	res := AnswerResult{Question: q}
	if CheckAnswer(q, answer) {
		res.Correct = true
		s.Answered++
		setup, err := e.Setup(s)
		if err != nil {
			return s, AnswerResult{}, err
		}
		res.AllCorrect = s.Answered == len(setup.Questions)
		return s, res, nil
	}

	epoch := s.Epoch
	s, _ = e.Apply(s, Action{Kind: ActionLoseLife})
	res.LivesReset = s.Epoch != epoch
	return s, res, nil
}
