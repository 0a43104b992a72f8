package game

import (
	"fmt"

	"escaperoom/internal/catalog"
)

// ActionKind names a state-machine action.
type ActionKind string

const (
	ActionStartGame           ActionKind = "START_GAME"
	ActionShowQuestionPanel   ActionKind = "SHOW_QUESTION_PANEL"
	ActionHideQuestionPanel   ActionKind = "HIDE_QUESTION_PANEL"
	ActionAllQuestionsCorrect ActionKind = "ALL_QUESTIONS_CORRECT"
	ActionLoseLife            ActionKind = "LOSE_LIFE"
	ActionClearFeedback       ActionKind = "CLEAR_FEEDBACK"
	ActionRevealKey           ActionKind = "REVEAL_KEY"
	ActionCollectKey          ActionKind = "COLLECT_KEY"
	ActionActivateSwitch      ActionKind = "ACTIVATE_SWITCH"
	ActionNextLevel           ActionKind = "NEXT_LEVEL"
	ActionRestart             ActionKind = "RESTART"
)

// Actions lists every action kind.
var Actions = []ActionKind{
	ActionStartGame,
	ActionShowQuestionPanel,
	ActionHideQuestionPanel,
	ActionAllQuestionsCorrect,
	ActionLoseLife,
	ActionClearFeedback,
	ActionRevealKey,
	ActionCollectKey,
	ActionActivateSwitch,
	ActionNextLevel,
	ActionRestart,
}

// Action is one input to Transition. Seed is only read by START_GAME, which
// needs a fresh session seed; the caller draws it so Transition stays pure.
type Action struct {
	Kind ActionKind
	Seed int64
}

// ReshuffleIncrement is added to the seed when the player runs out of lives,
// so the restarted game gets a different layout.
const ReshuffleIncrement = 7919

// Feedback messages.
const (
	MsgAllCorrect      = "Correct! A key has been revealed somewhere in the room..."
	MsgKeyCollected    = "Key collected! Find the switch to unlock the door."
	MsgSwitchActivated = "Switch activated! The door is now unlocked."
	MsgOutOfLives      = "Out of lives! The rooms have been rearranged. Starting over from level 1."
)

func livesMessage(lives int) string {
	if lives == 1 {
		return "Wrong answer! 1 life remaining."
	}
	return fmt.Sprintf("Wrong answer! %d lives remaining.", lives)
}

// Transition applies a to st and returns the resulting state. When the
// action's precondition does not hold the state is returned unchanged and
// applied is false; illegal actions are ignored, never errors.
func Transition(st State, a Action) (next State, applied bool) {
	playing := st.Phase == PhasePlaying

	switch a.Kind {
	case ActionStartGame:
		if st.Phase != PhaseStart && st.Phase != PhaseVictory {
			return st, false
		}
		next = NewState()
		next.Phase = PhasePlaying
		next.Seed = a.Seed
		return next, true

	case ActionShowQuestionPanel:
		if !playing || st.AllQuestionsCorrect {
			return st, false
		}
		st.ShowQuestionPanel = true
		return st, true

	case ActionHideQuestionPanel:
		st.ShowQuestionPanel = false
		return st, true

	case ActionAllQuestionsCorrect:
		if !playing || st.AllQuestionsCorrect {
			return st, false
		}
		st.AllQuestionsCorrect = true
		st.ShowQuestionPanel = false
		st.Feedback = &Feedback{Kind: FeedbackCorrect, Message: MsgAllCorrect}
		return st, true

	case ActionLoseLife:
		if !playing || st.AllQuestionsCorrect {
			return st, false
		}
		lives := st.Lives - 1
		if lives <= 0 {
			next = NewState()
			next.Phase = PhasePlaying
			next.Seed = st.Seed + ReshuffleIncrement
			next.Feedback = &Feedback{Kind: FeedbackIncorrect, Message: MsgOutOfLives}
			return next, true
		}
		st.Lives = lives
		st.Feedback = &Feedback{Kind: FeedbackIncorrect, Message: livesMessage(lives)}
		return st, true

	case ActionClearFeedback:
		st.Feedback = nil
		return st, true

	case ActionRevealKey:
		if !playing || !st.AllQuestionsCorrect || st.KeyRevealed {
			return st, false
		}
		st.KeyRevealed = true
		return st, true

	case ActionCollectKey:
		if !playing || !st.KeyRevealed || st.KeyCollected {
			return st, false
		}
		st.KeyCollected = true
		st.Feedback = &Feedback{Kind: FeedbackCorrect, Message: MsgKeyCollected}
		return st, true

	case ActionActivateSwitch:
		if !playing || !st.KeyCollected || st.SwitchActivated {
			return st, false
		}
		st.SwitchActivated = true
		st.DoorUnlocked = true
		st.Feedback = &Feedback{Kind: FeedbackCorrect, Message: MsgSwitchActivated}
		return st, true

	case ActionNextLevel:
		if !playing || !st.DoorUnlocked {
			return st, false
		}
		if st.Level >= catalog.LastLevel {
			st.Phase = PhaseVictory
			return st, true
		}
		next = NewState()
		next.Phase = PhasePlaying
		next.Seed = st.Seed
		next.Level = st.Level + 1
		return next, true

	case ActionRestart:
		return NewState(), true
	}

	return st, false
}
