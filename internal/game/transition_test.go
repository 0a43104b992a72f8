package game

import (
	"errors"
	"testing"
)

func playing() State {
	st := NewState()
	st.Phase = PhasePlaying
	st.Seed = 42
	return st
}

func apply(t *testing.T, st State, kinds ...ActionKind) State {
	t.Helper()
	for _, k := range kinds {
		var ok bool
		st, ok = Transition(st, Action{Kind: k})
		if !ok {
			t.Fatalf("%s was not applied to %+v", k, st)
		}
	}
	return st
}

func TestNewState(t *testing.T) {
	st := NewState()
	if st.Phase != PhaseStart {
		t.Errorf("Expected phase start, got %s", st.Phase)
	}
	if st.Level != 1 {
		t.Errorf("Expected level 1, got %d", st.Level)
	}
	if st.Lives != MaxLives {
		t.Errorf("Expected %d lives, got %d", MaxLives, st.Lives)
	}
	if st.Feedback != nil {
		t.Error("Expected no feedback")
	}
	if err := st.Check(); err != nil {
		t.Errorf("Initial state breaks an invariant: %v", err)
	}
}

func TestTransition_StartGame(t *testing.T) {
	st, ok := Transition(NewState(), Action{Kind: ActionStartGame, Seed: 99})
	if !ok {
		t.Fatal("Expected START_GAME to apply from start")
	}
	if st.Phase != PhasePlaying || st.Level != 1 || st.Seed != 99 || st.Lives != MaxLives {
		t.Errorf("Unexpected state after start: %+v", st)
	}

	// Ignored mid-game.
	again, ok := Transition(st, Action{Kind: ActionStartGame, Seed: 5})
	if ok || again.Seed != 99 {
		t.Errorf("Expected START_GAME to be ignored while playing, got %+v", again)
	}

	// Allowed from victory, and resets everything.
	won := st
	won.Phase = PhaseVictory
	won.Level = 5
	won.KeyRevealed, won.KeyCollected, won.SwitchActivated, won.DoorUnlocked = true, true, true, true
	fresh, ok := Transition(won, Action{Kind: ActionStartGame, Seed: 7})
	if !ok {
		t.Fatal("Expected START_GAME to apply from victory")
	}
	want := NewState()
	want.Phase = PhasePlaying
	want.Seed = 7
	if fresh != want {
		t.Errorf("Expected %+v, got %+v", want, fresh)
	}
}

func TestTransition_QuestionPanel(t *testing.T) {
	st := apply(t, playing(), ActionShowQuestionPanel)
	if !st.ShowQuestionPanel {
		t.Error("Expected panel shown")
	}
	st = apply(t, st, ActionHideQuestionPanel)
	if st.ShowQuestionPanel {
		t.Error("Expected panel hidden")
	}

	st = apply(t, st, ActionAllQuestionsCorrect)
	if _, ok := Transition(st, Action{Kind: ActionShowQuestionPanel}); ok {
		t.Error("Expected panel to stay closed once all questions are correct")
	}

	if _, ok := Transition(NewState(), Action{Kind: ActionShowQuestionPanel}); ok {
		t.Error("Expected panel to stay closed before the game starts")
	}
}

func TestTransition_AllQuestionsCorrect(t *testing.T) {
	st := apply(t, playing(), ActionShowQuestionPanel, ActionAllQuestionsCorrect)
	if !st.AllQuestionsCorrect {
		t.Error("Expected allQuestionsCorrect")
	}
	if st.ShowQuestionPanel {
		t.Error("Expected panel hidden")
	}
	if st.Feedback == nil || st.Feedback.Kind != FeedbackCorrect || st.Feedback.Message != MsgAllCorrect {
		t.Errorf("Unexpected feedback: %+v", st.Feedback)
	}
	if _, ok := Transition(st, Action{Kind: ActionAllQuestionsCorrect}); ok {
		t.Error("Expected a second ALL_QUESTIONS_CORRECT to be ignored")
	}
}

func TestTransition_LoseLife(t *testing.T) {
	st := apply(t, playing(), ActionLoseLife)
	if st.Lives != 2 {
		t.Errorf("Expected 2 lives, got %d", st.Lives)
	}
	if st.Feedback == nil || st.Feedback.Kind != FeedbackIncorrect || st.Feedback.Message != "Wrong answer! 2 lives remaining." {
		t.Errorf("Unexpected feedback: %+v", st.Feedback)
	}
	st = apply(t, st, ActionLoseLife)
	if st.Feedback.Message != "Wrong answer! 1 life remaining." {
		t.Errorf("Unexpected feedback: %q", st.Feedback.Message)
	}
}

func TestTransition_LivesExhausted(t *testing.T) {
	start := playing()
	start.ShowQuestionPanel = true
	st := apply(t, start, ActionLoseLife, ActionLoseLife, ActionLoseLife)

	if st.Phase != PhasePlaying {
		t.Errorf("Expected phase playing, got %s", st.Phase)
	}
	if st.Level != 1 {
		t.Errorf("Expected level 1, got %d", st.Level)
	}
	if st.Lives != MaxLives {
		t.Errorf("Expected lives reset to %d, got %d", MaxLives, st.Lives)
	}
	if st.Seed == start.Seed {
		t.Error("Expected a new seed after running out of lives")
	}
	if st.Seed != start.Seed+ReshuffleIncrement {
		t.Errorf("Expected seed %d, got %d", start.Seed+ReshuffleIncrement, st.Seed)
	}
	if st.ShowQuestionPanel {
		t.Error("Expected panel closed after reset")
	}
	if st.Feedback == nil || st.Feedback.Message != MsgOutOfLives {
		t.Errorf("Unexpected feedback: %+v", st.Feedback)
	}
}

func TestTransition_LivesExhaustedOnLaterLevel(t *testing.T) {
	st := playing()
	st.Level = 3
	st.Lives = 1
	next := apply(t, st, ActionLoseLife)
	if next.Level != 1 || next.Lives != MaxLives || next.Phase != PhasePlaying {
		t.Errorf("Expected a full reset to level 1, got %+v", next)
	}
	if next.Seed == st.Seed {
		t.Error("Expected a new seed")
	}
}

func TestTransition_KeySwitchDoor(t *testing.T) {
	st := playing()

	if _, ok := Transition(st, Action{Kind: ActionRevealKey}); ok {
		t.Error("Expected REVEAL_KEY to need all questions correct")
	}
	if _, ok := Transition(st, Action{Kind: ActionCollectKey}); ok {
		t.Error("Expected COLLECT_KEY to need a revealed key")
	}
	if _, ok := Transition(st, Action{Kind: ActionActivateSwitch}); ok {
		t.Error("Expected ACTIVATE_SWITCH to need the key")
	}
	if _, ok := Transition(st, Action{Kind: ActionNextLevel}); ok {
		t.Error("Expected NEXT_LEVEL to need an unlocked door")
	}

	st = apply(t, st, ActionAllQuestionsCorrect, ActionRevealKey)
	if !st.KeyRevealed {
		t.Error("Expected key revealed")
	}
	st = apply(t, st, ActionCollectKey)
	if !st.KeyCollected || st.Feedback.Message != MsgKeyCollected {
		t.Errorf("Unexpected state after collecting: %+v", st)
	}
	if _, ok := Transition(st, Action{Kind: ActionCollectKey}); ok {
		t.Error("Expected the key to be collected only once")
	}
	st = apply(t, st, ActionActivateSwitch)
	if !st.SwitchActivated || !st.DoorUnlocked || st.Feedback.Message != MsgSwitchActivated {
		t.Errorf("Unexpected state after switch: %+v", st)
	}
	if _, ok := Transition(st, Action{Kind: ActionActivateSwitch}); ok {
		t.Error("Expected the switch to activate only once")
	}
	if _, ok := Transition(st, Action{Kind: ActionLoseLife}); ok {
		t.Error("Expected no lives lost after the questions are solved")
	}
}

func TestTransition_NextLevel(t *testing.T) {
	st := playing()
	st.Lives = 1
	st = apply(t, st, ActionAllQuestionsCorrect, ActionRevealKey, ActionCollectKey, ActionActivateSwitch, ActionNextLevel)

	want := NewState()
	want.Phase = PhasePlaying
	want.Seed = 42
	want.Level = 2
	if st != want {
		t.Errorf("Expected %+v, got %+v", want, st)
	}
}

func TestTransition_Victory(t *testing.T) {
	st := playing()
	st.Level = 5
	st = apply(t, st, ActionAllQuestionsCorrect, ActionRevealKey, ActionCollectKey, ActionActivateSwitch, ActionNextLevel)
	if st.Phase != PhaseVictory {
		t.Errorf("Expected victory, got %s", st.Phase)
	}
	if st.Level != 5 {
		t.Errorf("Expected level to stay 5, got %d", st.Level)
	}
	if _, ok := Transition(st, Action{Kind: ActionNextLevel}); ok {
		t.Error("Expected NEXT_LEVEL to be ignored after victory")
	}
}

func TestTransition_Restart(t *testing.T) {
	st := playing()
	st.Level = 4
	st = apply(t, st, ActionAllQuestionsCorrect, ActionRevealKey, ActionRestart)
	if st != NewState() {
		t.Errorf("Expected initial state, got %+v", st)
	}
	if _, ok := Transition(NewState(), Action{Kind: ActionRestart}); !ok {
		t.Error("Expected RESTART to apply from any state")
	}
}

func TestTransition_ClearFeedback(t *testing.T) {
	st := apply(t, playing(), ActionLoseLife, ActionClearFeedback)
	if st.Feedback != nil {
		t.Errorf("Expected no feedback, got %+v", st.Feedback)
	}
}

func TestTransition_UnknownAction(t *testing.T) {
	st := playing()
	next, ok := Transition(st, Action{Kind: "JUMP"})
	if ok || next != st {
		t.Error("Expected unknown action to be ignored")
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	st := playing()
	orig := st
	Transition(st, Action{Kind: ActionLoseLife})
	Transition(st, Action{Kind: ActionAllQuestionsCorrect})
	if st != orig {
		t.Error("Transition modified its input")
	}
}

// TestTransition_InvariantsHold walks every action sequence up to a fixed
// length from a few starting states and checks the state invariants after
// each step.
func TestTransition_InvariantsHold(t *testing.T) {
	lastRoom := playing()
	lastRoom.Level = 5
	for name, start := range map[string]State{
		"initial":   NewState(),
		"last room": lastRoom,
	} {
		t.Run(name, func(t *testing.T) {
			walkActions(t, start, 7)
		})
	}
}

func walkActions(t *testing.T, start State, depth int) {
	t.Helper()
	type node struct {
		st   State
		path []ActionKind
	}
	frontier := []node{{st: start}}
	seen := map[stateKey]bool{keyOf(start): true}
	for d := 0; d < depth; d++ {
		var next []node
		for _, n := range frontier {
			for _, k := range Actions {
				st, _ := Transition(n.st, Action{Kind: k, Seed: int64(d)})
				if err := st.Check(); err != nil {
					t.Fatalf("after %v then %s: %v", n.path, k, err)
				}
				if st.Phase == PhaseVictory && st.Level != 5 {
					t.Fatalf("after %v then %s: victory on level %d", n.path, k, st.Level)
				}
				if seen[keyOf(st)] {
					continue
				}
				seen[keyOf(st)] = true
				path := append(append([]ActionKind(nil), n.path...), k)
				next = append(next, node{st: st, path: path})
			}
		}
		frontier = next
	}
	if len(seen) < 2 {
		t.Fatal("no transitions explored")
	}
}

// stateKey is State with the feedback pointer replaced by its contents.
type stateKey struct {
	st  State
	fb  Feedback
	has bool
}

func keyOf(st State) stateKey {
	k := stateKey{st: st}
	if st.Feedback != nil {
		k.fb, k.has = *st.Feedback, true
	}
	k.st.Feedback = nil
	return k
}

func TestState_Check(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"collected before revealed", func(s *State) { s.KeyCollected = true }},
		{"switch without key", func(s *State) { s.KeyRevealed, s.SwitchActivated = true, true }},
		{"door without switch", func(s *State) { s.DoorUnlocked = true }},
		{"panel after solve", func(s *State) { s.AllQuestionsCorrect, s.ShowQuestionPanel = true, true }},
		{"no lives", func(s *State) { s.Lives = 0 }},
		{"level out of range", func(s *State) { s.Level = 6 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := playing()
			tt.mutate(&st)
			if err := st.Check(); !errors.Is(err, ErrInvariant) {
				t.Errorf("Check() = %v, want ErrInvariant", err)
			}
		})
	}
}
