package web

import (
	"escaperoom/internal/catalog"
	"escaperoom/internal/game"
	"escaperoom/internal/level"
)

// Snapshot is everything a client needs to draw the current screen.
type Snapshot struct {
	State      game.State       `json:"state"`
	Level      *LevelView       `json:"level,omitempty"`
	Objective  string           `json:"objective,omitempty"`
	Objectives []game.Objective `json:"objectives,omitempty"`
	Room       []ObjectView     `json:"room,omitempty"`
	Key        *KeyView         `json:"key,omitempty"`
	Question   *QuestionView    `json:"question,omitempty"`
}

type LevelView struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	KeyRevealType string `json:"keyRevealType"`
}

type ObjectView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Position  catalog.Vec3 `json:"position"`
	Role      level.Role   `json:"role,omitempty"`
	Clickable bool         `json:"clickable"`
	Hint      string       `json:"hint,omitempty"`
}

type KeyView struct {
	Position catalog.Vec3 `json:"position"`
}

// QuestionView is a question without its answer.
type QuestionView struct {
	ID      string               `json:"id"`
	Kind    catalog.QuestionKind `json:"kind"`
	Prompt  string               `json:"prompt"`
	Code    string               `json:"code,omitempty"`
	Options []string             `json:"options,omitempty"`
	Number  int                  `json:"number"`
	Total   int                  `json:"total"`
}

type AnswerView struct {
	Correct     bool      `json:"correct"`
	AllCorrect  bool      `json:"allCorrect"`
	LivesReset  bool      `json:"livesReset"`
	Explanation string    `json:"explanation,omitempty"`
	Snapshot    *Snapshot `json:"snapshot"`
}

func (s *Server) makeSnapshot(sess game.Session) (*Snapshot, error) {
	st := sess.State
	snap := &Snapshot{State: st}
	if st.Phase != game.PhasePlaying {
		return snap, nil
	}

	cat := s.Engine.Catalog()
	if l, ok := cat.Level(st.Level); ok {
		snap.Level = &LevelView{Number: l.Number, Name: l.Name, KeyRevealType: l.KeyRevealType}
	}
	snap.Objectives = game.Objectives(st)
	snap.Objective = game.CurrentObjective(st)

	setup, err := s.Engine.Setup(sess)
	if err != nil {
		return nil, err
	}
	for _, o := range cat.Objects {
		v := ObjectView{ID: o.ID, Name: o.Name, Position: o.Position, Role: setup.RoleOf(o.ID)}
		switch v.Role {
		case level.RoleQuestions:
			v.Clickable = !st.AllQuestionsCorrect
			if v.Clickable {
				v.Hint = o.QuestionHint
			}
		case level.RoleKeyHider:
			v.Clickable = st.KeyRevealed && !st.KeyCollected
			if v.Clickable {
				v.Hint = o.KeyHint
			}
		}
		snap.Room = append(snap.Room, v)
	}
	snap.Room = append(snap.Room,
		ObjectView{
			ID:        catalog.SwitchID,
			Name:      "Switch",
			Position:  catalog.SwitchPosition,
			Clickable: st.KeyCollected && !st.SwitchActivated,
		},
		ObjectView{
			ID:        catalog.DoorID,
			Name:      "Door",
			Position:  catalog.DoorPosition,
			Clickable: st.DoorUnlocked,
		},
	)
	if st.KeyRevealed && !st.KeyCollected {
		snap.Key = &KeyView{Position: setup.KeyPosition}
	}

	if st.ShowQuestionPanel {
		q, ok, err := s.Engine.CurrentQuestion(sess)
		if err != nil {
			return nil, err
		}
		if ok {
			snap.Question = &QuestionView{
				ID:      q.ID,
				Kind:    q.Kind,
				Prompt:  q.Prompt,
				Code:    q.Code,
				Options: q.Options,
				Number:  sess.Answered + 1,
				Total:   len(setup.Questions),
			}
		}
	}
	return snap, nil
}
