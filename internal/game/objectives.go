package game

// Objective is one step of a room as shown on the HUD.
type Objective struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// FinalObjective is shown once every objective of the room is done.
const FinalObjective = "Proceed through the door"

// Objectives lists the steps of the current room in order.
func Objectives(st State) []Objective {
	return []Objective{
		{Label: "Find the puzzle", Done: st.AllQuestionsCorrect},
		{Label: "Solve the challenge", Done: st.AllQuestionsCorrect},
		{Label: "Find the key", Done: st.KeyCollected},
		{Label: "Activate switch", Done: st.SwitchActivated},
		{Label: "Escape the room", Done: st.DoorUnlocked},
	}
}

// CurrentObjective returns the label of the first unfinished objective.
func CurrentObjective(st State) string {
	for _, o := range Objectives(st) {
		if !o.Done {
			return o.Label
		}
	}
	return FinalObjective
}
