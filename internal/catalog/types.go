package catalog

// Vec3 is a world-space position (x, y, z).
type Vec3 [3]float64

// QuestionKind distinguishes multiple-choice from typed answers.
type QuestionKind string

const (
	KindChoice   QuestionKind = "choice"
	KindFreeform QuestionKind = "freeform"
)

// Question is a single knowledge-check item.
type Question struct {
	ID          string       `yaml:"id"`
	Level       int          `yaml:"level"`
	Kind        QuestionKind `yaml:"kind"`
	Prompt      string       `yaml:"prompt"`
	Code        string       `yaml:"code"`
	Options     []string     `yaml:"options"`
	Answer      string       `yaml:"answer"`
	Explanation string       `yaml:"explanation"`
}

// RoomObject describes a fixture in the room and which puzzle roles it can
// take. Decorative fixtures have both capabilities off.
type RoomObject struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Position         Vec3   `yaml:"position"`
	CanHoldQuestions bool   `yaml:"canHoldQuestions"`
	CanHideKey       bool   `yaml:"canHideKey"`
	QuestionHint     string `yaml:"questionHint"`
	KeyHint          string `yaml:"keyHint"`
	KeyPosition      *Vec3  `yaml:"keyPosition"`
}

// Level holds the non-visual metadata of a room.
type Level struct {
	Number        int    `yaml:"number"`
	Name          string `yaml:"name"`
	KeyRevealType string `yaml:"keyRevealType"` // "table" | "drawer" | "painting" | "floor" | "wall"
}

// Catalog is the immutable set of static tables the game runs on.
type Catalog struct {
	Questions []Question
	Objects   []RoomObject
	Levels    []Level
}

// QuestionsForLevel returns the questions of one level in catalog order.
func (c *Catalog) QuestionsForLevel(level int) []Question {
	var out []Question
	for _, q := range c.Questions {
		if q.Level == level {
			out = append(out, q)
		}
	}
	return out
}

// Object looks up a room object by id.
func (c *Catalog) Object(id string) (RoomObject, bool) {
	for _, o := range c.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return RoomObject{}, false
}

// Level looks up level metadata by number.
func (c *Catalog) Level(n int) (Level, bool) {
	for _, l := range c.Levels {
		if l.Number == n {
			return l, true
		}
	}
	return Level{}, false
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// The switch and the door are fixed fixtures of every room. They take no
// part in role assignment.
const (
	SwitchID = "switch"
	DoorID   = "door"
)

var (
	SwitchPosition = Vec3{4.9, 0, 2}
	DoorPosition   = Vec3{0, -0.5, 4.95}
)

// RoomHalfWidth is the distance from the room center to each wall.
const RoomHalfWidth = 5.0
