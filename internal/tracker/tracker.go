// Package tracker decides how a navigation command moves a listener through
// one section of a recipe.
package tracker

// Direction is the index increment a navigation command applies
type Direction int

const (
	Repeat   Direction = 0
	Next     Direction = 1
	Previous Direction = -1
)

// String returns the command word for d
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Section is one of the three ordered parts of a recipe
type Section int

const (
	Guidelines Section = iota
	Ingredients
	Steps
)

// String returns the section's progress key
func (s Section) String() string {
	switch s {
	case Guidelines:
		return "guidelines"
	case Ingredients:
		return "ingredients"
	case Steps:
		return "steps"
	default:
		return "unknown"
	}
}

// Previous returns the section before s. ok is false for Guidelines.
func (s Section) Previous() (Section, bool) {
	if s == Guidelines {
		return s, false
	}
	return s - 1, true
}

// Next returns the section after s. ok is false for Steps, whose successor
// is the end of the recipe.
func (s Section) Next() (Section, bool) {
	if s == Steps {
		return s, false
	}
	return s + 1, true
}

// Outcome is what the conversation should do after a navigation command
type Outcome int

const (
	// Intro: say the section's introduction.
	Intro Outcome = iota
	// Item: say the item at Decision.Item.
	Item
	// Clamp: the listener tried to go back before the first guideline.
	Clamp
	// FirstItem: the listener stepped back off the first item of a section
	// that has a predecessor; saying "previous" again rolls back.
	FirstItem
	// RollBack: continue at the end of the previous section.
	RollBack
	// RollForward: the section is exhausted; continue with the next one.
	RollForward
)

// String returns a short name for o
func (o Outcome) String() string {
	switch o {
	case Intro:
		return "intro"
	case Item:
		return "item"
	case Clamp:
		return "clamp"
	case FirstItem:
		return "first_item"
	case RollBack:
		return "roll_back"
	case RollForward:
		return "roll_forward"
	default:
		return "unknown"
	}
}

// Decision is the result of applying a navigation command. Position is the
// value to store for the section; Item is only meaningful for Outcome Item.
type Decision struct {
	Outcome  Outcome
	Position int
	Item     int
}

// IntroPosition is the stored position of a section whose intro was said last
const IntroPosition = -1

// Decide applies dir to the stored position current of a section holding
// length items. A nil current means the section is entered for the first
// time.
func Decide(section Section, current *int, dir Direction, length int) Decision {
	if current == nil {
		return Decision{Outcome: Intro, Position: IntroPosition}
	}
	pos := *current

	if pos <= 0 && dir == Previous {
		if _, ok := section.Previous(); !ok {
			return Decision{Outcome: Clamp, Position: pos}
		}
		if pos == IntroPosition {
			return Decision{Outcome: RollBack, Position: IntroPosition}
		}
		return Decision{Outcome: FirstItem, Position: IntroPosition}
	}

	next := pos + int(dir)
	switch {
	case next >= length:
		return Decision{Outcome: RollForward, Position: IntroPosition}
	case next < 0:
		// repeat while still at the intro
		return Decision{Outcome: Intro, Position: IntroPosition}
	default:
		return Decision{Outcome: Item, Position: next, Item: next}
	}
}

// LastItem returns the decision for entering a section at its final item,
// which is where a roll back lands. An empty section is entered at its intro.
func LastItem(length int) Decision {
	if length == 0 {
		return Decision{Outcome: Intro, Position: IntroPosition}
	}
	return Decision{Outcome: Item, Position: length - 1, Item: length - 1}
}
