package conversation

import (
	"voicechef/internal/dialog"
	"voicechef/internal/tracker"
)

// Stage is a state of the recipe conversation. Stages hold no data: every
// turn re-enters its stage from what the context store remembers.
type Stage int

const (
	StageCategorySelection Stage = iota
	StageGuidelines
	StageIngredients
	StageSteps
	StageComplete
	StageAborted
)

// String returns a short name for s
func (s Stage) String() string {
	switch s {
	case StageCategorySelection:
		return "category_selection"
	case StageGuidelines:
		return "guidelines"
	case StageIngredients:
		return "ingredients"
	case StageSteps:
		return "steps"
	case StageComplete:
		return "complete"
	case StageAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Marker returns the stage marker awaiting input in s, empty for Aborted
func (s Stage) Marker() string {
	switch s {
	case StageCategorySelection:
		return dialog.MarkerCategorySelection
	case StageGuidelines:
		return dialog.MarkerGuidelines
	case StageIngredients:
		return dialog.MarkerIngredients
	case StageSteps:
		return dialog.MarkerSteps
	case StageComplete:
		return dialog.MarkerFinish
	default:
		return ""
	}
}

// currentStage returns the stage whose marker is alive in turn, or def when
// no marker is
func currentStage(turn *Turn, def Stage) Stage {
	markers := dialog.ActiveMarkers(turn.Contexts.List())
	for _, st := range []Stage{StageGuidelines, StageIngredients, StageSteps, StageCategorySelection, StageComplete} {
		for _, m := range markers {
			if st.Marker() == m {
				return st
			}
		}
	}
	return def
}

// Section returns the recipe section walked in s
func (s Stage) Section() (tracker.Section, bool) {
	switch s {
	case StageGuidelines:
		return tracker.Guidelines, true
	case StageIngredients:
		return tracker.Ingredients, true
	case StageSteps:
		return tracker.Steps, true
	default:
		return 0, false
	}
}

func sectionStage(s tracker.Section) Stage {
	switch s {
	case tracker.Ingredients:
		return StageIngredients
	case tracker.Steps:
		return StageSteps
	default:
		return StageGuidelines
	}
}

// Trigger names why the conversation leaves a stage
type Trigger string

const (
	TriggerConfirm   Trigger = "confirm"   // user accepted the proposed recipe
	TriggerExhausted Trigger = "exhausted" // navigated past a section's last item
	TriggerUnderflow Trigger = "underflow" // navigated back from a section's intro
	TriggerAnother   Trigger = "another"   // user wants to pick another recipe
	TriggerAbort     Trigger = "abort"     // user is done
)

// Transition is one edge of the conversation state machine
type Transition struct {
	From    Stage
	Trigger Trigger
	To      Stage
}

// anyStage matches every From stage
const anyStage Stage = -1

// Transitions is the recipe conversation state machine
var Transitions = []Transition{
	{StageCategorySelection, TriggerConfirm, StageGuidelines},
	{StageGuidelines, TriggerExhausted, StageIngredients},
	{StageIngredients, TriggerExhausted, StageSteps},
	{StageSteps, TriggerExhausted, StageComplete},
	{StageIngredients, TriggerUnderflow, StageGuidelines},
	{StageSteps, TriggerUnderflow, StageIngredients},
	{anyStage, TriggerAnother, StageCategorySelection},
	{anyStage, TriggerAbort, StageAborted},
}

// NextStage looks up where trigger leads from stage
func NextStage(from Stage, trigger Trigger) (Stage, bool) {
	for _, t := range Transitions {
		if t.Trigger == trigger && (t.From == from || t.From == anyStage) {
			return t.To, true
		}
	}
	return from, false
}
