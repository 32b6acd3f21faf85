package dialog

// Stage markers are zero-payload contexts naming the conversation stage that
// awaits the user's next utterance. Exactly one should be alive at a time.
const (
	MarkerCategorySelection = "meal-category-selection-followup"
	MarkerGuidelines        = "recipe-guidelines-followup"
	MarkerIngredients       = "recipe-ingredients-followup"
	MarkerSteps             = "recipe-steps-followup"
	MarkerFinish            = "finish-recipe-followup"
)

// Progress contexts
const (
	ContextChosenRecipe   = "chosen_recipe"
	ContextRecipeProgress = "recipe_progress"
)

// StageMarkers lists every stage marker
var StageMarkers = []string{
	MarkerCategorySelection,
	MarkerGuidelines,
	MarkerIngredients,
	MarkerSteps,
	MarkerFinish,
}

// SectionMarkers lists the markers of the three recipe sections
var SectionMarkers = []string{
	MarkerGuidelines,
	MarkerIngredients,
	MarkerSteps,
}

// IsStageMarker reports whether name is one of the stage markers
func IsStageMarker(name string) bool {
	for _, m := range StageMarkers {
		if m == name {
			return true
		}
	}
	return false
}

// ActivateMarker clears every stage marker except current and (re)sets
// current. An empty current clears them all.
func ActivateMarker(store ContextStore, current string, lifespan int) {
	for _, m := range StageMarkers {
		if m != current {
			store.Set(m, 0, nil)
		}
	}
	if current != "" {
		store.Set(current, lifespan, nil)
	}
}

// ActiveMarkers returns the stage markers present in names
func ActiveMarkers(names []string) []string {
	var out []string
	for _, n := range names {
		if IsStageMarker(n) {
			out = append(out, n)
		}
	}
	return out
}
