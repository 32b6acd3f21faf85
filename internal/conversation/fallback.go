package conversation

import (
	"slices"

	"voicechef/internal/dialog"
)

// Resolution is what Fallback should do for an unmatched utterance
type Resolution struct {
	Message string
	Abort   bool
}

// Resolve picks the fallback for the live context names. Only stage
// markers count: during the recipe or while confirming one the user is
// reminded how to navigate, after completion the conversation ends, and
// otherwise they are prompted to pick a category.
func Resolve(contexts []string, options string) Resolution {
	markers := dialog.ActiveMarkers(contexts)
	for _, m := range dialog.SectionMarkers {
		if slices.Contains(markers, m) {
			return Resolution{Message: speech(helpMsg)}
		}
	}
	if slices.Contains(markers, dialog.MarkerCategorySelection) {
		return Resolution{Message: speech(helpMsg)}
	}
	if slices.Contains(markers, dialog.MarkerFinish) {
		return Resolution{Abort: true}
	}
	return Resolution{Message: speech(promptMsg, options)}
}
