package conversation

import "voicechef/internal/tracker"

// Observer is told about the conversation's progress, for metrics
type Observer interface {
	Navigated(section tracker.Section, dir tracker.Direction, outcome tracker.Outcome)
	Transitioned(from, to Stage, trigger Trigger)
	Recovered(op string, err error)
}

type noopObserver struct{}

func (noopObserver) Navigated(tracker.Section, tracker.Direction, tracker.Outcome) {}
func (noopObserver) Transitioned(Stage, Stage, Trigger)                            {}
func (noopObserver) Recovered(string, error)                                       {}
