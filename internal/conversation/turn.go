package conversation

import (
	"fmt"

	"voicechef/internal/dialog"
	"voicechef/internal/tracker"
)

// Turn is one inbound user utterance together with the session it belongs
// to. Everything a handler needs arrives here; nothing is kept between turns.
type Turn struct {
	Intent       string
	Direction    tracker.Direction
	Params       map[string]any
	ScreenOutput bool
	Contexts     dialog.ContextStore
	Sink         dialog.ResponseSink
}

// Param returns a string argument resolved by the platform. List values
// yield their first element.
func (t *Turn) Param(name string) string {
	v, ok := t.Params[name]
	if !ok || v == nil {
		return ""
	}
	switch p := v.(type) {
	case string:
		return p
	case []any:
		if len(p) == 0 {
			return ""
		}
		return fmt.Sprint(p[0])
	case []string:
		if len(p) == 0 {
			return ""
		}
		return p[0]
	default:
		return fmt.Sprint(p)
	}
}
