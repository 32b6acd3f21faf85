package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"voicechef/internal/dialog"
)

// Conversation dispatches turns to routes by action. Welcome and fallback
// actions get a default answer when the routes leave them out.
type Conversation struct {
	Name   string
	routes map[string]Route
	log    *slog.Logger
}

// NewConversation builds a dispatcher over routes
func NewConversation(name string, routes []Route, welcome, fallback []string, log *slog.Logger) *Conversation {
	if log == nil {
		log = slog.Default()
	}
	cv := &Conversation{
		Name:   name,
		routes: make(map[string]Route, len(routes)+2),
		log:    log.With("conversation", name),
	}
	for _, r := range routes {
		cv.routes[r.Action] = r
	}
	if welcome == nil {
		welcome = []string{"Welcome!"}
	}
	if fallback == nil {
		fallback = []string{"I didn't get that.", "Please say that again."}
	}
	if _, ok := cv.routes[ActionWelcome]; !ok {
		cv.routes[ActionWelcome] = Route{Action: ActionWelcome, Op: opWelcome, Handler: sayAll(welcome)}
	}
	if _, ok := cv.routes[ActionFallback]; !ok {
		cv.routes[ActionFallback] = Route{Action: ActionFallback, Op: opFallback, Handler: sayAll(fallback)}
	}
	return cv
}

// Handle dispatches turn by its intent. Unknown intents go to the fallback
// route.
func (cv *Conversation) Handle(ctx context.Context, turn *Turn) error {
	route, ok := cv.routes[turn.Intent]
	if !ok {
		cv.log.Warn("Falling back", "error", fmt.Errorf("%q: %w", turn.Intent, ErrUnknownIntent))
		route = cv.routes[ActionFallback]
	}
	turn.Direction = route.Direction
	cv.log.Debug("Dispatching turn", "action", turn.Intent, "op", route.Op, "direction", route.Direction.String())
	return route.Handler(ctx, turn)
}

// Actions lists every action the conversation answers
func (cv *Conversation) Actions() []string {
	out := make([]string, 0, len(cv.routes))
	for a := range cv.routes {
		out = append(out, a)
	}
	return out
}

func sayAll(lines []string) HandlerFunc {
	return func(ctx context.Context, turn *Turn) error {
		if !turn.Sink.Ask(dialog.Say(lines...)) {
			return ErrResponseFailed
		}
		return nil
	}
}
