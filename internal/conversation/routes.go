package conversation

import (
	"context"

	"voicechef/internal/tracker"
)

// Platform actions every conversation answers
const (
	ActionWelcome  = "input.welcome"
	ActionFallback = "input.unknown"
)

const (
	opWelcome        = "welcome"
	opFallback       = "fallback"
	opSelectCategory = "select_category"
	opConfirm        = "confirm_category"
	opChooseAnother  = "choose_another"
	opFinish         = "finish"
	opGuidelines     = "guidelines"
	opIngredients    = "ingredients"
	opSteps          = "steps"
	opComplete       = "complete"
)

// HandlerFunc handles one turn
type HandlerFunc func(ctx context.Context, turn *Turn) error

// Route maps a platform action to an operation
type Route struct {
	Action    string
	Op        string
	Direction tracker.Direction
	Handler   HandlerFunc
}

// Routes returns the recipe conversation's action table. A bare section
// action moves forward.
func (c *Controller) Routes() []Route {
	routes := []Route{
		{Action: ActionWelcome, Op: opWelcome, Handler: c.Welcome},
		{Action: ActionFallback, Op: opFallback, Handler: c.Fallback},
		{Action: "select.meal_category", Op: opSelectCategory, Handler: c.SelectCategory},
		{Action: "meal-category-selection.yes", Op: opConfirm, Handler: c.ConfirmCategory},
		{Action: "meal-category-selection.no", Op: opChooseAnother, Handler: c.ChooseAnother},
		{Action: "finish-recipe.another", Op: opChooseAnother, Handler: c.ChooseAnother},
		{Action: "finish-recipe.finished", Op: opFinish, Handler: c.Finish},
		{Action: "meal-complete", Op: opComplete, Handler: c.Complete},
	}
	for _, s := range []struct {
		prefix  string
		op      string
		handler HandlerFunc
	}{
		{"recipe-guidelines", opGuidelines, c.Guidelines},
		{"recipe-ingredients", opIngredients, c.Ingredients},
		{"recipe-steps", opSteps, c.Steps},
	} {
		routes = append(routes,
			Route{Action: s.prefix, Op: s.op, Direction: tracker.Next, Handler: s.handler},
			Route{Action: s.prefix + ".next", Op: s.op, Direction: tracker.Next, Handler: s.handler},
			Route{Action: s.prefix + ".previous", Op: s.op, Direction: tracker.Previous, Handler: s.handler},
			Route{Action: s.prefix + ".repeat", Op: s.op, Direction: tracker.Repeat, Handler: s.handler},
		)
	}

	for i := range routes {
		routes[i].Handler = c.recovering(routes[i].Op, routes[i].Handler)
	}
	return routes
}

// recovering runs h and recovers from its failure in place
func (c *Controller) recovering(op string, h HandlerFunc) HandlerFunc {
	return func(ctx context.Context, turn *Turn) error {
		if err := h(ctx, turn); err != nil {
			c.Recover(ctx, turn, op, err)
		}
		return nil
	}
}

// DirectionFor returns the navigation direction routes assign to action,
// Next when no route names it
func DirectionFor(routes []Route, action string) tracker.Direction {
	for _, r := range routes {
		if r.Action == action {
			return r.Direction
		}
	}
	return tracker.Next
}
