package conversation

import (
	"context"
	"fmt"

	"voicechef/internal/dialog"
	"voicechef/internal/models"
	"voicechef/internal/tracker"
)

// section describes how one recipe section is spoken
type section struct {
	intro     string
	firstItem string // spoken when backing out of the first item
	clamp     string // spoken when backing out of a section with no predecessor
	length    func(r *models.Recipe) int
	item      func(r *models.Recipe, i int, screen bool) dialog.Response
}

var sections = map[tracker.Section]section{
	tracker.Guidelines: {
		intro:  guidelinesIntroMsg,
		clamp:  guidelinesClampMsg,
		length: func(r *models.Recipe) int { return len(r.Guidelines) },
		item: func(r *models.Recipe, i int, _ bool) dialog.Response {
			return dialog.Say(r.Guidelines[i])
		},
	},
	tracker.Ingredients: {
		intro:     ingredientsIntroMsg,
		firstItem: ingredientsFirstMsg,
		length:    func(r *models.Recipe) int { return len(r.Ingredients) },
		item: func(r *models.Recipe, i int, _ bool) dialog.Response {
			return dialog.Say(r.Ingredients[i])
		},
	},
	tracker.Steps: {
		intro:     stepsIntroMsg,
		firstItem: stepsFirstMsg,
		length:    func(r *models.Recipe) int { return len(r.Instructions) },
		item: func(r *models.Recipe, i int, screen bool) dialog.Response {
			step := r.Instructions[i]
			resp := dialog.Say(speech(stepMsg, step.Step, step.Description))
			if screen && step.Image != "" {
				resp.Card = &dialog.Card{ImageURL: step.Image, AltText: "your recipe step"}
			}
			return resp
		},
	},
}

// navigate moves through one section in turn.Direction and answers with
// whatever the tracker decided
func (c *Controller) navigate(ctx context.Context, turn *Turn, sec tracker.Section) error {
	recipe, err := c.chosenRecipe(ctx, turn)
	if err != nil {
		return err
	}
	spec := sections[sec]
	progress := dialog.LoadProgress(turn.Contexts)
	d := tracker.Decide(sec, progress.Position(sec.String()), turn.Direction, spec.length(recipe))
	c.observer.Navigated(sec, turn.Direction, d.Outcome)
	stage := sectionStage(sec)

	switch d.Outcome {
	case tracker.RollForward:
		progress.SetPosition(sec.String(), d.Position)
		dialog.SaveProgress(turn.Contexts, progress, c.lifetimes.Progress)
		return c.transition(ctx, turn, stage, TriggerExhausted)
	case tracker.RollBack:
		return c.transition(ctx, turn, stage, TriggerUnderflow)
	}

	progress.SetPosition(sec.String(), d.Position)
	dialog.SaveProgress(turn.Contexts, progress, c.lifetimes.Progress)
	return c.ask(turn, stage, c.render(spec, recipe, d, turn.ScreenOutput))
}

// enter starts sec for a stage reached by a transition. Moving forward
// lands on the intro, moving back lands on the last item.
func (c *Controller) enter(ctx context.Context, turn *Turn, sec tracker.Section, trigger Trigger) error {
	recipe, err := c.chosenRecipe(ctx, turn)
	if err != nil {
		return err
	}
	spec := sections[sec]
	progress := dialog.LoadProgress(turn.Contexts)

	d := tracker.Decide(sec, nil, tracker.Next, spec.length(recipe))
	if trigger == TriggerUnderflow {
		d = tracker.LastItem(spec.length(recipe))
	}
	progress.SetPosition(sec.String(), d.Position)
	dialog.SaveProgress(turn.Contexts, progress, c.lifetimes.Progress)
	return c.ask(turn, sectionStage(sec), c.render(spec, recipe, d, turn.ScreenOutput))
}

func (c *Controller) render(spec section, recipe *models.Recipe, d tracker.Decision, screen bool) dialog.Response {
	var resp dialog.Response
	switch d.Outcome {
	case tracker.Item:
		return spec.item(recipe, d.Item, screen)
	case tracker.Clamp:
		resp = dialog.Say(speech(spec.clamp))
	case tracker.FirstItem:
		resp = dialog.Say(speech(spec.firstItem))
	default:
		resp = dialog.Say(speech(spec.intro))
	}
	if screen {
		resp.Suggestions = []string{chipHelp}
	}
	return resp
}

// ask sends resp and marks stage as the one awaiting the user's answer
func (c *Controller) ask(turn *Turn, stage Stage, resp dialog.Response) error {
	dialog.ActivateMarker(turn.Contexts, stage.Marker(), c.lifetimes.Marker)
	if !turn.Sink.Ask(resp) {
		return ErrResponseFailed
	}
	return nil
}

// transition follows the state machine from one stage to the next and runs
// whatever the target stage does on entry
func (c *Controller) transition(ctx context.Context, turn *Turn, from Stage, trigger Trigger) error {
	to, ok := NextStage(from, trigger)
	if !ok {
		return fmt.Errorf("no transition from %s on %s", from, trigger)
	}
	c.observer.Transitioned(from, to, trigger)
	c.log.Debug("Stage transition", "from", from.String(), "to", to.String(), "trigger", string(trigger))

	if sec, ok := to.Section(); ok {
		return c.enter(ctx, turn, sec, trigger)
	}
	switch to {
	case StageComplete:
		return c.Complete(ctx, turn)
	case StageCategorySelection:
		c.chooseCategory(turn)
	case StageAborted:
		c.abort(turn)
	}
	return nil
}
