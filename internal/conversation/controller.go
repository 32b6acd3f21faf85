// Package conversation drives a recipe conversation turn by turn: category
// selection, the guidelines, ingredients and steps walk-through, completion
// and recovery when the session state no longer makes sense.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voicechef/internal/dialog"
	"voicechef/internal/models"
	"voicechef/internal/recipes"
	"voicechef/internal/tracker"
)

// Platform follow-up events owned by the conversation designer's agent
const (
	EventCategorySelection = "meal-category-selection"
	EventFinished          = "finish-recipe-finished"
	EventFallback          = "fallback"
)

// RecipeRepository is the read side of the recipe collection
type RecipeRepository interface {
	FindByCategory(ctx context.Context, category string) (*models.Recipe, error)
	FindByID(ctx context.Context, id int) (*models.Recipe, error)
	Categories() []models.Category
}

// Compile-time interface check.
var _ RecipeRepository = (*recipes.Repository)(nil)

// Lifetimes are the context lifespans, in turns, the controller writes
type Lifetimes struct {
	ChosenRecipe int
	Progress     int
	Marker       int
}

// DefaultLifetimes keeps the recipe for the whole conversation and markers
// for a handful of turns
var DefaultLifetimes = Lifetimes{ChosenRecipe: 1000, Progress: 1000, Marker: 5}

// Option configures a Controller
type Option func(*Controller)

// WithLifetimes overrides DefaultLifetimes
func WithLifetimes(l Lifetimes) Option {
	return func(c *Controller) { c.lifetimes = l }
}

// WithBrand sets the product name spoken in the welcome and completion
// messages and the link shown at completion
func WithBrand(name, link string) Option {
	return func(c *Controller) {
		c.brand = name
		c.brandLink = link
	}
}

// WithLogger sets the controller's logger
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithObserver registers an observer for navigation and transitions
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// Controller implements every recipe conversation operation
type Controller struct {
	recipes   RecipeRepository
	lifetimes Lifetimes
	brand     string
	brandLink string
	log       *slog.Logger
	observer  Observer
}

// NewController creates a controller over repo
func NewController(repo RecipeRepository, opts ...Option) *Controller {
	c := &Controller{
		recipes:   repo,
		lifetimes: DefaultLifetimes,
		brand:     "UCook",
		brandLink: "https://ucook.co.za/",
		log:       slog.Default(),
		observer:  noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Welcome greets the user and lists the categories on offer
func (c *Controller) Welcome(ctx context.Context, turn *Turn) error {
	resp := dialog.Say(speech(welcomeMsg, c.brand, c.categoryOptions()))
	if !turn.Sink.Ask(resp) {
		return ErrResponseFailed
	}
	return nil
}

// SelectCategory picks the recipe for the "meal-category" parameter and asks
// the user to confirm it
func (c *Controller) SelectCategory(ctx context.Context, turn *Turn) error {
	category := turn.Param("meal-category")
	recipe, err := c.recipes.FindByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("select category %q: %w", category, err)
	}

	dialog.ChooseRecipe(turn.Contexts, recipe.ID, c.lifetimes.ChosenRecipe)
	turn.Contexts.Set(dialog.ContextRecipeProgress, 0, nil)
	dialog.ActivateMarker(turn.Contexts, dialog.MarkerCategorySelection, c.lifetimes.Marker)

	resp := dialog.Say(speech(confirmMsg, recipe.Name, recipe.Author, recipe.Description))
	if turn.ScreenOutput {
		resp.Card = &dialog.Card{ImageURL: recipe.Image, AltText: "your recipe"}
		resp.Suggestions = []string{chipHelp}
	}
	if !turn.Sink.Ask(resp) {
		return ErrResponseFailed
	}
	c.log.Info("Recipe chosen", "category", category, "recipe", recipe.Name, "id", recipe.ID)
	return nil
}

// ConfirmCategory starts the chosen recipe at the guidelines intro
func (c *Controller) ConfirmCategory(ctx context.Context, turn *Turn) error {
	return c.transition(ctx, turn, StageCategorySelection, TriggerConfirm)
}

// ChooseAnother returns the user to category selection
func (c *Controller) ChooseAnother(ctx context.Context, turn *Turn) error {
	return c.transition(ctx, turn, currentStage(turn, StageComplete), TriggerAnother)
}

// Finish ends the conversation
func (c *Controller) Finish(ctx context.Context, turn *Turn) error {
	return c.transition(ctx, turn, currentStage(turn, StageComplete), TriggerAbort)
}

// Guidelines navigates the guidelines section in turn.Direction
func (c *Controller) Guidelines(ctx context.Context, turn *Turn) error {
	return c.navigate(ctx, turn, tracker.Guidelines)
}

// Ingredients navigates the ingredients section in turn.Direction
func (c *Controller) Ingredients(ctx context.Context, turn *Turn) error {
	return c.navigate(ctx, turn, tracker.Ingredients)
}

// Steps navigates the steps section in turn.Direction
func (c *Controller) Steps(ctx context.Context, turn *Turn) error {
	return c.navigate(ctx, turn, tracker.Steps)
}

// Complete congratulates the user and forgets the recipe
func (c *Controller) Complete(ctx context.Context, turn *Turn) error {
	recipe, err := c.chosenRecipe(ctx, turn)
	if err != nil {
		return err
	}
	c.forgetRecipe(turn)
	dialog.ActivateMarker(turn.Contexts, dialog.MarkerFinish, c.lifetimes.Marker)

	resp := dialog.Say(speech(completeMsg, recipe.Name, c.brand))
	if turn.ScreenOutput {
		resp.Card = &dialog.Card{ImageURL: recipe.Image, AltText: "your recipe"}
		resp.Suggestions = []string{chipMoreRecipes, chipHelp}
		resp.Link = &dialog.Link{Name: c.brand, URL: c.brandLink}
	}
	if !turn.Sink.Tell(resp) {
		return ErrResponseFailed
	}
	c.log.Info("Recipe complete", "recipe", recipe.Name)
	return nil
}

// Fallback answers an utterance no other intent matched, based on which
// contexts are alive
func (c *Controller) Fallback(ctx context.Context, turn *Turn) error {
	res := Resolve(turn.Contexts.List(), c.categoryOptions())
	if res.Abort {
		return c.transition(ctx, turn, currentStage(turn, StageComplete), TriggerAbort)
	}
	if !turn.Sink.Ask(dialog.Say(res.Message)) {
		return ErrResponseFailed
	}
	return nil
}

// Recover turns a failed operation into a platform event so the session
// stays usable. A failure while already falling back restarts category
// selection.
func (c *Controller) Recover(ctx context.Context, turn *Turn, op string, err error) {
	c.observer.Recovered(op, err)
	c.log.Warn("Recovering from failed turn", "intent", turn.Intent, "op", op, "error", err)

	if errors.Is(err, recipes.ErrRecipeNotFound) && op != opSelectCategory {
		c.forgetRecipe(turn)
		dialog.ActivateMarker(turn.Contexts, "", 0)
	}
	if op == opFallback {
		c.chooseCategory(turn)
		return
	}
	turn.Sink.EmitEvent(EventFallback)
}

func (c *Controller) chosenRecipe(ctx context.Context, turn *Turn) (*models.Recipe, error) {
	id, ok := dialog.ChosenRecipe(turn.Contexts)
	if !ok {
		return nil, fmt.Errorf("no chosen recipe: %w", recipes.ErrRecipeNotFound)
	}
	return c.recipes.FindByID(ctx, id)
}

func (c *Controller) forgetRecipe(turn *Turn) {
	turn.Contexts.Set(dialog.ContextRecipeProgress, 0, nil)
	turn.Contexts.Set(dialog.ContextChosenRecipe, 0, nil)
}

func (c *Controller) chooseCategory(turn *Turn) {
	c.forgetRecipe(turn)
	dialog.ActivateMarker(turn.Contexts, "", 0)
	turn.Sink.EmitEvent(EventCategorySelection)
}

func (c *Controller) abort(turn *Turn) {
	c.forgetRecipe(turn)
	dialog.ActivateMarker(turn.Contexts, "", 0)
	turn.Sink.EmitEvent(EventFinished)
}

func (c *Controller) categoryOptions() string {
	cats := c.recipes.Categories()
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = cat.String()
	}
	return quoteList(names)
}
