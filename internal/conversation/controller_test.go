package conversation

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicechef/internal/dialog"
	"voicechef/internal/models"
	"voicechef/internal/recipes"
	"voicechef/internal/tracker"
)

type session struct {
	t      *testing.T
	ctrl   *Controller
	conv   *Conversation
	store  *dialog.MemoryStore
	rec    *dialog.Recorder
	screen bool
}

func newSession(t *testing.T, repo RecipeRepository, opts ...Option) *session {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := NewController(repo, append([]Option{WithLogger(log)}, opts...)...)
	return &session{
		t:     t,
		ctrl:  ctrl,
		conv:  NewConversation("recipes", ctrl.Routes(), nil, nil, log),
		store: dialog.NewMemoryStore(),
		rec:   &dialog.Recorder{},
	}
}

func (s *session) say(action string, params map[string]any) dialog.Reply {
	s.t.Helper()
	s.rec.Reset()
	turn := &Turn{
		Intent:       action,
		Params:       params,
		ScreenOutput: s.screen,
		Contexts:     s.store,
		Sink:         s.rec,
	}
	require.NoError(s.t, s.conv.Handle(context.Background(), turn))
	reply, ok := s.rec.Last()
	require.True(s.t, ok, "no reply to %s", action)
	return reply
}

func (s *session) markers() []string {
	return dialog.ActiveMarkers(s.store.List())
}

func (s *session) position(key string) *int {
	return dialog.LoadProgress(s.store).Position(key)
}

func pork(t *testing.T) *models.Recipe {
	t.Helper()
	r, err := recipes.Default().FindByCategory(context.Background(), "pork")
	require.NoError(t, err)
	return r
}

func TestPorkWalkthrough(t *testing.T) {
	s := newSession(t, recipes.Default())
	r := pork(t)

	reply := s.say("select.meal_category", map[string]any{"meal-category": "pork"})
	assert.Equal(t, "ask", reply.Kind)
	assert.Contains(t, reply.Response.Text(), "Sticky Asian-Style Pork Patties by Chante van der Walt")
	assert.Equal(t, []string{dialog.MarkerCategorySelection}, s.markers())
	id, ok := dialog.ChosenRecipe(s.store)
	require.True(t, ok)
	assert.Equal(t, r.ID, id)

	reply = s.say("meal-category-selection.yes", nil)
	assert.Equal(t, speech(guidelinesIntroMsg), reply.Response.Text())
	assert.Equal(t, []string{dialog.MarkerGuidelines}, s.markers())
	require.NotNil(t, s.position(dialog.KeyGuidelines))
	assert.Equal(t, -1, *s.position(dialog.KeyGuidelines))

	for i, g := range r.Guidelines {
		reply = s.say("recipe-guidelines.next", nil)
		assert.Equal(t, g, reply.Response.Text())
		assert.Equal(t, i, *s.position(dialog.KeyGuidelines))
	}

	reply = s.say("recipe-guidelines.next", nil)
	assert.Equal(t, speech(ingredientsIntroMsg), reply.Response.Text())
	assert.Equal(t, []string{dialog.MarkerIngredients}, s.markers())
	assert.Equal(t, -1, *s.position(dialog.KeyIngredients))

	for _, ing := range r.Ingredients {
		reply = s.say("recipe-ingredients.next", nil)
		assert.Equal(t, ing, reply.Response.Text())
	}

	reply = s.say("recipe-ingredients.next", nil)
	assert.Equal(t, speech(stepsIntroMsg), reply.Response.Text())
	assert.Equal(t, []string{dialog.MarkerSteps}, s.markers())

	for _, step := range r.Instructions {
		reply = s.say("recipe-steps.next", nil)
		assert.True(t, strings.HasPrefix(reply.Response.Text(), "Step "), reply.Response.Text())
		assert.Contains(t, reply.Response.Text(), step.Description)
	}

	reply = s.say("recipe-steps.next", nil)
	assert.Equal(t, "tell", reply.Kind)
	assert.Contains(t, reply.Response.Text(), "lovely home cooked plate of Sticky Asian-Style Pork Patties")
	assert.Contains(t, reply.Response.Text(), "UCook recipes.")
	assert.Equal(t, []string{dialog.MarkerFinish}, s.markers())
	_, ok = dialog.ChosenRecipe(s.store)
	assert.False(t, ok)
	_, ok = s.store.Get(dialog.ContextRecipeProgress)
	assert.False(t, ok)

	// the recipe is gone, so navigating again recovers through the fallback event
	reply = s.say("recipe-steps.next", nil)
	assert.Equal(t, "event", reply.Kind)
	assert.Equal(t, EventFallback, reply.Event)
}

func TestNavigationBoundaries(t *testing.T) {
	s := newSession(t, recipes.Default())
	r := pork(t)
	s.say("select.meal_category", map[string]any{"meal-category": "pork"})
	s.say("meal-category-selection.yes", nil)

	t.Run("previous at guidelines intro clamps", func(t *testing.T) {
		reply := s.say("recipe-guidelines.previous", nil)
		assert.Equal(t, speech(guidelinesClampMsg), reply.Response.Text())
		assert.Equal(t, -1, *s.position(dialog.KeyGuidelines))
	})

	t.Run("previous at first guideline clamps", func(t *testing.T) {
		s.say("recipe-guidelines.next", nil)
		reply := s.say("recipe-guidelines.previous", nil)
		assert.Equal(t, speech(guidelinesClampMsg), reply.Response.Text())
		assert.Equal(t, 0, *s.position(dialog.KeyGuidelines))
	})

	t.Run("repeat stays put", func(t *testing.T) {
		reply := s.say("recipe-guidelines.repeat", nil)
		assert.Equal(t, r.Guidelines[0], reply.Response.Text())
		assert.Equal(t, 0, *s.position(dialog.KeyGuidelines))
	})

	t.Run("skip to ingredients", func(t *testing.T) {
		reply := s.say("recipe-ingredients", nil)
		assert.Equal(t, speech(ingredientsIntroMsg), reply.Response.Text())
		reply = s.say("recipe-ingredients", nil)
		assert.Equal(t, r.Ingredients[0], reply.Response.Text())
	})

	t.Run("previous at first ingredient announces it", func(t *testing.T) {
		reply := s.say("recipe-ingredients.previous", nil)
		assert.Equal(t, speech(ingredientsFirstMsg), reply.Response.Text())
		assert.Equal(t, -1, *s.position(dialog.KeyIngredients))
	})

	t.Run("previous again rolls back to the last guideline", func(t *testing.T) {
		reply := s.say("recipe-ingredients.previous", nil)
		last := len(r.Guidelines) - 1
		assert.Equal(t, r.Guidelines[last], reply.Response.Text())
		assert.Equal(t, last, *s.position(dialog.KeyGuidelines))
		assert.Equal(t, []string{dialog.MarkerGuidelines}, s.markers())
	})

	t.Run("next from the last guideline reopens ingredients", func(t *testing.T) {
		reply := s.say("recipe-guidelines.next", nil)
		assert.Equal(t, speech(ingredientsIntroMsg), reply.Response.Text())
	})

	t.Run("steps roll back to the last ingredient", func(t *testing.T) {
		s.say("recipe-steps", nil)
		reply := s.say("recipe-steps.previous", nil)
		last := len(r.Ingredients) - 1
		assert.Equal(t, r.Ingredients[last], reply.Response.Text())
		assert.Equal(t, []string{dialog.MarkerIngredients}, s.markers())
	})
}

func TestSelectCategory(t *testing.T) {
	t.Run("unknown category falls back", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		reply := s.say("select.meal_category", map[string]any{"meal-category": "seafood"})
		assert.Equal(t, "event", reply.Kind)
		assert.Equal(t, EventFallback, reply.Event)
		_, ok := dialog.ChosenRecipe(s.store)
		assert.False(t, ok)
	})

	t.Run("reselecting resets progress", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		s.say("select.meal_category", map[string]any{"meal-category": "pork"})
		s.say("meal-category-selection.yes", nil)
		s.say("recipe-guidelines.next", nil)
		s.say("select.meal_category", map[string]any{"meal-category": []any{"lamb"}})
		_, ok := s.store.Get(dialog.ContextRecipeProgress)
		assert.False(t, ok)
		reply := s.say("meal-category-selection.yes", nil)
		assert.Equal(t, speech(guidelinesIntroMsg), reply.Response.Text())
	})

	t.Run("screen output shows the recipe", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		s.screen = true
		reply := s.say("select.meal_category", map[string]any{"meal-category": "pork"})
		require.NotNil(t, reply.Response.Card)
		assert.Equal(t, pork(t).Image, reply.Response.Card.ImageURL)
		assert.Equal(t, "your recipe", reply.Response.Card.AltText)
		assert.Equal(t, []string{chipHelp}, reply.Response.Suggestions)
	})

	t.Run("decline returns to category selection", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		s.say("select.meal_category", map[string]any{"meal-category": "pork"})
		reply := s.say("meal-category-selection.no", nil)
		assert.Equal(t, EventCategorySelection, reply.Event)
		assert.Empty(t, s.markers())
		_, ok := dialog.ChosenRecipe(s.store)
		assert.False(t, ok)
	})
}

func TestStepImages(t *testing.T) {
	r := models.NewRecipe(models.CategorySeafood, "Prawns", "Garlic prawns", "Test Kitchen", 5, 10, 2, "http://img/prawns.png")
	r.AddInstruction("Peel the prawns", "http://img/peel.png")
	r.AddInstruction("Fry them", "")
	s := newSession(t, recipes.New([]*models.Recipe{r}))
	s.screen = true

	s.say("select.meal_category", map[string]any{"meal-category": "seafood"})
	// no guidelines or ingredients: confirming lands on the guidelines intro
	s.say("meal-category-selection.yes", nil)
	reply := s.say("recipe-guidelines.next", nil)
	assert.Equal(t, speech(ingredientsIntroMsg), reply.Response.Text())
	assert.Equal(t, []string{chipHelp}, reply.Response.Suggestions)
	s.say("recipe-ingredients.next", nil)

	reply = s.say("recipe-steps.next", nil)
	assert.Equal(t, "Step 1: Peel the prawns", reply.Response.Text())
	require.NotNil(t, reply.Response.Card)
	assert.Equal(t, "http://img/peel.png", reply.Response.Card.ImageURL)
	assert.Equal(t, "your recipe step", reply.Response.Card.AltText)

	reply = s.say("recipe-steps.next", nil)
	assert.Equal(t, "Step 2: Fry them", reply.Response.Text())
	assert.Nil(t, reply.Response.Card)

	reply = s.say("meal-complete", nil)
	assert.Equal(t, "tell", reply.Kind)
	require.NotNil(t, reply.Response.Link)
	assert.Equal(t, dialog.Link{Name: "UCook", URL: "https://ucook.co.za/"}, *reply.Response.Link)
	assert.Equal(t, []string{chipMoreRecipes, chipHelp}, reply.Response.Suggestions)
}

func TestFinishRecipe(t *testing.T) {
	s := newSession(t, recipes.Default(), WithBrand("Kitchen", "https://kitchen.example/"))
	s.say("select.meal_category", map[string]any{"meal-category": "salad"})
	reply := s.say("meal-complete", nil)
	assert.Contains(t, reply.Response.Text(), "Kitchen recipes.")

	reply = s.say("finish-recipe.another", nil)
	assert.Equal(t, EventCategorySelection, reply.Event)

	s.store.Set(dialog.MarkerFinish, 5, nil)
	reply = s.say("finish-recipe.finished", nil)
	assert.Equal(t, EventFinished, reply.Event)
	assert.Empty(t, s.markers())
}

func TestFallback(t *testing.T) {
	t.Run("no contexts prompts for a category", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		reply := s.say(ActionFallback, nil)
		assert.Contains(t, reply.Response.Text(), `"salad", "pork", or "lamb"`)
	})

	t.Run("recipe contexts without a marker prompt for a category", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		dialog.ChooseRecipe(s.store, 1, 1000)
		s.store.Set("actions_capability_screen_output", 1, nil)
		reply := s.say(ActionFallback, nil)
		assert.Contains(t, reply.Response.Text(), "What would you like to cook today?")
		assert.Contains(t, reply.Response.Text(), `"salad", "pork", or "lamb"`)
	})

	t.Run("during the recipe explains navigation", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		s.say("select.meal_category", map[string]any{"meal-category": "pork"})
		s.say("meal-category-selection.yes", nil)
		reply := s.say("what now", nil)
		assert.Equal(t, speech(helpMsg), reply.Response.Text())
	})

	t.Run("after completion ends the conversation", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		s.store.Set(dialog.MarkerFinish, 5, nil)
		reply := s.say(ActionFallback, nil)
		assert.Equal(t, EventFinished, reply.Event)
	})

	t.Run("failed fallback restarts category selection", func(t *testing.T) {
		s := newSession(t, recipes.Default())
		s.rec.Fail = true
		reply := s.say(ActionFallback, nil)
		assert.Equal(t, EventCategorySelection, reply.Event)
	})
}

func TestWelcome(t *testing.T) {
	s := newSession(t, recipes.Default())
	reply := s.say(ActionWelcome, nil)
	assert.Contains(t, reply.Response.Text(), "Welcome to UCook recipes.")
	assert.Contains(t, reply.Response.Text(), `"salad", "pork", or "lamb"`)

	s.rec.Fail = true
	s.rec.Reset()
	require.NoError(t, s.conv.Handle(context.Background(), &Turn{Intent: ActionWelcome, Contexts: s.store, Sink: s.rec}))
	reply, ok := s.rec.Last()
	require.True(t, ok)
	assert.Equal(t, EventFallback, reply.Event)
}

func TestRecoveryClearsRecipe(t *testing.T) {
	s := newSession(t, recipes.Default())
	s.store.Set(dialog.MarkerSteps, 5, nil)
	dialog.ChooseRecipe(s.store, 99, 1000)

	reply := s.say("recipe-steps.next", nil)
	assert.Equal(t, EventFallback, reply.Event)
	assert.Empty(t, s.store.List())
}

type countingObserver struct {
	from        []Stage
	transitions []Stage
	outcomes    []tracker.Outcome
	recovered   []string
}

func (o *countingObserver) Navigated(_ tracker.Section, _ tracker.Direction, out tracker.Outcome) {
	o.outcomes = append(o.outcomes, out)
}

func (o *countingObserver) Transitioned(from, to Stage, _ Trigger) {
	o.from = append(o.from, from)
	o.transitions = append(o.transitions, to)
}

func (o *countingObserver) Recovered(op string, _ error) { o.recovered = append(o.recovered, op) }

func TestObserver(t *testing.T) {
	obs := &countingObserver{}
	s := newSession(t, recipes.Default(), WithObserver(obs))
	s.say("select.meal_category", map[string]any{"meal-category": "lamb"})
	s.say("meal-category-selection.yes", nil)
	s.say("recipe-guidelines.next", nil)
	s.say("recipe-steps.previous", nil)
	s.say("recipe-steps.previous", nil)
	s.store.Set(dialog.ContextChosenRecipe, 0, nil)
	s.say("recipe-steps.next", nil)

	assert.Equal(t, []Stage{StageGuidelines, StageIngredients}, obs.transitions)
	assert.Equal(t, []tracker.Outcome{tracker.Item, tracker.Intro, tracker.RollBack}, obs.outcomes[:3])
	assert.Equal(t, []string{opSteps}, obs.recovered)
}

func TestTransitionSources(t *testing.T) {
	obs := &countingObserver{}
	s := newSession(t, recipes.Default(), WithObserver(obs))

	s.say("select.meal_category", map[string]any{"meal-category": "pork"})
	reply := s.say("meal-category-selection.no", nil)
	assert.Equal(t, EventCategorySelection, reply.Event)

	s.say("select.meal_category", map[string]any{"meal-category": "salad"})
	s.say("meal-complete", nil)
	reply = s.say("finish-recipe.finished", nil)
	assert.Equal(t, EventFinished, reply.Event)

	// no marker left, so the finished recipe is assumed
	reply = s.say("finish-recipe.another", nil)
	assert.Equal(t, EventCategorySelection, reply.Event)

	assert.Equal(t, []Stage{StageCategorySelection, StageComplete, StageComplete}, obs.from)
	assert.Equal(t, []Stage{StageCategorySelection, StageAborted, StageCategorySelection}, obs.transitions)
}

func TestRejectedStepRecovers(t *testing.T) {
	obs := &countingObserver{}
	s := newSession(t, recipes.Default(), WithObserver(obs))
	r := pork(t)

	s.say("select.meal_category", map[string]any{"meal-category": "pork"})
	s.say("meal-category-selection.yes", nil)
	reply := s.say("recipe-steps.next", nil)
	assert.Equal(t, speech(stepsIntroMsg), reply.Response.Text())
	reply = s.say("recipe-steps.next", nil)
	assert.Contains(t, reply.Response.Text(), r.Instructions[0].Description)

	s.rec.Fail = true
	reply = s.say("recipe-steps.next", nil)
	assert.Equal(t, "event", reply.Kind)
	assert.Equal(t, EventFallback, reply.Event)
	assert.Equal(t, []string{opSteps}, obs.recovered)

	// the recipe survives a rejected answer
	id, ok := dialog.ChosenRecipe(s.store)
	require.True(t, ok)
	assert.Equal(t, r.ID, id)
	assert.Equal(t, []string{dialog.MarkerSteps}, s.markers())

	s.rec.Fail = false
	reply = s.say(ActionFallback, nil)
	assert.Equal(t, speech(helpMsg), reply.Response.Text())

	reply = s.say("recipe-steps.repeat", nil)
	assert.Contains(t, reply.Response.Text(), r.Instructions[1].Description)
}
