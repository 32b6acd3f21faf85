package dialog

// Section keys inside the recipe_progress context
const (
	KeyGuidelines  = "guidelines"
	KeyIngredients = "ingredients"
	KeySteps       = "steps"
	KeyRecipeUID   = "uid"
)

// Progress is the per-section position kept in the recipe_progress context.
// A nil field means the section has not been entered; -1 means its intro
// was the last thing said.
type Progress struct {
	Guidelines  *int
	Ingredients *int
	Steps       *int
}

// Field returns a pointer to the position slot for key
func (p *Progress) Field(key string) **int {
	switch key {
	case KeyGuidelines:
		return &p.Guidelines
	case KeyIngredients:
		return &p.Ingredients
	case KeySteps:
		return &p.Steps
	default:
		return nil
	}
}

// Position returns the stored position for key, nil when unset
func (p Progress) Position(key string) *int {
	if f := p.Field(key); f != nil {
		return *f
	}
	return nil
}

// SetPosition stores pos for key
func (p *Progress) SetPosition(key string, pos int) {
	if f := p.Field(key); f != nil {
		*f = &pos
	}
}

// Clear marks the section for key as not entered
func (p *Progress) Clear(key string) {
	if f := p.Field(key); f != nil {
		*f = nil
	}
}

// Params encodes the defined fields as context parameters
func (p Progress) Params() map[string]any {
	params := make(map[string]any, 3)
	for _, key := range []string{KeyGuidelines, KeyIngredients, KeySteps} {
		if pos := p.Position(key); pos != nil {
			params[key] = *pos
		}
	}
	return params
}

// LoadProgress reads recipe_progress; a missing context is an empty Progress
func LoadProgress(store ContextStore) Progress {
	var p Progress
	c, ok := store.Get(ContextRecipeProgress)
	if !ok {
		return p
	}
	for _, key := range []string{KeyGuidelines, KeyIngredients, KeySteps} {
		if v, ok := IntParam(c.Parameters, key); ok {
			p.SetPosition(key, v)
		}
	}
	return p
}

// SaveProgress writes recipe_progress with the given lifespan
func SaveProgress(store ContextStore, p Progress, lifespan int) {
	store.Set(ContextRecipeProgress, lifespan, p.Params())
}

// ChosenRecipe reads the chosen recipe identifier
func ChosenRecipe(store ContextStore) (int, bool) {
	c, ok := store.Get(ContextChosenRecipe)
	if !ok {
		return 0, false
	}
	return IntParam(c.Parameters, KeyRecipeUID)
}

// ChooseRecipe stores the chosen recipe identifier
func ChooseRecipe(store ContextStore, id int, lifespan int) {
	store.Set(ContextChosenRecipe, lifespan, map[string]any{KeyRecipeUID: id})
}
