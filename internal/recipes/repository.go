// Package recipes provides the recipe repository the conversation reads from.
package recipes

import (
	"context"
	"errors"

	"voicechef/internal/models"
)

// ErrRecipeNotFound is returned when a category or identifier matches no recipe.
var ErrRecipeNotFound = errors.New("recipe not found")

// Repository holds an ordered, read-only recipe book. Identifiers are the
// recipes' positions and are assigned once, when the repository is built, so
// it is safe to share across conversations.
type Repository struct {
	recipes []*models.Recipe
}

// New builds a repository over recipes, assigning each its identifier
func New(recipes []*models.Recipe) *Repository {
	book := make([]*models.Recipe, len(recipes))
	for i, r := range recipes {
		r.ID = i
		book[i] = r
	}
	return &Repository{recipes: book}
}

// Default builds a repository over the built-in recipe book
func Default() *Repository {
	return New(Builtin())
}

// FindByCategory returns the first recipe whose category is exactly category
func (r *Repository) FindByCategory(ctx context.Context, category string) (*models.Recipe, error) {
	for _, recipe := range r.recipes {
		if recipe.Category.String() == category {
			return recipe, nil
		}
	}
	return nil, ErrRecipeNotFound
}

// FindByID returns the recipe with the given identifier
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Recipe, error) {
	if id < 0 || id >= len(r.recipes) {
		return nil, ErrRecipeNotFound
	}
	return r.recipes[id], nil
}

// Categories lists the categories on offer, in recipe book order
func (r *Repository) Categories() []models.Category {
	seen := make(map[models.Category]bool, len(r.recipes))
	var out []models.Category
	for _, recipe := range r.recipes {
		if !seen[recipe.Category] {
			seen[recipe.Category] = true
			out = append(out, recipe.Category)
		}
	}
	return out
}

// Len returns the number of recipes in the book
func (r *Repository) Len() int {
	return len(r.recipes)
}

// All returns the recipes in book order
func (r *Repository) All() []*models.Recipe {
	out := make([]*models.Recipe, len(r.recipes))
	copy(out, r.recipes)
	return out
}
