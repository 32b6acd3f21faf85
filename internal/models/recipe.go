package models

import (
	"fmt"
	"regexp"
)

// Recipe represents a recipe walked through by voice in three ordered sections:
// guidelines, ingredients and steps. A recipe is immutable once its repository
// has been built.
type Recipe struct {
	ID           int
	Category     Category
	Name         string
	Description  string
	Author       string
	Image        string
	PrepTime     int // minutes
	CookTime     int // minutes
	Yield        int
	Guidelines   []string
	Ingredients  []string
	Instructions []Instruction
}

// Instruction represents a single numbered cooking step
type Instruction struct {
	Step        int
	Description string
	Image       string
}

// NewRecipe creates an empty recipe with its metadata set
func NewRecipe(category Category, name, description, author string, prepTime, cookTime, yield int, image string) *Recipe {
	return &Recipe{
		Category:    category,
		Name:        name,
		Description: description,
		Author:      author,
		PrepTime:    prepTime,
		CookTime:    cookTime,
		Yield:       yield,
		Image:       image,
	}
}

// TotalTime returns the prep and cook time combined, in minutes
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// AddGuideline appends a guideline
func (r *Recipe) AddGuideline(guideline string) {
	r.Guidelines = append(r.Guidelines, guideline)
}

// AddIngredient formats an ingredient and appends it
func (r *Recipe) AddIngredient(name, quantity, quality string, supplied bool) {
	r.Ingredients = append(r.Ingredients, FormatIngredient(name, quantity, quality, supplied))
}

// AddInstruction appends a step, numbering it after the existing ones
func (r *Recipe) AddInstruction(description, image string) {
	r.Instructions = append(r.Instructions, Instruction{
		Step:        len(r.Instructions) + 1,
		Description: description,
		Image:       image,
	})
}

var numericQuantity = regexp.MustCompile(`^\d+$`)

// FormatIngredient renders an ingredient the way it is read aloud. Ingredients
// the box does not supply are marked as coming from the pantry.
func FormatIngredient(name, quantity, quality string, supplied bool) string {
	if !supplied {
		name = name + " (from your pantry)"
	}

	switch {
	case quantity == "" && quality == "":
		return name
	case numericQuantity.MatchString(quantity):
		return fmt.Sprintf("%s %s %s", quantity, quality, name)
	default:
		return fmt.Sprintf("%s of %s %s", quantity, quality, name)
	}
}
