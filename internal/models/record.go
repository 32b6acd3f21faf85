package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// RecipeRecord is the persisted form of a Recipe. Position keeps the recipe
// book's order so identifiers stay stable across loads.
type RecipeRecord struct {
	gorm.Model
	Position         int `gorm:"index"`
	Category         string
	Name             string
	Description      string
	Author           string
	Image            string
	PrepTime         int
	CookTime         int
	Yield            int
	Guidelines       StringSlice `gorm:"type:text"`
	Ingredients      StringSlice `gorm:"type:text"`
	InstructionsJSON string      `gorm:"type:text"`
}

// TableName sets the table name for RecipeRecord
func (RecipeRecord) TableName() string {
	return "recipes"
}

// NewRecipeRecord converts a recipe into its persisted form
func NewRecipeRecord(position int, r *Recipe) (*RecipeRecord, error) {
	instructions, err := json.Marshal(r.Instructions)
	if err != nil {
		return nil, fmt.Errorf("encoding instructions of %q: %w", r.Name, err)
	}
	return &RecipeRecord{
		Position:         position,
		Category:         r.Category.String(),
		Name:             r.Name,
		Description:      r.Description,
		Author:           r.Author,
		Image:            r.Image,
		PrepTime:         r.PrepTime,
		CookTime:         r.CookTime,
		Yield:            r.Yield,
		Guidelines:       StringSlice(r.Guidelines),
		Ingredients:      StringSlice(r.Ingredients),
		InstructionsJSON: string(instructions),
	}, nil
}

// Recipe converts the record back into a Recipe. The ID is left to the
// repository that owns the recipe.
func (rec *RecipeRecord) Recipe() (*Recipe, error) {
	category, ok := ParseCategory(rec.Category)
	if !ok {
		return nil, fmt.Errorf("recipe %q has unknown category %q", rec.Name, rec.Category)
	}

	var instructions []Instruction
	if rec.InstructionsJSON != "" {
		if err := json.Unmarshal([]byte(rec.InstructionsJSON), &instructions); err != nil {
			return nil, fmt.Errorf("decoding instructions of %q: %w", rec.Name, err)
		}
	}

	r := NewRecipe(category, rec.Name, rec.Description, rec.Author, rec.PrepTime, rec.CookTime, rec.Yield, rec.Image)
	r.Guidelines = []string(rec.Guidelines)
	r.Ingredients = []string(rec.Ingredients)
	r.Instructions = instructions
	return r, nil
}
