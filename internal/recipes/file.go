package recipes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"voicechef/internal/models"
)

// Book is the on-disk recipe book format
type Book struct {
	Recipes []BookRecipe `yaml:"recipes"`
}

// BookRecipe is one recipe in a recipe book file
type BookRecipe struct {
	Category     string            `yaml:"category"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Author       string            `yaml:"author"`
	Image        string            `yaml:"image"`
	PrepTime     int               `yaml:"prep_time"`
	CookTime     int               `yaml:"cook_time"`
	Yield        int               `yaml:"yield"`
	Guidelines   []string          `yaml:"guidelines"`
	Ingredients  []BookIngredient  `yaml:"ingredients"`
	Instructions []BookInstruction `yaml:"instructions"`
}

// BookIngredient is an unformatted ingredient tuple. Supplied defaults to true.
type BookIngredient struct {
	Name     string `yaml:"name"`
	Quantity string `yaml:"quantity"`
	Quality  string `yaml:"quality"`
	Supplied *bool  `yaml:"supplied"`
}

// BookInstruction is one step of a recipe book recipe
type BookInstruction struct {
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// LoadFile reads a YAML recipe book and builds a repository over it
func LoadFile(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe book: %w", err)
	}
	recipes, err := ParseBook(data)
	if err != nil {
		return nil, fmt.Errorf("parsing recipe book %s: %w", path, err)
	}
	return New(recipes), nil
}

// ParseBook decodes a YAML recipe book
func ParseBook(data []byte) ([]*models.Recipe, error) {
	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	if len(book.Recipes) == 0 {
		return nil, fmt.Errorf("recipe book is empty")
	}

	out := make([]*models.Recipe, 0, len(book.Recipes))
	for i, br := range book.Recipes {
		category, ok := models.ParseCategory(br.Category)
		if !ok {
			return nil, fmt.Errorf("recipe %d (%q): unknown category %q", i, br.Name, br.Category)
		}

		r := models.NewRecipe(category, br.Name, br.Description, br.Author, br.PrepTime, br.CookTime, br.Yield, br.Image)
		for _, g := range br.Guidelines {
			r.AddGuideline(g)
		}
		for _, ing := range br.Ingredients {
			supplied := ing.Supplied == nil || *ing.Supplied
			r.AddIngredient(ing.Name, ing.Quantity, ing.Quality, supplied)
		}
		for _, ins := range br.Instructions {
			r.AddInstruction(ins.Description, ins.Image)
		}
		out = append(out, r)
	}
	return out, nil
}
