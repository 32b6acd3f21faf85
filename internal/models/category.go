package models

import (
	"strings"

	"github.com/orsinium-labs/enum"
)

// Category is one of the fixed meal categories a recipe can be filed under
type Category enum.Member[string]

var (
	CategorySeafood = Category{"seafood"}
	CategoryPasta   = Category{"pasta"}
	CategorySalad   = Category{"salad"}
	CategoryPork    = Category{"pork"}
	CategoryLamb    = Category{"lamb"}

	// Categories enumerates every category the action understands
	Categories = enum.New(CategorySeafood, CategoryPasta, CategorySalad, CategoryPork, CategoryLamb)
)

// String returns the platform-facing category name
func (c Category) String() string {
	return c.Value
}

// ParseCategory converts a platform argument into a Category, ignoring case
func ParseCategory(name string) (Category, bool) {
	c := Categories.Parse(strings.ToLower(strings.TrimSpace(name)))
	if c == nil {
		return Category{}, false
	}
	return *c, true
}
