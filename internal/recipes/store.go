package recipes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinzhu/gorm"

	"voicechef/internal/models"
)

// Store persists recipe books with gorm
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewStore creates a recipe store over an open database. The schema must
// already be migrated (see database.Migrate).
func NewStore(db *gorm.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Save replaces the stored recipe book with recipes, keeping their order
func (s *Store) Save(ctx context.Context, recipes []*models.Recipe) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("starting transaction: %w", tx.Error)
	}

	if err := tx.Unscoped().Delete(&models.RecipeRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing recipes: %w", err)
	}

	for i, r := range recipes {
		rec, err := models.NewRecipeRecord(i, r)
		if err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("saving recipe %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("committing recipes: %w", err)
	}
	s.log.Debug("saved recipe book", "count", len(recipes))
	return nil
}

// Load returns the stored recipes in book order
func (s *Store) Load(ctx context.Context) ([]*models.Recipe, error) {
	var records []models.RecipeRecord
	if err := s.db.Order("position asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}

	out := make([]*models.Recipe, 0, len(records))
	for i := range records {
		r, err := records[i].Recipe()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Count returns the number of stored recipes
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.Model(&models.RecipeRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return n, nil
}

// LoadRepository builds a repository from the store, seeding the built-in
// recipe book first when the store is empty
func LoadRepository(ctx context.Context, s *Store) (*Repository, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		s.log.Info("recipe store is empty, seeding built-in recipes")
		if err := s.Save(ctx, Builtin()); err != nil {
			return nil, fmt.Errorf("seeding recipes: %w", err)
		}
	}

	recipes, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(recipes), nil
}
