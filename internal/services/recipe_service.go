package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/recipebook/recipebook-be/internal/models"
)

// maxTitleLen bounds both the title and the slug derived from it.
const maxTitleLen = 100

// RecipeUpdate carries a partial update. Nil fields are left untouched.
// AuthorSet distinguishes "clear the author" from "author not supplied".
type RecipeUpdate struct {
	Title       *string
	Ingredients json.RawMessage
	Steps       *string
	AuthorID    *string
	AuthorSet   bool
}

// RecipeServiceProvider defines the interface for recipe services.
type RecipeServiceProvider interface {
	GetAllRecipes() ([]models.Recipe, error)
	GetRecipeBySlug(slug string) (models.Recipe, error)
	CreateRecipe(title string, ingredients json.RawMessage, steps string, authorID *string) (models.Recipe, error)
	UpdateRecipe(slug string, upd RecipeUpdate) (models.Recipe, error)
	DeleteRecipe(slug string) error
}

// RecipeService provides business logic for recipe management.
type RecipeService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(db *sql.DB, events EventServiceProvider) *RecipeService {
	return &RecipeService{db: db, events: events}
}

// Slugify derives the URL slug for a title: lower-cased, with whitespace and
// punctuation runs collapsed to single hyphens.
func Slugify(title string) string {
	return slug.Make(title)
}

// scanRecipe is a helper to scan a recipe from a row or rows object.
func scanRecipe(scanner interface{ Scan(...interface{}) error }) (models.Recipe, error) {
	var r models.Recipe
	var ingredients string
	var authorID sql.NullString

	err := scanner.Scan(&r.ID, &r.Title, &r.Slug, &ingredients, &r.Steps, &authorID, &r.CreatedAt)
	if err != nil {
		return r, err
	}

	r.Ingredients = json.RawMessage(ingredients)
	if authorID.Valid {
		r.AuthorID = &authorID.String
	}
	return r, nil
}

// GetAllRecipes retrieves every recipe in insertion order.
func (s *RecipeService) GetAllRecipes() ([]models.Recipe, error) {
	rows, err := s.db.Query(
		"SELECT id, title, slug, ingredients, steps, author_id, created_at FROM recipes ORDER BY rowid",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// GetRecipeBySlug retrieves a single recipe by its slug.
func (s *RecipeService) GetRecipeBySlug(slugVal string) (models.Recipe, error) {
	row := s.db.QueryRow(
		"SELECT id, title, slug, ingredients, steps, author_id, created_at FROM recipes WHERE slug = ?",
		slugVal,
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Recipe{}, fmt.Errorf("%w: no recipe with slug %q", ErrNotFound, slugVal)
		}
		return models.Recipe{}, err
	}
	return recipe, nil
}

// CreateRecipe adds a new recipe. The slug is always derived from the title;
// any client-supplied slug is ignored.
func (s *RecipeService) CreateRecipe(title string, ingredients json.RawMessage, steps string, authorID *string) (models.Recipe, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return models.Recipe{}, err
	}
	if len(ingredients) == 0 {
		return models.Recipe{}, fmt.Errorf("%w: ingredients are required", ErrValidation)
	}
	if !json.Valid(ingredients) {
		return models.Recipe{}, fmt.Errorf("%w: ingredients must be valid JSON", ErrValidation)
	}

	recipe := models.Recipe{
		ID:          uuid.New().String(),
		Title:       title,
		Slug:        Slugify(title),
		Ingredients: ingredients,
		Steps:       steps,
		AuthorID:    authorID,
	}

	_, err := s.db.Exec(
		"INSERT INTO recipes(id, title, slug, ingredients, steps, author_id) VALUES(?, ?, ?, ?, ?, ?)",
		recipe.ID, recipe.Title, recipe.Slug, string(recipe.Ingredients), recipe.Steps, recipe.AuthorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Recipe{}, fmt.Errorf("%w: recipe with this title already exists", ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return models.Recipe{}, fmt.Errorf("%w: unknown author", ErrValidation)
		}
		return models.Recipe{}, err
	}

	s.events.Record("recipe.create", "info", "recipe "+recipe.Slug+" created", authorID)
	return s.GetRecipeBySlug(recipe.Slug)
}

// UpdateRecipe applies a partial update to the recipe at slug. A title change
// recomputes the slug, moving the recipe's URL.
func (s *RecipeService) UpdateRecipe(slugVal string, upd RecipeUpdate) (models.Recipe, error) {
	recipe, err := s.GetRecipeBySlug(slugVal)
	if err != nil {
		return models.Recipe{}, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if err := validateTitle(title); err != nil {
			return models.Recipe{}, err
		}
		recipe.Title = title
		recipe.Slug = Slugify(title)
	}
	if upd.Ingredients != nil {
		if !json.Valid(upd.Ingredients) {
			return models.Recipe{}, fmt.Errorf("%w: ingredients must be valid JSON", ErrValidation)
		}
		recipe.Ingredients = upd.Ingredients
	}
	if upd.Steps != nil {
		recipe.Steps = *upd.Steps
	}
	if upd.AuthorSet {
		recipe.AuthorID = upd.AuthorID
	}

	_, err = s.db.Exec(
		"UPDATE recipes SET title = ?, slug = ?, ingredients = ?, steps = ?, author_id = ? WHERE id = ?",
		recipe.Title, recipe.Slug, string(recipe.Ingredients), recipe.Steps, recipe.AuthorID, recipe.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Recipe{}, fmt.Errorf("%w: recipe with this title already exists", ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return models.Recipe{}, fmt.Errorf("%w: unknown author", ErrValidation)
		}
		return models.Recipe{}, err
	}

	s.events.Record("recipe.update", "info", "recipe "+recipe.Slug+" updated", recipe.AuthorID)
	return s.GetRecipeBySlug(recipe.Slug)
}

// DeleteRecipe permanently removes the recipe at slug.
func (s *RecipeService) DeleteRecipe(slugVal string) error {
	result, err := s.db.Exec("DELETE FROM recipes WHERE slug = ?", slugVal)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: no recipe with slug %q", ErrNotFound, slugVal)
	}

	s.events.Record("recipe.delete", "info", "recipe "+slugVal+" deleted", nil)
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLen)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
