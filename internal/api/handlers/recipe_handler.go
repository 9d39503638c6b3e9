package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recipebook/recipebook-be/internal/auth"
	"github.com/recipebook/recipebook-be/internal/models"
	"github.com/recipebook/recipebook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// RecipeHandler handles HTTP requests for the recipe resource.
type RecipeHandler struct {
	service services.RecipeServiceProvider
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service services.RecipeServiceProvider) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// RecipePayload defines the structure for create requests. A client-supplied
// slug is accepted and ignored; the slug is derived from the title.
type RecipePayload struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Ingredients json.RawMessage `json:"ingredients"`
	Steps       string          `json:"steps"`
	Author      *string         `json:"author"`
}

// RecipePatchPayload defines the structure for partial updates. Author is
// kept raw so that an explicit null (clear the author) can be told apart
// from an absent field.
type RecipePatchPayload struct {
	Title       *string         `json:"title"`
	Ingredients json.RawMessage `json:"ingredients"`
	Steps       *string         `json:"steps"`
	Author      json.RawMessage `json:"author"`
}

// GetAll handles the request to list all recipes.
func (h *RecipeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.GetAllRecipes()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve recipes")
		respondError(w, err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	respondJSON(w, http.StatusOK, recipes)
}

// Get handles the request to get a single recipe by its slug.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	recipe, err := h.service.GetRecipeBySlug(slug)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// Create handles the request to create a new recipe. When the caller is
// authenticated and no author is supplied, the caller becomes the author.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload RecipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	author := payload.Author
	if author == nil {
		if user, ok := auth.UserFrom(r.Context()); ok {
			author = &user.ID
		}
	}

	recipe, err := h.service.CreateRecipe(payload.Title, payload.Ingredients, payload.Steps, author)
	if err != nil {
		log.Warn().Err(err).Str("title", payload.Title).Msg("Failed to create recipe")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, recipe)
}

// Update handles a partial update of the recipe at slug.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var payload RecipePatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := services.RecipeUpdate{
		Title:       payload.Title,
		Ingredients: payload.Ingredients,
		Steps:       payload.Steps,
	}
	if len(payload.Author) > 0 {
		upd.AuthorSet = true
		if !bytes.Equal(payload.Author, []byte("null")) {
			var authorID string
			if err := json.Unmarshal(payload.Author, &authorID); err != nil {
				respondDetail(w, http.StatusBadRequest, "Invalid author")
				return
			}
			upd.AuthorID = &authorID
		}
	}

	recipe, err := h.service.UpdateRecipe(slug, upd)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to update recipe")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// Delete handles the permanent removal of the recipe at slug.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.service.DeleteRecipe(slug); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
