package models

import (
	"encoding/json"
	"time"
)

// Recipe is a dish description addressed by its URL slug. The slug is always
// derived from the title at save time, so renaming a recipe moves its URL.
type Recipe struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	// Ingredients is stored as-is; no shape is enforced so clients may send
	// a list of {name, quantity} objects or any other JSON document.
	Ingredients json.RawMessage `json:"ingredients"`
	Steps       string          `json:"steps"`
	AuthorID    *string         `json:"author"` // Nullable, cleared when the author account is deleted
	CreatedAt   time.Time       `json:"createdAt"`
}
