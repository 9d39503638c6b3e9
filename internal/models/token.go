package models

import "time"

// Token is an opaque bearer credential tied to exactly one user. A user has
// at most one live token at a time; deleting the row ends the session.
type Token struct {
	Key       string    `json:"key"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
