// Package queue defines message payloads exchanged over the message broker.
package queue

// RecipeCreatedEvent is published after a recipe and its children have been
// committed.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type RecipeCreatedEvent struct {
	RecipeID  uint64 `json:"recipe_id"`
	UserID    uint64 `json:"user_id"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	CreatedAt string `json:"created_at"`
}
