package model

import "time"

// Recipe mirrors the `recipes` table. Ingredients and Steps are
// loaded from their own tables and embedded here so that a single
// object carries everything a client needs to render a recipe.
//
// Fields:
//  ID          – primary key identifier of the recipe.
//  Title       – recipe title.
//  Category    – free-form category label (e.g. "Postres").
//  Time        – preparation time in minutes.
//  Difficulty  – difficulty label as submitted by the client.
//  Servings    – number of servings the recipe yields.
//  Image       – URL of an externally hosted image.
//  Author      – display name of the creating user at creation time.
//  UserID      – owning user, references users.id.
//  Curiosities – optional free-text trivia about the dish.
//  CreatedAt   – timestamp of creation; listings sort on it.
//  Ingredients – ingredient lines, order not significant.
//  Steps       – step descriptions in ascending step_number order.
type Recipe struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Time        uint32    `json:"time"`
	Difficulty  string    `json:"difficulty"`
	Servings    uint32    `json:"servings"`
	Image       string    `json:"image"`
	Author      string    `json:"author"`
	UserID      uint64    `json:"user_id"`
	Curiosities string    `json:"curiosities"`
	CreatedAt   time.Time `json:"created_at"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
}
