package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/DBetancourtA/recetas-api/internal/model"
)

// RecipeRepo provides read and write access to recipes and their child
// tables.  Ingredient and step rows are exclusively owned by their parent
// recipe; the schema cascades deletes so the repository never touches the
// child tables except through a recipe.  All write methods operate inside
// a caller-supplied transaction so a recipe and its children become
// visible to readers atomically or not at all.
type RecipeRepo struct {
    db *sql.DB
}

// NewRecipeRepo returns a new RecipeRepo bound to the given database.
func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning several repository calls.
func (r *RecipeRepo) DB() *sql.DB { return r.db }

// ListAll returns every recipe, newest first, with ingredients and steps
// embedded.  The children are loaded with one query per child table over
// the whole recipe set and grouped in memory, rather than one pair of
// queries per recipe.  Steps are ordered by step_number ascending;
// ingredient order is not significant.  Any query error fails the whole
// call so a reader never sees a recipe with missing children.
func (r *RecipeRepo) ListAll(ctx context.Context) ([]model.Recipe, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, title, category, time, difficulty, servings, image, author, user_id, curiosities, created_at
         FROM recipes ORDER BY created_at DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    recipes := make([]model.Recipe, 0)
    ids := make([]uint64, 0)
    for rows.Next() {
        var rec model.Recipe
        var curiosities sql.NullString
        if err := rows.Scan(&rec.ID, &rec.Title, &rec.Category, &rec.Time, &rec.Difficulty,
            &rec.Servings, &rec.Image, &rec.Author, &rec.UserID, &curiosities, &rec.CreatedAt); err != nil {
            return nil, err
        }
        rec.Curiosities = curiosities.String
        rec.Ingredients = []string{}
        rec.Steps = []string{}
        recipes = append(recipes, rec)
        ids = append(ids, rec.ID)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(recipes) == 0 {
        return recipes, nil
    }

    ingredients, err := r.ingredientsFor(ctx, ids)
    if err != nil {
        return nil, err
    }
    steps, err := r.stepsFor(ctx, ids)
    if err != nil {
        return nil, err
    }
    for i := range recipes {
        if v, ok := ingredients[recipes[i].ID]; ok {
            recipes[i].Ingredients = v
        }
        if v, ok := steps[recipes[i].ID]; ok {
            recipes[i].Steps = v
        }
    }
    return recipes, nil
}

// ingredientsFor loads the ingredient lines of every recipe in ids and
// groups them by recipe.
func (r *RecipeRepo) ingredientsFor(ctx context.Context, ids []uint64) (map[uint64][]string, error) {
    query := `SELECT recipe_id, ingredient FROM ingredients WHERE recipe_id IN (` + placeholders(len(ids)) + `)`
    rows, err := r.db.QueryContext(ctx, query, idArgs(ids)...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make(map[uint64][]string, len(ids))
    for rows.Next() {
        var recipeID uint64
        var line string
        if err := rows.Scan(&recipeID, &line); err != nil {
            return nil, err
        }
        out[recipeID] = append(out[recipeID], line)
    }
    return out, rows.Err()
}

// stepsFor loads the step descriptions of every recipe in ids, ordered
// by step_number, and groups them by recipe.
func (r *RecipeRepo) stepsFor(ctx context.Context, ids []uint64) (map[uint64][]string, error) {
    query := `SELECT recipe_id, description FROM steps WHERE recipe_id IN (` + placeholders(len(ids)) + `) ORDER BY recipe_id, step_number`
    rows, err := r.db.QueryContext(ctx, query, idArgs(ids)...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make(map[uint64][]string, len(ids))
    for rows.Next() {
        var recipeID uint64
        var desc string
        if err := rows.Scan(&recipeID, &desc); err != nil {
            return nil, err
        }
        out[recipeID] = append(out[recipeID], desc)
    }
    return out, rows.Err()
}

// CreateTx inserts a new recipe row within the scope of an existing
// transaction.  It populates the generated ID on the provided record and
// returns any error from the database.  The caller must commit or
// rollback the transaction.
func (r *RecipeRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Recipe) error {
    const q = `INSERT INTO recipes (title, category, time, difficulty, servings, image, author, user_id, curiosities) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, rec.Title, rec.Category, rec.Time, rec.Difficulty,
        rec.Servings, rec.Image, rec.Author, rec.UserID, rec.Curiosities)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// AddIngredientsBulkTx inserts one ingredients row per line in a single
// statement, all referencing the given recipe.  The insertion occurs
// within the provided transaction.  Passing an empty slice has no effect
// and returns nil.
func (r *RecipeRepo) AddIngredientsBulkTx(ctx context.Context, tx *sql.Tx, recipeID uint64, lines []string) error {
    if len(lines) == 0 {
        return nil
    }
    query := `INSERT INTO ingredients (recipe_id, ingredient) VALUES `
    args := make([]interface{}, 0, len(lines)*2)
    for i, line := range lines {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, recipeID, line)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// AddStepsBulkTx inserts one steps row per description in a single
// statement.  Each row is numbered with its 1-based position in the
// input slice, which is what ListAll later sorts on.  The insertion
// occurs within the provided transaction.
func (r *RecipeRepo) AddStepsBulkTx(ctx context.Context, tx *sql.Tx, recipeID uint64, descriptions []string) error {
    if len(descriptions) == 0 {
        return nil
    }
    query := `INSERT INTO steps (recipe_id, step_number, description) VALUES `
    args := make([]interface{}, 0, len(descriptions)*3)
    for i, desc := range descriptions {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        args = append(args, recipeID, i+1, desc)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// placeholders returns n comma-separated "?" markers for an IN clause.
func placeholders(n int) string {
    return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []interface{} {
    args := make([]interface{}, len(ids))
    for i, id := range ids {
        args[i] = id
    }
    return args
}
