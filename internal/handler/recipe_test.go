package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DBetancourtA/recetas-api/internal/middleware"
	"github.com/DBetancourtA/recetas-api/internal/queue"
	"github.com/DBetancourtA/recetas-api/internal/repository"
	"github.com/DBetancourtA/recetas-api/internal/utils"
)

func newRecipeHandlerWithMock(t *testing.T) (*RecipeHandler, sqlmock.Sqlmock, *sql.DB, chan queue.RecipeCreatedEvent) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	h := NewRecipeHandler(repository.NewRecipeRepo(db))
	published := make(chan queue.RecipeCreatedEvent, 1)
	h.PublishEvent = func(ctx context.Context, ev queue.RecipeCreatedEvent) error {
		published <- ev
		return nil
	}
	return h, mock, db, published
}

func asPrincipal(c echo.Context) {
	c.Set(middleware.PrincipalKey, utils.Principal{ID: 7, Email: "ana@example.com", Name: "Ana"})
}

const createBody = `{
	"title": "Tarta",
	"category": "Postres",
	"time": 30,
	"difficulty": "Fácil",
	"servings": 4,
	"image": "http://img/tarta.jpg",
	"curiosities": "receta de la abuela",
	"ingredients": ["harina", "azúcar"],
	"steps": ["mezclar", "hornear"]
}`

func TestCreateRecipe_Success(t *testing.T) {
	h, mock, db, published := newRecipeHandlerWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT INTO recipes`).
		WithArgs("Tarta", "Postres", 30, "Fácil", 4, "http://img/tarta.jpg", "Ana", 7, "receta de la abuela").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`^INSERT INTO ingredients`).
		WithArgs(1, "harina", 1, "azúcar").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`^INSERT INTO steps`).
		WithArgs(1, 1, "mezclar", 1, 2, "hornear").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	c, rec := doJSON(echo.New(), http.MethodPost, "/api/recipes", createBody)
	asPrincipal(c)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Message string `json:"message"`
		ID      uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.ID)
	assert.NotEmpty(t, resp.Message)
	require.NoError(t, mock.ExpectationsWereMet())

	// The domain event is published after commit with the authorship
	// taken from the token, not the body.
	select {
	case ev := <-published:
		assert.Equal(t, uint64(1), ev.RecipeID)
		assert.Equal(t, uint64(7), ev.UserID)
		assert.Equal(t, "Ana", ev.Author)
		assert.Equal(t, "Tarta", ev.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("recipe.created event was not published")
	}
}

func TestCreateRecipe_StepInsertFailureRollsBack(t *testing.T) {
	h, mock, db, published := newRecipeHandlerWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT INTO recipes`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`^INSERT INTO ingredients`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`^INSERT INTO steps`).
		WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	c, rec := doJSON(echo.New(), http.MethodPost, "/api/recipes", createBody)
	asPrincipal(c)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// ExpectRollback above is the real assertion: the recipe and the
	// already-inserted children must be undone together.
	require.NoError(t, mock.ExpectationsWereMet())

	select {
	case <-published:
		t.Fatal("no event may be published for a rolled-back create")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCreateRecipe_RecipeInsertFailureRollsBack(t *testing.T) {
	h, mock, db, _ := newRecipeHandlerWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT INTO recipes`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	c, rec := doJSON(echo.New(), http.MethodPost, "/api/recipes", createBody)
	asPrincipal(c)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRecipe_NoPrincipal(t *testing.T) {
	h, _, db, _ := newRecipeHandlerWithMock(t)
	defer db.Close()

	c, rec := doJSON(echo.New(), http.MethodPost, "/api/recipes", createBody)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListRecipes_Success(t *testing.T) {
	h, mock, db, _ := newRecipeHandlerWithMock(t)
	defer db.Close()

	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`^SELECT id, title, category, .+ FROM recipes ORDER BY created_at DESC$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "time", "difficulty", "servings", "image", "author", "user_id", "curiosities", "created_at"}).
			AddRow(1, "Tarta", "Postres", 30, "Fácil", 4, "http://img/1", "Ana", 7, "", created))
	mock.ExpectQuery(`^SELECT recipe_id, ingredient FROM ingredients`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id", "ingredient"}).
			AddRow(1, "harina").AddRow(1, "azúcar"))
	mock.ExpectQuery(`^SELECT recipe_id, description FROM steps`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id", "description"}).
			AddRow(1, "mezclar").AddRow(1, "hornear"))

	c, rec := doJSON(echo.New(), http.MethodGet, "/api/recipes", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []struct {
		ID          uint64   `json:"id"`
		Title       string   `json:"title"`
		Author      string   `json:"author"`
		Ingredients []string `json:"ingredients"`
		Steps       []string `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, []string{"harina", "azúcar"}, got[0].Ingredients)
	assert.Equal(t, []string{"mezclar", "hornear"}, got[0].Steps)
}

func TestListRecipes_QueryFailure(t *testing.T) {
	h, mock, db, _ := newRecipeHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT id, title, category, .+ FROM recipes ORDER BY created_at DESC$`).
		WillReturnError(errors.New("connection refused"))

	c, rec := doJSON(echo.New(), http.MethodGet, "/api/recipes", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
