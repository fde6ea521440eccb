package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DBetancourtA/recetas-api/internal/config"
	"github.com/DBetancourtA/recetas-api/internal/handler"
	"github.com/DBetancourtA/recetas-api/internal/repository"
	"github.com/DBetancourtA/recetas-api/internal/utils"
)

const testSecret = "test-secret"

// newServer wires the full route table against a mocked database, the
// same way main does at startup, so requests exercise routing and
// middleware end to end.
func newServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{Env: "test", JWTSecret: testSecret, TokenTTLDays: 7, BcryptCost: 4}
	a := handler.NewAuthHandler(cfg, repository.NewUserRepo(db))
	r := handler.NewRecipeHandler(repository.NewRecipeRepo(db))
	r.PublishEvent = nil // no broker in tests

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, a, cfg.JWTSecret, nil)
	RegisterRecipes(e, r, cfg.JWTSecret, nil)
	return e, mock
}

func TestHealthRoute(t *testing.T) {
	e, _ := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRecipeRequiresToken(t *testing.T) {
	e, _ := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{"title":"Tarta"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Rejected by the JWT middleware; the handler (and the database)
	// are never reached.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRecipeWithTokenReachesHandler(t *testing.T) {
	e, mock := newServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT INTO recipes`).
		WithArgs("Tarta", "Postres", 30, "Fácil", 4, "http://img/1", "Ana", 7, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`^INSERT INTO ingredients`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^INSERT INTO steps`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tok, err := utils.NewAccessToken(testSecret, utils.Principal{ID: 7, Email: "ana@example.com", Name: "Ana"}, 7)
	require.NoError(t, err)

	body := `{"title":"Tarta","category":"Postres","time":30,"difficulty":"Fácil","servings":4,"image":"http://img/1","ingredients":["harina"],"steps":["mezclar"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeRouteRequiresToken(t *testing.T) {
	e, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := utils.NewAccessToken(testSecret, utils.Principal{ID: 7, Email: "ana@example.com", Name: "Ana"}, 7)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@example.com")
}
