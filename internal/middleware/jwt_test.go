package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DBetancourtA/recetas-api/internal/utils"
)

const testSecret = "test-secret"

// invoke runs a request with the given Authorization header through
// JWTAuth wrapping a handler that reports the injected principal.
func invoke(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *utils.Principal) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *utils.Principal
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		if p, ok := c.Get(PrincipalKey).(utils.Principal); ok {
			seen = &p
		}
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, seen
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, utils.Principal{ID: 7, Email: "ana@example.com", Name: "Ana"}, 7)
	require.NoError(t, err)

	rec, seen := invoke(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen, "principal must be injected into context")
	assert.Equal(t, uint64(7), seen.ID)
	assert.Equal(t, "ana@example.com", seen.Email)
	assert.Equal(t, "Ana", seen.Name)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, seen := invoke(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen, "handler must not run")
}

func TestJWTAuth_NotBearer(t *testing.T) {
	rec, seen := invoke(t, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestJWTAuth_BadSignature(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", utils.Principal{ID: 7, Email: "a@x.com", Name: "A"}, 7)
	require.NoError(t, err)

	rec, seen := invoke(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, utils.Principal{ID: 7, Email: "a@x.com", Name: "A"}, -1)
	require.NoError(t, err)

	rec, seen := invoke(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestJWTAuth_MalformedToken(t *testing.T) {
	rec, seen := invoke(t, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}
