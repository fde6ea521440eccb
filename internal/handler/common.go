package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/DBetancourtA/recetas-api/internal/middleware"
	"github.com/DBetancourtA/recetas-api/internal/utils"
)

var errNoPrincipal = errors.New("no authenticated principal in context")

// getPrincipal extracts the authenticated principal stored by the JWT
// middleware.  Handlers registered behind JWTAuth can treat an error here
// as a programming mistake in route wiring, but still answer 401 rather
// than panic.
func getPrincipal(c echo.Context) (utils.Principal, error) {
	v := c.Get(middleware.PrincipalKey)
	p, ok := v.(utils.Principal)
	if !ok || p.ID == 0 {
		return utils.Principal{}, errNoPrincipal
	}
	return p, nil
}
