package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/DBetancourtA/recetas-api/internal/utils" // token parsing and principal type
)

// PrincipalKey is the context key under which JWTAuth stores the
// authenticated utils.Principal.  Handlers retrieve it via c.Get.
const PrincipalKey = "principal"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the embedded principal (id, email, name) into the request
// context.  The provided secret must match the one used when issuing
// tokens.  A request with a missing, malformed, expired or badly signed
// token is rejected with 401 before the wrapped handler runs, so handlers
// behind this middleware can assume an authenticated caller.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            p, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Store the principal in the context for handlers and any
            // downstream middleware keyed on the user.
            c.Set(PrincipalKey, p)
            return next(c)
        }
    }
}
