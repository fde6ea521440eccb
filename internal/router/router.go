package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/DBetancourtA/recetas-api/internal/handler"    // import the handlers that implement business logic
	"github.com/DBetancourtA/recetas-api/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not belong to any feature group.
// Currently it exposes only a health check, used by load balancers and
// monitoring systems to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Register and login
// are public and sit behind the rate limiter when one is configured;
// /api/auth/me requires a valid access token.  The jwtSecret must match
// the one used when issuing tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	// Protected group under the same prefix; only /me lives here.
	auth := e.Group("/api/auth")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterRecipes registers the recipe catalog routes.  The listing is
// public and may be wrapped by the response cache middleware; creation
// requires a bearer token, which the JWTAuth middleware verifies before
// the handler runs.
func RegisterRecipes(e *echo.Echo, r *handler.RecipeHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/api/recipes", r.List, cache)
	} else {
		e.GET("/api/recipes", r.List)
	}

	g := e.Group("/api/recipes")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", r.Create)
}
