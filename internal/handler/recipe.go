package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DBetancourtA/recetas-api/internal/model"
	"github.com/DBetancourtA/recetas-api/internal/queue"
	"github.com/DBetancourtA/recetas-api/internal/repository"
	queue_publisher "github.com/DBetancourtA/recetas-api/internal/service"
)

// RecipeHandler serves the public recipe catalog and the authenticated
// create endpoint.  Create runs its three inserts inside one transaction
// so a reader can never observe a recipe without its ingredients and
// steps.  PublishEvent is called after a successful commit; it defaults
// to the RabbitMQ publisher and may be replaced in tests.
type RecipeHandler struct {
	Recipes      *repository.RecipeRepo
	PublishEvent func(ctx context.Context, ev queue.RecipeCreatedEvent) error
}

// NewRecipeHandler constructs a RecipeHandler with the provided repository.
func NewRecipeHandler(recipes *repository.RecipeRepo) *RecipeHandler {
	if recipes == nil {
		panic("nil repository passed to NewRecipeHandler")
	}
	return &RecipeHandler{
		Recipes:      recipes,
		PublishEvent: queue_publisher.PublishRecipeCreated,
	}
}

type createRecipeReq struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Time        uint32   `json:"time"`
	Difficulty  string   `json:"difficulty"`
	Servings    uint32   `json:"servings"`
	Image       string   `json:"image"`
	Curiosities string   `json:"curiosities"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// List handles GET /api/recipes.  It returns every recipe, newest first,
// with ingredients and steps embedded.  There is no pagination or
// server-side filtering; the client filters over the full set.
func (h *RecipeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.Recipes.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch recipes"})
	}
	return c.JSON(http.StatusOK, recipes)
}

// Create handles POST /api/recipes (protected).  The author and owning
// user are taken from the JWT principal, never from the body, so a caller
// cannot create recipes under someone else's name.  The recipe row, its
// ingredient rows and its numbered step rows are inserted in a single
// transaction; if any insert fails everything is rolled back and the
// connection is released either way.
func (h *RecipeHandler) Create(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRecipeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	tx, err := h.Recipes.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec := model.Recipe{
		Title:       req.Title,
		Category:    req.Category,
		Time:        req.Time,
		Difficulty:  req.Difficulty,
		Servings:    req.Servings,
		Image:       req.Image,
		Curiosities: req.Curiosities,
		Author:      p.Name,
		UserID:      p.ID,
	}
	if err := h.Recipes.CreateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}
	if err := h.Recipes.AddIngredientsBulkTx(ctx, tx, rec.ID, req.Ingredients); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}
	if err := h.Recipes.AddStepsBulkTx(ctx, tx, rec.ID, req.Steps); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}
	committed = true

	// Fire-and-forget: a publish failure must not fail the request.
	// Each create spawns one short-lived goroutine, bounded by the 10s
	// timeout below and not tied to the server's lifecycle; an event
	// can be lost if the process exits before the publish completes.
	if h.PublishEvent != nil {
		ev := queue.RecipeCreatedEvent{
			RecipeID:  rec.ID,
			UserID:    p.ID,
			Author:    p.Name,
			Title:     rec.Title,
			Category:  rec.Category,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.PublishEvent(pubCtx, ev); err != nil {
				log.Printf("publish recipe.created failed: %v", err)
			}
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "recipe created successfully", "id": rec.ID})
}
