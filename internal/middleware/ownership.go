package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type RecipeAuthorLookup interface {
	AuthorID(ctx context.Context, recipeID int64) (int64, error)
}

// RecipeOwnership lets only the recipe author through. Expects the recipe
// ID in URL param "id" and an authenticated user_id.
func RecipeOwnership(recipes RecipeAuthorLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || recipeID <= 0 {
			response.Abort(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe ID")
			return
		}

		authorID, err := recipes.AuthorID(c.Request.Context(), recipeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				response.Abort(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
				return
			}
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}

		if authorID != userID {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Only the author can change this recipe")
			return
		}

		c.Next()
	}
}
