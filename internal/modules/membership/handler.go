package membership

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes mounts the toggles; the group must require auth.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/recipes/:id/favorite", h.add(domain.KindFavorite))
	rg.DELETE("/recipes/:id/favorite", h.remove(domain.KindFavorite))
	rg.POST("/recipes/:id/shopping_cart", h.add(domain.KindShoppingCart))
	rg.DELETE("/recipes/:id/shopping_cart", h.remove(domain.KindShoppingCart))
}

// add добавляет рецепт в избранное или в список покупок.
// @Summary Добавить рецепт в избранное / список покупок
// @Tags Membership
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 201 {object} domain.RecipeShort
// @Failure 400 {object} map[string]interface{} "Рецепт уже добавлен"
// @Failure 404 {object} map[string]interface{} "Рецепт не найден"
// @Router /recipes/{id}/favorite [post]
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) add(kind domain.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := parseRecipeID(c)
		if !ok {
			return
		}

		short, err := h.service.Add(c.Request.Context(), kind, c.GetInt64("user_id"), recipeID)
		if err != nil {
			if errors.Is(err, ErrAlreadyMember) {
				response.Error(c, http.StatusBadRequest, "ALREADY_MEMBER", "Recipe is already in "+kind.String())
				return
			}
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, short)
	}
}

func (h *Handler) remove(kind domain.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, ok := parseRecipeID(c)
		if !ok {
			return
		}

		err := h.service.Remove(c.Request.Context(), kind, c.GetInt64("user_id"), recipeID)
		switch {
		case err == nil:
			response.NoContent(c)
		case errors.Is(err, ErrNotMember):
			response.Error(c, http.StatusBadRequest, "NOT_MEMBER", "Recipe is not in "+kind.String())
		default:
			response.FromError(c, err)
		}
	}
}

func parseRecipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe ID")
		return 0, false
	}
	return id, true
}
