package recipe

import (
	"net/http"
	"strconv"
	"strings"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// RegisterPublicRoutes mounts read endpoints; the group may carry optional auth.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes", h.List)
	rg.GET("/recipes/:id", h.Get)
}

// RegisterProtectedRoutes mounts write endpoints. owner guards author-only
// routes, writeLimit throttles recipe writes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup, owner, writeLimit gin.HandlerFunc) {
	rg.POST("/recipes", writeLimit, h.Create)
	rg.PATCH("/recipes/:id", owner, writeLimit, h.Update)
	rg.DELETE("/recipes/:id", owner, h.Delete)
}

// Create создаёт рецепт с тегами и ингредиентами.
// @Summary Создать рецепт
// @Tags Recipes
// @Security BearerAuth
// @Param request body RecipeRequest true "Рецепт"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Ингредиент не найден"
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipe)
}

// Update полностью заменяет теги и ингредиенты рецепта.
// @Summary Обновить рецепт
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Param request body RecipeRequest true "Рецепт"
// @Success 200 {object} RecipeResponse
// @Failure 403 {object} map[string]interface{} "Не автор"
// @Router /recipes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Update(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// List возвращает рецепты с фильтрами tags, author, is_favorited, is_in_shopping_cart.
// @Summary Список рецептов
// @Tags Recipes
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Param tags query []string false "Слаги тегов"
// @Param author query int false "ID автора"
// @Param is_favorited query int false "0/1"
// @Param is_in_shopping_cart query int false "0/1"
// @Router /recipes [get]
func (h *Handler) List(c *gin.Context) {
	p := response.ParsePagination(c, h.pageSize)

	q := ListQuery{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Limit:            p.Limit,
		Offset:           p.Offset(),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "author must be an integer")
			return
		}
		q.AuthorID = author
	}

	recipes, total, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(c, p, total, recipes))
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe ID")
		return 0, false
	}
	return id, true
}

func queryFlag(c *gin.Context, name string) bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(name)))
	return v == "1" || v == "true"
}
