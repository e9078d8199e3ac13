package subscription

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/subscriptions", h.List)
	rg.POST("/users/:id/subscribe", h.Subscribe)
	rg.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// Subscribe подписывает текущего пользователя на автора.
// @Summary Подписаться на автора
// @Tags Subscriptions
// @Security BearerAuth
// @Param id path int true "ID автора"
// @Param recipes_limit query int false "Сколько рецептов показать"
// @Success 201 {object} AuthorResponse
// @Failure 400 {object} map[string]interface{} "Подписка на себя или повторная подписка"
// @Failure 404 {object} map[string]interface{} "Автор не найден"
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, ok := parseUserID(c)
	if !ok {
		return
	}

	author, err := h.service.Subscribe(c.Request.Context(), c.GetInt64("user_id"), authorID, recipesLimit(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, ok := parseUserID(c)
	if !ok {
		return
	}

	err := h.service.Unsubscribe(c.Request.Context(), c.GetInt64("user_id"), authorID)
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrNotSubscribed):
		response.Error(c, http.StatusBadRequest, "NOT_SUBSCRIBED", err.Error())
	default:
		response.FromError(c, err)
	}
}

// List возвращает авторов, на которых подписан пользователь.
// @Summary Мои подписки
// @Tags Subscriptions
// @Security BearerAuth
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Param recipes_limit query int false "Сколько рецептов показать"
// @Router /users/subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	p := response.ParsePagination(c, h.pageSize)

	authors, total, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), p.Limit, p.Offset(), recipesLimit(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(c, p, total, authors))
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

// recipesLimit reads ?recipes_limit=; invalid or missing means no limit.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
