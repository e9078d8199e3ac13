package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Handler struct {
	service  *Service
	users    UserReader
	filename string
	now      func() time.Time
}

func NewHandler(service *Service, users UserReader, filename string) *Handler {
	if filename == "" {
		filename = "shopping_list.txt"
	}
	return &Handler{service: service, users: users, filename: filename, now: time.Now}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes/download_shopping_cart", h.Download)
}

// Download отдаёт список покупок текстовым файлом.
// @Summary Скачать список покупок
// @Tags Recipes
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string "Файл со списком покупок"
// @Failure 400 {object} map[string]interface{} "Корзина пуста"
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt64("user_id")

	items, err := h.service.Build(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			response.Error(c, http.StatusBadRequest, "EMPTY_CART", ErrEmptyCart.Error())
			return
		}
		response.FromError(c, err)
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	body := RenderText(user.FullName(), h.now(), items)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}
