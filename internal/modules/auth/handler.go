package auth

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages HTTP interactions for accounts and tokens
type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// RegisterPublicRoutes mounts routes that work without a token; the group
// is expected to carry optional auth so is_subscribed can be computed.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token/login", h.Login)
	rg.POST("/users", h.Register)
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token/logout", h.Logout)
	rg.GET("/users/me", h.GetMe)
	rg.POST("/users/set_password", h.SetPassword)
}

// Register регистрирует нового пользователя.
// @Summary		Регистрация пользователя
// @Tags		Пользователи
// @Param		request	body	RegisterRequest	true	"email, username, first_name, last_name, password"
// @Success		201	{object}	UserCreatedResponse
// @Failure		400	{object}	map[string]interface{} "Ошибка валидации или email/username заняты"
// @Router		/users [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, UserCreatedResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// Login выдаёт токен по email и паролю.
// @Summary		Получить токен
// @Tags		Автентификация
// @Param		request	body	LoginRequest	true	"email и пароль"
// @Success		200	{object}	TokenResponse
// @Failure		400	{object}	map[string]interface{} "Неверные учётные данные"
// @Router		/auth/token/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", ErrInvalidCredentials.Error())
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, TokenResponse{AuthToken: token})
}

func (h *Handler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), c.GetString("token_id"), middleware.TokenRemaining(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	profile, err := h.service.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// SetPassword меняет пароль текущего пользователя.
// @Summary		Сменить пароль
// @Tags		Пользователи
// @Security	BearerAuth
// @Param		request	body	SetPasswordRequest	true	"Текущий и новый пароль"
// @Success		204
// @Failure		400	{object}	map[string]interface{} "Неверный текущий пароль"
// @Router		/users/set_password [POST]
func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), c.GetInt64("user_id"), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) ListUsers(c *gin.Context) {
	p := response.ParsePagination(c, h.pageSize)
	users, total, err := h.service.ListUsers(c.Request.Context(), c.GetInt64("user_id"), p.Limit, p.Offset())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(c, p, total, users))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	profile, err := h.service.GetUser(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errs)
		return false
	}
	return true
}
