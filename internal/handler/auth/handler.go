package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitness-tracker/internal/handler/response"
	authuc "fitness-tracker/internal/usecase/auth"
)

// Handler обрабатывает HTTP-запросы, связанные с аутентификацией.
type Handler struct {
	auth authuc.Service
	log  *zap.Logger
}

// NewHandler создаёт новый AuthHandler.
func NewHandler(auth authuc.Service, log *zap.Logger) *Handler {
	return &Handler{
		auth: auth,
		log:  log,
	}
}

// Login обрабатывает вход пользователя по username/email и паролю.
//
//	@Summary	Вход в систему
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"Учётные данные"
//	@Success	200		{object}	LoginResponse
//	@Failure	400		{object}	response.ErrorEnvelope
//	@Failure	401		{object}	response.ErrorEnvelope
//	@Router		/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, err.Error())
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authuc.ErrInvalidCredentials):
			// Не раскрываем, что именно неверно
			response.Error(c, http.StatusUnauthorized, "invalid_credentials", "Неверный логин или пароль", nil)
		case errors.Is(err, authuc.ErrInvalidInput):
			response.InvalidRequest(c, err.Error())
		default:
			h.log.Error("login failed", zap.Error(err))
			response.Internal(c)
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:      res.Token,
		Expiration: res.ExpiresAt,
	})
}
