package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitness-tracker/internal/handler/response"
	repo "fitness-tracker/internal/repository/interfaces"
	authuc "fitness-tracker/internal/usecase/auth"
	useruc "fitness-tracker/internal/usecase/user"
)

// Handler обрабатывает HTTP-запросы, связанные с пользователями.
type Handler struct {
	users useruc.Service
	auth  authuc.Service
	log   *zap.Logger
}

// NewHandler создаёт новый UserHandler.
func NewHandler(users useruc.Service, auth authuc.Service, log *zap.Logger) *Handler {
	return &Handler{users: users, auth: auth, log: log}
}

// Signup регистрирует нового пользователя.
//
//	@Summary	Регистрация
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SignupRequest	true	"Данные пользователя"
//	@Success	201		{object}	response.IDResponse
//	@Failure	400		{object}	response.ErrorEnvelope
//	@Failure	409		{object}	response.ErrorEnvelope
//	@Router		/users [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, err.Error())
		return
	}

	user, err := h.auth.CreateAccount(c.Request.Context(), authuc.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		WantsTrainer: req.IsTrainer,
	})
	if err != nil {
		h.writeError(c, "signup", err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.Strings("roles", user.RoleNames()))
	c.JSON(http.StatusCreated, response.IDResponse{ID: user.ID.String()})
}

// List возвращает всех пользователей.
//
//	@Summary	Список пользователей
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		UserResponse
//	@Failure	401	{object}	response.ErrorEnvelope
//	@Router		/users [get]
func (h *Handler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, ToResponseList(users))
}

// Get возвращает пользователя по id.
//
//	@Summary	Пользователь по id
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	UserResponse
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := response.UUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(user))
}

// Update обновляет имя и email пользователя. Доступ проверяет middleware (сам или Admin).
//
//	@Summary	Обновление пользователя
//	@Tags		users
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string			true	"User ID"
//	@Param		body	body	UpdateRequest	true	"Изменения"
//	@Success	204
//	@Failure	400	{object}	response.ErrorEnvelope
//	@Failure	403	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Failure	409	{object}	response.ErrorEnvelope
//	@Router		/users/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, err.Error())
		return
	}

	_, err := h.users.UpdateProfile(c.Request.Context(), id, useruc.ProfileUpdateInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.writeError(c, "update user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete удаляет пользователя вместе с его назначениями.
//
//	@Summary	Удаление пользователя
//	@Tags		users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	204
//	@Failure	403	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), id); err != nil {
		h.writeError(c, "delete user", err)
		return
	}
	h.log.Info("user deleted", zap.String("user_id", id.String()))
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "user_not_found", "Пользователь не найден", nil)
	case errors.Is(err, repo.ErrEmailExists):
		response.Error(c, http.StatusConflict, "email_already_exists", "Указанный email уже используется", nil)
	case errors.Is(err, repo.ErrUsernameExists):
		response.Error(c, http.StatusConflict, "username_already_exists", "Указанный логин уже используется", nil)
	case errors.Is(err, authuc.ErrInvalidInput), errors.Is(err, useruc.ErrInvalidInput):
		response.InvalidRequest(c, err.Error())
	default:
		h.log.Error("internal error", zap.String("op", op), zap.Error(err))
		response.Internal(c)
	}
}
