package exercise

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitness-tracker/internal/handler/response"
	repo "fitness-tracker/internal/repository/interfaces"
	exerciseuc "fitness-tracker/internal/usecase/exercise"
)

// Handler обрабатывает HTTP-запросы каталога упражнений.
type Handler struct {
	exercises exerciseuc.Service
	log       *zap.Logger
}

// NewHandler создаёт новый ExerciseHandler.
func NewHandler(exercises exerciseuc.Service, log *zap.Logger) *Handler {
	return &Handler{exercises: exercises, log: log}
}

// Create добавляет упражнение в каталог.
//
//	@Summary	Создание упражнения
//	@Tags		exercises
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		Request	true	"Упражнение"
//	@Success	201		{object}	response.IDResponse
//	@Failure	400		{object}	response.ErrorEnvelope
//	@Failure	401		{object}	response.ErrorEnvelope
//	@Router		/exercises [post]
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, err.Error())
		return
	}

	e, err := h.exercises.Create(c.Request.Context(), exerciseuc.Input(req))
	if err != nil {
		h.writeError(c, "create exercise", err)
		return
	}
	c.JSON(http.StatusCreated, response.IDResponse{ID: e.ID.String()})
}

// List возвращает каталог упражнений.
//
//	@Summary	Список упражнений
//	@Tags		exercises
//	@Produce	json
//	@Success	200	{array}	Response
//	@Router		/exercises [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.exercises.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list exercises", err)
		return
	}
	c.JSON(http.StatusOK, ToResponseList(list))
}

// Get возвращает упражнение по id.
//
//	@Summary	Упражнение по id
//	@Tags		exercises
//	@Produce	json
//	@Param		id	path		string	true	"Exercise ID"
//	@Success	200	{object}	Response
//	@Failure	400	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/exercises/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := response.UUIDParam(c, "id")
	if !ok {
		return
	}

	e, err := h.exercises.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get exercise", err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(e))
}

// Update заменяет поля упражнения.
//
//	@Summary	Обновление упражнения
//	@Tags		exercises
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string	true	"Exercise ID"
//	@Param		body	body	Request	true	"Упражнение"
//	@Success	204
//	@Failure	400	{object}	response.ErrorEnvelope
//	@Failure	403	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/exercises/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, err.Error())
		return
	}

	if _, err := h.exercises.Update(c.Request.Context(), id, exerciseuc.Input(req)); err != nil {
		h.writeError(c, "update exercise", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete удаляет упражнение и все его назначения.
//
//	@Summary	Удаление упражнения
//	@Tags		exercises
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Exercise ID"
//	@Success	204
//	@Failure	403	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/exercises/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.exercises.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "delete exercise", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "exercise_not_found", "Упражнение не найдено", nil)
	case errors.Is(err, exerciseuc.ErrInvalidInput):
		response.InvalidRequest(c, err.Error())
	default:
		h.log.Error("internal error", zap.String("op", op), zap.Error(err))
		response.Internal(c)
	}
}
