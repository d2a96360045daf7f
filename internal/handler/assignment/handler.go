package assignment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exercisehandler "fitness-tracker/internal/handler/exercise"
	"fitness-tracker/internal/handler/response"
	userhandler "fitness-tracker/internal/handler/user"
	repo "fitness-tracker/internal/repository/interfaces"
	assignmentuc "fitness-tracker/internal/usecase/assignment"
)

// Handler обрабатывает назначение упражнений пользователям.
type Handler struct {
	assignments assignmentuc.Service
	log         *zap.Logger
}

// NewHandler создаёт новый AssignmentHandler.
func NewHandler(assignments assignmentuc.Service, log *zap.Logger) *Handler {
	return &Handler{assignments: assignments, log: log}
}

// Assign назначает упражнение пользователю или перезаписывает назначение.
//
//	@Summary	Назначить упражнение
//	@Tags		assignments
//	@Accept		json
//	@Security	BearerAuth
//	@Param		userId		path	string			true	"User ID"
//	@Param		exerciseId	path	string			true	"Exercise ID"
//	@Param		body		body	AssignRequest	false	"Цели"
//	@Success	204
//	@Failure	400	{object}	response.ErrorEnvelope
//	@Failure	401	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/users/{userId}/exercises/{exerciseId} [post]
func (h *Handler) Assign(c *gin.Context) {
	userID, ok := response.UUIDParam(c, "userId")
	if !ok {
		return
	}
	exerciseID, ok := response.UUIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req AssignRequest
	// Пустое тело допустимо: все цели будут null
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.InvalidRequest(c, err.Error())
		return
	}

	err := h.assignments.Assign(c.Request.Context(), assignmentuc.AssignInput{
		UserID:     userID,
		ExerciseID: exerciseID,
		TargetSets: req.TargetSets,
		TargetReps: req.TargetReps,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeError(c, "assign", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove снимает назначение.
//
//	@Summary	Снять назначение
//	@Tags		assignments
//	@Security	BearerAuth
//	@Param		userId		path	string	true	"User ID"
//	@Param		exerciseId	path	string	true	"Exercise ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/users/{userId}/exercises/{exerciseId} [delete]
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := response.UUIDParam(c, "userId")
	if !ok {
		return
	}
	exerciseID, ok := response.UUIDParam(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.assignments.Remove(c.Request.Context(), userID, exerciseID); err != nil {
		h.writeError(c, "remove assignment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get возвращает назначение с целями.
//
//	@Summary	Назначение
//	@Tags		assignments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		userId		path		string	true	"User ID"
//	@Param		exerciseId	path		string	true	"Exercise ID"
//	@Success	200			{object}	Response
//	@Failure	404			{object}	response.ErrorEnvelope
//	@Router		/users/{userId}/exercises/{exerciseId} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := response.UUIDParam(c, "userId")
	if !ok {
		return
	}
	exerciseID, ok := response.UUIDParam(c, "exerciseId")
	if !ok {
		return
	}

	a, err := h.assignments.Get(c.Request.Context(), userID, exerciseID)
	if err != nil {
		h.writeError(c, "get assignment", err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(a))
}

// ListForUser возвращает упражнения пользователя; пустой массив, если их нет.
//
//	@Summary	Упражнения пользователя
//	@Tags		assignments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		userId	path	string	true	"User ID"
//	@Success	200		{array}	exercisehandler.Response
//	@Router		/users/{userId}/exercises [get]
func (h *Handler) ListForUser(c *gin.Context) {
	userID, ok := response.UUIDParam(c, "userId")
	if !ok {
		return
	}

	list, err := h.assignments.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, "list user exercises", err)
		return
	}
	c.JSON(http.StatusOK, exercisehandler.ToResponseList(list))
}

// ListForExercise возвращает пользователей упражнения; пустой массив, если их нет.
//
//	@Summary	Пользователи упражнения
//	@Tags		assignments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		exerciseId	path	string	true	"Exercise ID"
//	@Success	200			{array}	userhandler.UserResponse
//	@Router		/exercises/{exerciseId}/users [get]
func (h *Handler) ListForExercise(c *gin.Context) {
	exerciseID, ok := response.UUIDParam(c, "exerciseId")
	if !ok {
		return
	}

	list, err := h.assignments.ListForExercise(c.Request.Context(), exerciseID)
	if err != nil {
		h.writeError(c, "list exercise users", err)
		return
	}
	c.JSON(http.StatusOK, userhandler.ToResponseList(list))
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "Пользователь, упражнение или назначение не найдены", nil)
	case errors.Is(err, assignmentuc.ErrInvalidInput):
		response.InvalidRequest(c, err.Error())
	default:
		h.log.Error("internal error", zap.String("op", op), zap.Error(err))
		response.Internal(c)
	}
}
