package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody описывает стандартный формат ошибки API.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorEnvelope - обёртка {"error": {...}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// IDResponse - ответ на создание сущности.
type IDResponse struct {
	ID string `json:"id"`
}

// Error отправляет JSON-ответ с ошибкой в едином формате и прерывает цепочку обработчиков.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// InvalidRequest - 400 с деталями ошибки валидации.
func InvalidRequest(c *gin.Context, details interface{}) {
	Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", details)
}

// Internal - 500 без внутренних деталей.
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
}
