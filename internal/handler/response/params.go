package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDParam разбирает параметр пути как UUID. При ошибке отвечает 400 и возвращает false.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", name)
		return uuid.Nil, false
	}
	return id, true
}
