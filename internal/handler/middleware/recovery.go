package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitness-tracker/internal/handler/response"
)

// Recovery перехватывает панику, логирует её со стеком и отвечает 500
// в стандартном формате ошибки. Детали паники клиенту не отдаются.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)

		response.Internal(c)
	})
}
