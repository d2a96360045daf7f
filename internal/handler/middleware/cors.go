package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fitness-tracker/internal/config"
)

// CORS middleware для настройки Cross-Origin Resource Sharing.
// Вне production пустой список источников означает «разрешить все»,
// в production разрешены только явно указанные.
func CORS(cfg *config.CORSConfig, production bool) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case len(cfg.AllowedOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	case !production && !cfg.AllowCredentials:
		corsConfig.AllowAllOrigins = true
	default:
		// Блокируем всё, кроме same-origin
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(corsConfig)
}
