package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"fitness-tracker/internal/config"
	"fitness-tracker/internal/database"
	"fitness-tracker/internal/repository/memory"
	"fitness-tracker/internal/server"
	"fitness-tracker/pkg/logger"
)

//	@title						Fitness Tracker API
//	@version					1.0
//	@description				Пользователи, каталог упражнений и их назначение.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		// Логгер ещё не настроен: уровень берём по умолчанию
		logger.New("info", os.Getenv("APP_ENV")).Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.AppEnv)
	if err := run(cfg, log); err != nil {
		log.Error("Сервер остановлен с ошибкой", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run собирает зависимости и блокируется до остановки сервера.
// Отложенные Close выполняются до выхода из процесса.
func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Fitness Tracker API запускается",
		zap.String("env", cfg.AppEnv),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("address", cfg.Server.Address()),
	)
	if cfg.UsesDevJWTSecret() {
		log.Warn("JWT_SECRET не задан: токены подписываются ключом разработки")
	}

	var srv *server.Server
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		repos := server.Repositories{
			Users:       store.Users(),
			Exercises:   store.Exercises(),
			Assignments: store.Assignments(),
		}
		srv = server.NewServerWithRepositories(cfg, repos, nil, log)
	default:
		db, err := database.NewConnection(&cfg.Database, cfg.AppEnv, log)
		if err != nil {
			return fmt.Errorf("подключение к базе данных: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Ошибка закрытия подключения к базе данных", zap.Error(err))
			}
		}()

		if cfg.Database.AutoMigrate {
			if err := migrate(cfg, log); err != nil {
				return fmt.Errorf("применение миграций: %w", err)
			}
		}
		srv = server.NewServer(cfg, db, log)
	}

	if err := srv.SeedAdmin(context.Background()); err != nil {
		return err
	}
	return srv.Start()
}

// migrate применяет миграции отдельным подключением и закрывает его.
func migrate(cfg *config.Config, log *zap.Logger) error {
	m, err := database.NewMigratorFromConfig(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Ошибка закрытия мигратора", zap.Error(err))
		}
	}()
	return m.UpIfClean()
}
