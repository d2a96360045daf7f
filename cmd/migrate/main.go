package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"fitness-tracker/internal/config"
	"fitness-tracker/internal/database"
	"fitness-tracker/pkg/logger"
)

func main() {
	// Определяем флаги
	var (
		up      = flag.Bool("up", false, "Применить все доступные миграции (по умолчанию)")
		down    = flag.Bool("down", false, "Откатить последнюю миграцию")
		downAll = flag.Bool("down-all", false, "Откатить все миграции")
		steps   = flag.String("steps", "", "Применить/откатить N миграций (положительное число - вверх, отрицательное - вниз)")
		version = flag.Bool("version", false, "Показать текущую версию миграции")
		force   = flag.Int("force", -1, "Принудительно установить версию (восстановление после грязного состояния)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Использование: %s [опции]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Опции:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nПримеры:\n")
		fmt.Fprintf(os.Stderr, "  %s              # Применить все миграции (по умолчанию)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -down        # Откатить последнюю миграцию\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -down-all    # Откатить все миграции\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -steps -1    # Откатить 1 миграцию\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -force 1     # Пометить версию 1 как чистую\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -version     # Показать текущую версию\n", os.Args[0])
	}

	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", os.Getenv("APP_ENV")).Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.AppEnv)

	// Определяем действие на основе флагов
	actionCount := 0
	for _, set := range []bool{*up, *down, *downAll, *steps != "", *version, *force >= 0} {
		if set {
			actionCount++
		}
	}

	if actionCount > 1 {
		log.Fatal("Можно указать только одно действие за раз")
	}

	stepCount := 0
	if *steps != "" {
		if stepCount, err = strconv.Atoi(*steps); err != nil {
			log.Fatal("Неверный формат числа для -steps", zap.String("steps", *steps), zap.Error(err))
		}
	}

	log.Info("Запуск миграции базы данных",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName),
	)

	err = withMigrator(cfg, log, func(migrator *database.Migrator) error {
		switch {
		case *version:
			return handleVersion(migrator, log)
		case *force >= 0:
			return migrator.Force(*force)
		case *down:
			return handleSteps(migrator, log, -1)
		case *downAll:
			return guard(migrator, func() error { return ignoreNoChange(migrator.Down(), log) })
		case *steps != "":
			return handleSteps(migrator, log, stepCount)
		default:
			// -up или действие не указано
			return guard(migrator, func() error { return ignoreNoChange(migrator.Up(), log) })
		}
	})
	if err != nil {
		log.Error("Ошибка миграции", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// withMigrator открывает мигратор, выполняет fn и закрывает подключение.
// Мигратор держит собственное подключение через lib/pq.
func withMigrator(cfg *config.Config, log *zap.Logger, fn func(*database.Migrator) error) error {
	migrator, err := database.NewMigratorFromConfig(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("создание мигратора: %w", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("Ошибка закрытия мигратора", zap.Error(err))
		}
	}()
	return fn(migrator)
}

// guard отказывается работать поверх прерванной миграции.
func guard(migrator *database.Migrator, fn func() error) error {
	if err := migrator.CheckDirty(); err != nil {
		if errors.Is(err, database.ErrDirtyState) {
			return fmt.Errorf("%w: выполните -force <версия> после ручной проверки схемы", err)
		}
		return err
	}
	return fn()
}

func ignoreNoChange(err error, log *zap.Logger) error {
	if errors.Is(err, database.ErrNoChange) {
		log.Info("Нет миграций для применения. База данных уже актуальна.")
		return nil
	}
	return err
}

// handleSteps применяет или откатывает N миграций
func handleSteps(migrator *database.Migrator, log *zap.Logger, n int) error {
	if n == 0 {
		log.Info("Ноль миграций для применения/отката")
		return nil
	}
	return guard(migrator, func() error { return ignoreNoChange(migrator.Steps(n), log) })
}

// handleVersion показывает текущую версию миграции
func handleVersion(migrator *database.Migrator, log *zap.Logger) error {
	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}

	if version == 0 {
		log.Info("Нет примененных миграций")
		return nil
	}
	if dirty {
		return fmt.Errorf("версия %d: %w", version, database.ErrDirtyState)
	}
	log.Info("Текущая версия схемы", zap.Uint("version", version))
	return nil
}
