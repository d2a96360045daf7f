package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"fitness-tracker/internal/config"
	"fitness-tracker/internal/database/migrations"
)

var (
	// ErrNoChange возвращается, когда нет миграций для применения.
	ErrNoChange = errors.New("no change")

	// ErrDirtyState возвращается, когда миграции находятся в "грязном" состоянии.
	// Это означает, что миграция была прервана и требует ручного вмешательства.
	ErrDirtyState = errors.New("database is in dirty state")
)

// Migrator управляет версиями схемы БД через golang-migrate.
// SQL-файлы встроены в бинарник (embed.FS).
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

func newMigrator(sqlDB *sql.DB, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания драйвера PostgreSQL: %w", err)
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания источника миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания экземпляра migrate: %w", err)
	}

	return &Migrator{m: m, log: log}, nil
}

// NewMigratorFromConfig открывает отдельное подключение через lib/pq.
// Используется CLI cmd/migrate и сервером при DB_AUTO_MIGRATE=true.
func NewMigratorFromConfig(cfg *config.DatabaseConfig, log *zap.Logger) (*Migrator, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия подключения: %w", err)
	}

	m, err := newMigrator(sqlDB, log)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return m, nil
}

// Close закрывает подключение мигратора и освобождает ресурсы.
func (m *Migrator) Close() error {
	if m.m == nil {
		return nil
	}
	sourceErr, dbErr := m.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("ошибка закрытия источника миграций: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("ошибка закрытия подключения к БД: %w", dbErr)
	}
	return nil
}

// Up применяет все доступные миграции.
// Возвращает ErrNoChange, если нет миграций для применения.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}
	m.log.Info("Все миграции успешно применены")
	return nil
}

// Down откатывает все миграции.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return fmt.Errorf("ошибка отката миграций: %w", err)
	}
	m.log.Info("Миграции откатились")
	return nil
}

// Steps применяет (n > 0) или откатывает (n < 0) N миграций.
func (m *Migrator) Steps(n int) error {
	if err := m.m.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return fmt.Errorf("ошибка применения %d шагов миграций: %w", n, err)
	}
	m.log.Info("Шаги миграций применены", zap.Int("steps", n))
	return nil
}

// Version возвращает текущую версию и флаг "грязного" состояния.
// Если миграции не применялись, версия будет 0 и dirty = false.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ошибка получения версии: %w", err)
	}
	return version, dirty, nil
}

// Force устанавливает версию без применения миграций.
// Только для восстановления после "грязного" состояния.
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("ошибка принудительной установки версии %d: %w", version, err)
	}
	m.log.Warn("Версия миграции установлена принудительно", zap.Int("version", version))
	return nil
}

// CheckDirty возвращает ErrDirtyState, если прошлая миграция была прервана.
func (m *Migrator) CheckDirty() error {
	_, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		return ErrDirtyState
	}
	return nil
}

// UpIfClean проверяет состояние и применяет миграции; ErrNoChange не считается ошибкой.
func (m *Migrator) UpIfClean() error {
	if err := m.CheckDirty(); err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, ErrNoChange) {
		return err
	}
	return nil
}
