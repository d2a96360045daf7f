package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "fitness-tracker/internal/domain/user"
)

// ErrNotFound возвращается, когда сущность не найдена в хранилище.
var ErrNotFound = errors.New("entity not found")

// ErrEmailExists возвращается, когда пользователь с таким email уже существует.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists возвращается, когда пользователь с таким username уже существует.
var ErrUsernameExists = errors.New("username already exists")

// UserRepository определяет контракт для работы с пользователями на уровне хранилища.
//
// Интерфейс оперирует доменной моделью User (вместе с набором ролей)
// и не раскрывает деталей реализации (GORM, SQL и т.п.).
type UserRepository interface {
	// Create атомарно создаёт пользователя и его роли.
	// Возвращает ErrEmailExists / ErrUsernameExists при нарушении уникальности.
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по идентификатору или ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email или ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername возвращает пользователя по username или ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List возвращает всех пользователей.
	List(ctx context.Context) ([]*domain.User, error)

	// Update обновляет профиль (name, email, username). Роли и хэш пароля не трогает.
	Update(ctx context.Context, user *domain.User) error

	// AddRole добавляет роль пользователю; повторное добавление не является ошибкой.
	AddRole(ctx context.Context, id uuid.UUID, role domain.Role) error

	// Delete удаляет пользователя вместе с его ролями и назначениями упражнений.
	// Возвращает ErrNotFound, если пользователя нет.
	Delete(ctx context.Context, id uuid.UUID) error
}
