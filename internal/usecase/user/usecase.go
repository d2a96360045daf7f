package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

// Service описывает usecase-слой для работы с пользователями:
// просмотр, обновление профиля и удаление.
// Регистрация живёт в auth usecase, так как создаёт ещё и роли.
type Service interface {
	// GetByID возвращает пользователя по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListUsers возвращает список всех пользователей.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// UpdateProfile обновляет имя и email (без изменения пароля и ролей).
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*domain.User, error)

	// DeleteAccount удаляет пользователя вместе с его назначениями упражнений.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// ProfileUpdateInput описывает допустимые изменения в профиле пользователя.
// nil означает «не менять».
type ProfileUpdateInput struct {
	Name  *string
	Email *string
}

// ErrInvalidInput - ошибка валидации входных данных.
var ErrInvalidInput = errors.New("invalid input")

const maxFieldLength = 100

// validate проверяет формат email теми же правилами, что и binding-теги gin.
var validate = validator.New()

type service struct {
	users repo.UserRepository
	now   func() time.Time
}

// NewService создаёт новый сервис пользователей.
func NewService(users repo.UserRepository) Service {
	return &service{
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetByID возвращает пользователя по ID.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers возвращает всех пользователей.
func (s *service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile обновляет профиль пользователя.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Применяем изменения к доменной модели
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		// Логин по умолчанию совпадает с email и меняется вместе с ним
		if strings.EqualFold(user.Username, user.Email) {
			user.Username = email
		}
		user.Email = email
	}
	if err := validateProfile(user); err != nil {
		return nil, err
	}

	user.Touch(s.now())

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateProfile(u *domain.User) error {
	if u.Name == "" || u.Email == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(u.Name) > maxFieldLength || utf8.RuneCountInString(u.Email) > maxFieldLength {
		return fmt.Errorf("%w: fields must be at most %d characters", ErrInvalidInput, maxFieldLength)
	}
	if err := validate.Var(u.Email, "email"); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return nil
}

// DeleteAccount удаляет аккаунт.
func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.users.Delete(ctx, userID)
}
