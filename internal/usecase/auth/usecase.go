package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
	jwtsvc "fitness-tracker/pkg/jwt"
	"fitness-tracker/pkg/password"
)

// Service описывает usecase-слой аутентификации: логин, создание учётной записи
// и сидирование администратора.
type Service interface {
	// Login ищет учётную запись сначала по email, затем по username,
	// проверяет пароль и выпускает токен.
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)

	// CreateAccount создаёт пользователя вместе с ролями одной транзакцией.
	CreateAccount(ctx context.Context, in RegisterInput) (*domain.User, error)

	// EnsureAdmin идемпотентно создаёт администратора или выдаёт роль Admin
	// существующей учётной записи.
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error)
}

// LoginResult - результат успешного входа.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterInput - данные для регистрации.
type RegisterInput struct {
	Name         string
	Email        string
	Username     string // Необязательно, по умолчанию равен email
	Password     string
	WantsTrainer bool
}

// Ошибки бизнес-логики usecase-слоя.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const maxFieldLength = 100

// validate проверяет формат email теми же правилами, что и binding-теги gin.
var validate = validator.New()

type service struct {
	users              repo.UserRepository
	jwt                jwtsvc.Service
	allowTrainerSignup bool
}

// NewService создаёт новый auth usecase-сервис.
// allowTrainerSignup разрешает выбирать роль Trainer при регистрации.
func NewService(users repo.UserRepository, jwt jwtsvc.Service, allowTrainerSignup bool) Service {
	return &service{
		users:              users,
		jwt:                jwt,
		allowTrainerSignup: allowTrainerSignup,
	}
}

// Login выполняет вход. Любая неудача (нет пользователя, неверный пароль)
// возвращает одну и ту же ErrInvalidCredentials.
func (s *service) Login(ctx context.Context, identifier, rawPassword string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || rawPassword == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_ = password.CompareDummy(rawPassword)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *service) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return s.users.GetByUsername(ctx, identifier)
}

// CreateAccount регистрирует пользователя.
func (s *service) CreateAccount(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validateRegister(in); err != nil {
		return nil, err
	}

	// Хешируем пароль на уровне usecase.
	hashed, err := password.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if in.WantsTrainer && s.allowTrainerSignup {
		role = domain.RoleTrainer
	}

	user := domain.NewUser(in.Name, in.Email, in.Username, hashed, role)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	case utf8.RuneCountInString(in.Name) > maxFieldLength,
		utf8.RuneCountInString(in.Email) > maxFieldLength,
		utf8.RuneCountInString(in.Username) > maxFieldLength:
		return fmt.Errorf("%w: fields must be at most %d characters", ErrInvalidInput, maxFieldLength)
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return nil
}

// EnsureAdmin вызывается при старте сервера.
func (s *service) EnsureAdmin(ctx context.Context, email, rawPassword string) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.HasRole(domain.RoleAdmin) {
			return existing, nil
		}
		if err := s.users.AddRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return nil, fmt.Errorf("grant admin role: %w", err)
		}
		return s.users.GetByID(ctx, existing.ID)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := domain.NewUser("Administrator", email, email, hashed, domain.RoleAdmin)
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
