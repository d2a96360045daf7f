package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

// Имена уникальных индексов из миграции 000001_init.
const (
	userEmailIndex    = "idx_users_email_unique"
	userUsernameIndex = "idx_users_username_unique"
)

// pgUser представляет собой ORM-модель для таблицы users.
// Она максимально близко отражает схему БД и маппится в доменную модель User.
type pgUser struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	Email        string    `gorm:"column:email;type:varchar(100);not null"`
	Username     string    `gorm:"column:username;type:varchar(100);not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgUser) TableName() string {
	return "users"
}

// pgUserRole - строка таблицы user_roles.
type pgUserRole struct {
	UserID string `gorm:"column:user_id;type:uuid;primaryKey"`
	Role   string `gorm:"column:role;type:varchar(20);primaryKey"`
}

func (pgUserRole) TableName() string {
	return "user_roles"
}

// UserRepository реализует repo.UserRepository с использованием GORM и Postgres.
type UserRepository struct {
	db *gorm.DB
}

// Убедимся на этапе компиляции, что структура реализует интерфейс.
var _ repo.UserRepository = (*UserRepository)(nil)

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// toDomain маппит ORM-модель в доменную.
func (m *pgUser) toDomain(roles []domain.Role) (*domain.User, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		ID:           id,
		Name:         m.Name,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// fromDomain маппит доменную модель в ORM-модель.
func fromDomain(u *domain.User) *pgUser {
	return &pgUser{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// mapUserWriteError переводит ошибки уникальности в доменные.
func mapUserWriteError(err error) error {
	switch {
	case isUniqueViolation(err, userEmailIndex):
		return repo.ErrEmailExists
	case isUniqueViolation(err, userUsernameIndex):
		return repo.ErrUsernameExists
	}
	return err
}

// Create создает пользователя и его роли в одной транзакции.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	model := fromDomain(user)
	roles := user.EffectiveRoles()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return mapUserWriteError(err)
		}
		rows := make([]pgUserRole, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, pgUserRole{UserID: model.ID, Role: string(role)})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return err
	}

	user.Roles = roles
	return nil
}

// oneByCondition возвращает одну запись по условию вместе с ролями.
func (r *UserRepository) oneByCondition(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var model pgUser
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Take(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	roles, err := r.rolesFor(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(roles[model.ID])
}

// rolesFor загружает роли для набора пользователей одним запросом.
func (r *UserRepository) rolesFor(ctx context.Context, ids ...string) (map[string][]domain.Role, error) {
	out := make(map[string][]domain.Role, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []pgUserRole
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Order("role").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], domain.Role(row.Role))
	}
	return out, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.oneByCondition(ctx, "id = ?", id.String())
}

// GetByEmail возвращает пользователя по email (без учёта регистра).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.oneByCondition(ctx, "LOWER(email) = LOWER(?)", email)
}

// GetByUsername возвращает пользователя по username (без учёта регистра).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.oneByCondition(ctx, "LOWER(username) = LOWER(?)", username)
}

// List возвращает всех пользователей.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var models []pgUser
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.withRoles(ctx, models)
}

// withRoles маппит набор моделей в доменные объекты с ролями.
func (r *UserRepository) withRoles(ctx context.Context, models []pgUser) ([]*domain.User, error) {
	ids := make([]string, 0, len(models))
	for i := range models {
		ids = append(ids, models[i].ID)
	}
	roles, err := r.rolesFor(ctx, ids...)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		u, err := models[i].toDomain(roles[models[i].ID])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Update обновляет профиль пользователя (name, email, username).
// Не обновляет защищенные поля: id, created_at, password_hash, роли.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	fields := map[string]interface{}{
		"name":       user.Name,
		"email":      user.Email,
		"updated_at": user.UpdatedAt,
	}
	if user.Username != "" {
		fields["username"] = user.Username
	}

	result := r.db.WithContext(ctx).
		Model(&pgUser{}).
		Where("id = ?", user.ID.String()).
		Updates(fields)

	if result.Error != nil {
		return mapUserWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// AddRole добавляет роль пользователю (идемпотентно).
func (r *UserRepository) AddRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&pgUserRole{UserID: id.String(), Role: string(role)}).Error
	if isForeignKeyViolation(err) {
		return repo.ErrNotFound
	}
	return err
}

// Delete удаляет пользователя. Назначения упражнений и роли удаляются явно
// в той же транзакции, до удаления самой записи users.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	userID := id.String()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&pgAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&pgUserRole{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&pgUser{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
