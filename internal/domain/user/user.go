package user

import (
	"time"

	"github.com/google/uuid"
)

// Role описывает роль пользователя в системе.
// Значения совпадают с тем, что попадает в claim roles токена.
type Role string

const (
	RoleUser    Role = "User"
	RoleTrainer Role = "Trainer"
	RoleAdmin   Role = "Admin"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// User представляет учётную запись фитнес‑приложения.
//
// Доменный пользователь и учётные данные для входа объединены в одну сущность:
// email/username/хэш пароля и набор ролей живут рядом с профилем.
type User struct {
	ID           uuid.UUID // Уникальный идентификатор, он же subject токена
	Name         string    // Отображаемое имя
	Email        string    // Email (уникальный)
	Username     string    // Логин (уникальный), по умолчанию совпадает с email
	PasswordHash string    // Хэш пароля (bcrypt)
	Roles        []Role    // Набор ролей, никогда не пустой для активной учётной записи

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser - фабрика для создания нового пользователя на доменном уровне.
// Хеширование пароля выполняется в usecase-слое до вызова.
// Если роли не переданы, назначается RoleUser.
func NewUser(name, email, username, passwordHash string, roles ...Role) *User {
	if username == "" {
		username = email
	}
	if len(roles) == 0 {
		roles = []Role{RoleUser}
	}
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasRole проверяет наличие роли у пользователя.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.EffectiveRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// EffectiveRoles возвращает набор ролей; пустой набор трактуется как RoleUser.
func (u *User) EffectiveRoles() []Role {
	if len(u.Roles) == 0 {
		return []Role{RoleUser}
	}
	return u.Roles
}

// RoleNames возвращает роли в виде строк (для claims).
func (u *User) RoleNames() []string {
	roles := u.EffectiveRoles()
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// Touch обновляет время последнего изменения сущности.
func (u *User) Touch(at time.Time) {
	u.UpdatedAt = at
}
