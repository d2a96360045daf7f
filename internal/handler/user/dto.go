package user

import (
	"time"

	domain "fitness-tracker/internal/domain/user"
)

// SignupRequest описывает тело запроса регистрации.
// Username необязателен: по умолчанию логином служит email.
type SignupRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Username  string `json:"username" binding:"omitempty,max=100"`
	Password  string `json:"password" binding:"required,max=72"`
	IsTrainer bool   `json:"isTrainer"`
}

// UpdateRequest описывает тело запроса обновления профиля.
type UpdateRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" binding:"omitempty,email,max=100"`
}

// UserResponse - публичное представление пользователя.
// Хэш пароля никогда не попадает в ответ.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToResponse маппит доменную модель в DTO.
func ToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
	}
}

// ToResponseList маппит срез пользователей; nil превращается в пустой массив.
func ToResponseList(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToResponse(u))
	}
	return out
}
