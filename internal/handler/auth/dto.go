package auth

import "time"

// LoginRequest описывает тело запроса логина.
// Username может содержать как логин, так и email.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse - ответ при успешной аутентификации.
type LoginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}
