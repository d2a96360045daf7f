package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength - bcrypt не принимает пароли длиннее 72 байт.
const MaxLength = 72

// ErrTooLong возвращается, если пароль превышает MaxLength байт.
var ErrTooLong = errors.New("password is too long")

// dummyHash - bcrypt-хэш заведомо недостижимого пароля той же стоимости,
// что и DefaultCost. Используется, чтобы сравнение шло одинаково долго
// независимо от того, найден ли пользователь.
var dummyHash []byte

func init() {
	h, err := bcrypt.GenerateFromPassword([]byte("\x00not-a-real-password\x00"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	dummyHash = h
}

// Hash хеширует пароль с использованием bcrypt.
func Hash(password string) (string, error) {
	if len(password) > MaxLength {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Compare сравнивает хэш пароля и «сырой» пароль.
func Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// CompareDummy выполняет сравнение с фиктивным хэшем и всегда возвращает ошибку.
func CompareDummy(password string) error {
	if err := bcrypt.CompareHashAndPassword(dummyHash, []byte(password)); err != nil {
		return err
	}
	return bcrypt.ErrMismatchedHashAndPassword
}
