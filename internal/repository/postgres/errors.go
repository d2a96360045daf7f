package postgres

import (
	"errors"
	"strings"

	legacypgconn "github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды SQLSTATE, которые мы различаем.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// pgErrorInfo извлекает SQLSTATE и имя constraint из ошибки драйвера.
// GORM-драйвер postgres работает поверх pgx/v5, но проверяем и pgconn v1,
// если соединение было открыто через старый стек.
func pgErrorInfo(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	var legacyErr *legacypgconn.PgError
	if errors.As(err, &legacyErr) {
		return legacyErr.Code, legacyErr.ConstraintName, true
	}
	return "", "", false
}

// hasSQLState проверяет, является ли ошибка нарушением ограничения с данным кодом.
// Если заданы имена constraint/индексов - дополнительно сверяет имя.
func hasSQLState(err error, state string, constraintNames ...string) bool {
	if err == nil {
		return false
	}

	if code, constraint, ok := pgErrorInfo(err); ok {
		if code != state {
			return false
		}
		if len(constraintNames) == 0 {
			return true
		}
		for _, name := range constraintNames {
			if name != "" && strings.EqualFold(constraint, name) {
				return true
			}
		}
		return false
	}

	// Fallback для нестандартных ошибок: ищем код и имя constraint в сообщении
	errStr := err.Error()
	if !strings.Contains(errStr, state) {
		return false
	}
	if len(constraintNames) == 0 {
		return true
	}
	lower := strings.ToLower(errStr)
	for _, name := range constraintNames {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// isUniqueViolation проверяет нарушение уникального ограничения (23505).
func isUniqueViolation(err error, constraintNames ...string) bool {
	return hasSQLState(err, sqlStateUniqueViolation, constraintNames...)
}

// isForeignKeyViolation проверяет нарушение внешнего ключа (23503).
func isForeignKeyViolation(err error) bool {
	return hasSQLState(err, sqlStateForeignKeyViolation)
}
