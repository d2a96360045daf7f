package migrations

import "embed"

// Migrations содержит SQL файлы миграций (users, user_roles, exercises, user_exercises),
// встроенные в бинарник и применяемые через golang-migrate.
//
//go:embed *.sql
var Migrations embed.FS
