// Package migrations встраивает SQL-миграции сервиса в бинарник
package migrations

import "embed"

// FS миграции goose, файлы в корне
//
//go:embed *.sql
var FS embed.FS
