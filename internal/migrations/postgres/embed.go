// Package postgres embeds the goose migration history for the PostgreSQL
// engine. The list is append-only; each file is identified by a monotonic
// version and applied at most once.
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
