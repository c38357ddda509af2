// Package sqlite embeds the goose migration history for the embedded SQLite
// engine. The list mirrors the PostgreSQL history version for version.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
