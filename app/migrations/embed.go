// Package migrations embeds the goose SQL migrations so the binary can
// migrate its own schema without shipping files alongside it.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
