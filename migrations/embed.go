// Package migrations embeds SQL migration files for startup schema setup and
// test tooling.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
