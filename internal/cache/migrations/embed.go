package migrations

import "embed"

// FS holds the cache schema migrations.
//
//go:embed *.sql
var FS embed.FS
