package migrations

import "embed"

// FS contains the embedded playlist database migrations.
//
//go:embed *.sql
var FS embed.FS
