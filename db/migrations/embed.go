// Package migrations ships the postgres schema with the binaries.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
