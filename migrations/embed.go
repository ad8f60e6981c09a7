// Package migrations holds the versioned SQL schema migrations compiled into the binary.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
