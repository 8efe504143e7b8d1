package db

import "embed"

// EmbedMigrations holds the control-plane schema migrations compiled into
// the binary; RunMigrations points goose at it.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
