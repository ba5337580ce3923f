// Package migrations embeds the diagnostics journal schema, one directory per database type.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
