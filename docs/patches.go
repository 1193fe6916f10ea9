package docs

import "embed"

// Patches holds goose SQL migrations.
//
//go:embed patches/*.sql
var Patches embed.FS

const PatchesDir = "patches"
