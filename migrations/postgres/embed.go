// Package migrations embeds SQL migration files.
package migrations

import "embed"

// ProfilesFS contains the profiles table and role function migrations.
//
//go:embed profiles/*.sql
var ProfilesFS embed.FS

// ProfilesDir is the directory within ProfilesFS where migrations live.
const ProfilesDir = "profiles"
