// Package migrations embeds SQL migration files.
package migrations

import "embed"

// TenantFS contains the migrations applied to every tenant schema.
//
//go:embed tenant/*.sql
var TenantFS embed.FS

// TenantDir is the directory within TenantFS where migrations live.
const TenantDir = "tenant"

// MasterFS contains the migrations for the master schema (staff users).
//
//go:embed master/*.sql
var MasterFS embed.FS

// MasterDir is the directory within MasterFS where migrations live.
const MasterDir = "master"
