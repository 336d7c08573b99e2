package pg

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
	migrations "github.com/dropDatabas3/comanda/migrations/postgres"
)

// Formato de archivo: {version}_{name}.sql (ej: 0001_init.sql)
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

type migration struct {
	Version int
	Name    string
	SQL     string
}

func parseMigrations(fsys embed.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var out []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := migrationFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue // Ignorar archivos que no coinciden
		}
		version, _ := strconv.Atoi(m[1])
		content, err := fsys.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		out = append(out, migration{Version: version, Name: m[2], SQL: string(content)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrate crea el schema master y el de cada tenant, aplicando las
// migraciones pendientes de cada uno.
func (s *Store) Migrate(ctx context.Context, tenants []string) error {
	log := logger.From(ctx).With(logger.Component("pg.migrate"))

	applied, err := s.migrateSchema(ctx, string(tenantctx.Master), migrations.MasterFS, migrations.MasterDir)
	if err != nil {
		return fmt.Errorf("migrate master: %w", err)
	}
	log.Info("schema migrated", logger.Tenant(string(tenantctx.Master)), logger.Count(applied))

	for _, raw := range tenants {
		tenant := tenantctx.Normalize(raw)
		schema := SchemaName(tenant)
		if schema == "" || tenant == tenantctx.Master {
			return fmt.Errorf("migrate tenant %q: %w", raw, repository.ErrInvalidInput)
		}
		applied, err := s.migrateSchema(ctx, schema, migrations.TenantFS, migrations.TenantDir)
		if err != nil {
			return fmt.Errorf("migrate tenant %q: %w", raw, err)
		}
		log.Info("schema migrated", logger.Tenant(tenant.String()), logger.Count(applied))
	}
	return nil
}

func (s *Store) migrateSchema(ctx context.Context, schema string, fsys embed.FS, dir string) (int, error) {
	list, err := parseMigrations(fsys, dir)
	if err != nil {
		return 0, err
	}
	ident := pgx.Identifier{schema}.Sanitize()
	applied := 0

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+ident); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `SET LOCAL search_path TO `+ident); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version     INTEGER PRIMARY KEY,
				name        TEXT NOT NULL,
				applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			)`); err != nil {
			return err
		}
		for _, m := range list {
			var done bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version).Scan(&done); err != nil {
				return err
			}
			if done {
				continue
			}
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("migration %04d_%s: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	return applied, err
}
