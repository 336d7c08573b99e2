// Package pg implementa el record store sobre PostgreSQL.
//
// Cada tenant vive en su propio schema (nombre derivado del tenant id); los
// usuarios de staff viven en el schema master. Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/store"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

var validIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// maxIdentifierLen es NAMEDATALEN-1: Postgres trunca nombres más largos.
const maxIdentifierLen = 63

// SchemaName retorna el schema del tenant. El tenant id se usa tal cual:
// debe ser ya un identificador válido en minúsculas, de modo que dos tenants
// distintos nunca comparten schema. Retorna "" si no lo es.
func SchemaName(tenant tenantctx.TenantID) string {
	name := string(tenant)
	if len(name) > maxIdentifierLen || !validIdentifier.MatchString(name) {
		return ""
	}
	// pg_* está reservado para schemas del sistema.
	if strings.HasPrefix(name, "pg_") {
		return ""
	}
	return name
}

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (repository.Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Store es un repository.Store sobre un pool de PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ repository.Store = (*Store)(nil)
	_ store.Migratable = (*Store)(nil)
)

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// table retorna el nombre calificado y escapado schema.tabla del tenant.
func table(tenant tenantctx.TenantID, name string) (string, error) {
	schema := SchemaName(tenant)
	if schema == "" {
		return "", fmt.Errorf("pg: tenant %q is not a valid schema name: %w", tenant, repository.ErrInvalidInput)
	}
	return pgx.Identifier{schema, name}.Sanitize(), nil
}

func masterTable(name string) string {
	return pgx.Identifier{string(tenantctx.Master), name}.Sanitize()
}

// isUniqueViolation detecta violaciones de unique constraint (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
