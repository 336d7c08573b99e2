package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func (s *Store) FindStaffUser(ctx context.Context, username string) (*repository.StaffUser, error) {
	var u repository.StaffUser
	var tenant string
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT username, password_hash, role, tenant, token_generation
		FROM %s WHERE username = $1`, masterTable("staff_user")), username).
		Scan(&u.Username, &u.PasswordHash, &u.Role, &tenant, &u.TokenGeneration)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Tenant = tenantctx.TenantID(tenant)
	return &u, nil
}

func (s *Store) ListStaffUsers(ctx context.Context, tenant tenantctx.TenantID) ([]repository.StaffUser, error) {
	// Los admins master se guardan con tenant vacío.
	key := string(tenant)
	if tenant == tenantctx.Master {
		key = ""
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT username, password_hash, role, tenant, token_generation
		FROM %s WHERE tenant = $1 OR ($1 = '' AND tenant = $2)
		ORDER BY username`, masterTable("staff_user")), key, string(tenantctx.Master))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.StaffUser{}
	for rows.Next() {
		var u repository.StaffUser
		var t string
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Role, &t, &u.TokenGeneration); err != nil {
			return nil, err
		}
		u.Tenant = tenantctx.TenantID(t)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateStaffUser(ctx context.Context, u repository.StaffUser) error {
	if u.Username == "" {
		return repository.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (username, password_hash, role, tenant, token_generation)
		VALUES ($1, $2, $3, $4, $5)`, masterTable("staff_user")),
		u.Username, u.PasswordHash, u.Role, string(u.Tenant), u.TokenGeneration)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

func (s *Store) DeleteStaffUser(ctx context.Context, username string) (bool, error) {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE username = $1`, masterTable("staff_user")), username)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SaveStaffUser(ctx context.Context, u repository.StaffUser) error {
	if u.Username == "" {
		return repository.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (username, password_hash, role, tenant, token_generation)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			tenant = EXCLUDED.tenant,
			token_generation = GREATEST(staff_user.token_generation, EXCLUDED.token_generation)`,
		masterTable("staff_user")),
		u.Username, u.PasswordHash, u.Role, string(u.Tenant), u.TokenGeneration)
	return err
}

func (s *Store) BumpTokenGeneration(ctx context.Context, username string) (int64, error) {
	var gen int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET token_generation = token_generation + 1
		WHERE username = $1 RETURNING token_generation`, masterTable("staff_user")), username).Scan(&gen)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return gen, err
}
