package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func (s *Store) ListProducts(ctx context.Context, tenant tenantctx.TenantID) ([]repository.Product, error) {
	tbl, err := table(tenant, "product")
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id, name, description, price FROM %s ORDER BY id`, tbl))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Product{}
	for rows.Next() {
		var p repository.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) FindProduct(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Product, error) {
	tbl, err := table(tenant, "product")
	if err != nil {
		return nil, err
	}
	var p repository.Product
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT id, name, description, price FROM %s WHERE id = $1`, tbl), id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func saveProduct(ctx context.Context, tx pgx.Tx, tbl string, p repository.Product) (repository.Product, error) {
	var err error
	if p.ID == 0 {
		err = tx.QueryRow(ctx, fmt.Sprintf(`INSERT INTO %s (name, description, price) VALUES ($1, $2, $3) RETURNING id`, tbl),
			p.Name, p.Description, p.Price).Scan(&p.ID)
	} else {
		err = tx.QueryRow(ctx, fmt.Sprintf(`UPDATE %s SET name = $2, description = $3, price = $4 WHERE id = $1 RETURNING id`, tbl),
			p.ID, p.Name, p.Description, p.Price).Scan(&p.ID)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.Product{}, repository.ErrNotFound
	}
	return p, err
}

func (s *Store) SaveProduct(ctx context.Context, tenant tenantctx.TenantID, p repository.Product) (*repository.Product, error) {
	out, err := s.SaveProducts(ctx, tenant, []repository.Product{p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Store) SaveProducts(ctx context.Context, tenant tenantctx.TenantID, ps []repository.Product) ([]repository.Product, error) {
	return s.writeProducts(ctx, tenant, ps, false)
}

func (s *Store) ReplaceProducts(ctx context.Context, tenant tenantctx.TenantID, ps []repository.Product) ([]repository.Product, error) {
	return s.writeProducts(ctx, tenant, ps, true)
}

func (s *Store) writeProducts(ctx context.Context, tenant tenantctx.TenantID, ps []repository.Product, replace bool) ([]repository.Product, error) {
	tbl, err := table(tenant, "product")
	if err != nil {
		return nil, err
	}
	var out []repository.Product
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if replace {
			if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, tbl)); err != nil {
				return err
			}
		}
		out = make([]repository.Product, 0, len(ps))
		for _, p := range ps {
			if replace {
				p.ID = 0
			}
			saved, err := saveProduct(ctx, tx, tbl, p)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteProduct(ctx context.Context, tenant tenantctx.TenantID, id int64) (bool, error) {
	tbl, err := table(tenant, "product")
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tbl), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
