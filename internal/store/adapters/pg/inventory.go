package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func (s *Store) ListInventory(ctx context.Context, tenant tenantctx.TenantID) ([]repository.Inventory, error) {
	tbl, err := table(tenant, "inventory")
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id, item_name, quantity, unit, price, date, time FROM %s ORDER BY id`, tbl))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Inventory{}
	for rows.Next() {
		var it repository.Inventory
		if err := rows.Scan(&it.ID, &it.ItemName, &it.Quantity, &it.Unit, &it.Price, &it.Date, &it.Time); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) SaveInventory(ctx context.Context, tenant tenantctx.TenantID, items []repository.Inventory) ([]repository.Inventory, error) {
	tbl, err := table(tenant, "inventory")
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`INSERT INTO %s (item_name, quantity, unit, price, date, time) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, tbl)

	out := make([]repository.Inventory, 0, len(items))
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, it := range items {
			if err := tx.QueryRow(ctx, q, it.ItemName, it.Quantity, it.Unit, it.Price, it.Date, it.Time).Scan(&it.ID); err != nil {
				return err
			}
			out = append(out, it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
