package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

type orderTables struct {
	orders string
	items  string
}

func orderTablesFor(tenant tenantctx.TenantID) (orderTables, error) {
	o, err := table(tenant, "orders")
	if err != nil {
		return orderTables{}, err
	}
	i, _ := table(tenant, "order_item")
	return orderTables{orders: o, items: i}, nil
}

// rowQuerier es satisfecho por *pgxpool.Pool y pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadOrder(ctx context.Context, q rowQuerier, t orderTables, id int64) (*repository.Order, error) {
	var o repository.Order
	err := q.QueryRow(ctx, fmt.Sprintf(`SELECT id, table_number, completed, created_at FROM %s WHERE id = $1`, t.orders), id).
		Scan(&o.ID, &o.TableNumber, &o.Completed, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT id, product_id, item_name, price, quantity FROM %s WHERE order_id = $1 ORDER BY position, id`, t.items), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	o.Items = []repository.OrderItem{}
	for rows.Next() {
		var it repository.OrderItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ItemName, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

func (s *Store) FindOrder(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return nil, err
	}
	return loadOrder(ctx, s.pool, t, id)
}

func (s *Store) ExistsOpenOrderForTable(ctx context.Context, tenant tenantctx.TenantID, tableNumber int) (bool, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE table_number = $1 AND NOT completed)`, t.orders), tableNumber).Scan(&exists)
	return exists, err
}

// upsertItems reescribe las líneas de la orden respetando su orden.
func upsertItems(ctx context.Context, tx pgx.Tx, t orderTables, orderID int64, items []repository.OrderItem) error {
	keep := make([]int64, 0, len(items))
	for pos, it := range items {
		if it.ID == 0 {
			err := tx.QueryRow(ctx, fmt.Sprintf(`
				INSERT INTO %s (order_id, product_id, item_name, price, quantity, position)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, t.items),
				orderID, it.ProductID, it.ItemName, it.Price, it.Quantity, pos).Scan(&it.ID)
			if err != nil {
				return err
			}
		} else {
			_, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET quantity = $3, position = $4 WHERE id = $1 AND order_id = $2`, t.items),
				it.ID, orderID, it.Quantity, pos)
			if err != nil {
				return err
			}
		}
		keep = append(keep, it.ID)
	}
	_, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE order_id = $1 AND NOT (id = ANY($2))`, t.items), orderID, keep)
	return err
}

// CreateOrder se apoya en el índice único parcial (table_number WHERE NOT
// completed): dos creaciones concurrentes para la misma mesa no pueden
// confirmarse ambas.
func (s *Store) CreateOrder(ctx context.Context, tenant tenantctx.TenantID, o repository.Order) (*repository.Order, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return nil, err
	}
	var out *repository.Order
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, fmt.Sprintf(`INSERT INTO %s (table_number, completed) VALUES ($1, FALSE) RETURNING id`, t.orders), o.TableNumber).Scan(&id)
		if err != nil {
			return err
		}
		if err := upsertItems(ctx, tx, t, id, o.Items); err != nil {
			return err
		}
		out, err = loadOrder(ctx, tx, t, id)
		return err
	})
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateOrder(ctx context.Context, tenant tenantctx.TenantID, o repository.Order) (*repository.Order, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return nil, err
	}
	var out *repository.Order
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET table_number = $2 WHERE id = $1`, t.orders), o.ID, o.TableNumber)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		if err := upsertItems(ctx, tx, t, o.ID, o.Items); err != nil {
			return err
		}
		out, err = loadOrder(ctx, tx, t, o.ID)
		return err
	})
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteOrder(ctx context.Context, tenant tenantctx.TenantID, id int64) (bool, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.orders), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CompleteOrder(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return nil, err
	}
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`UPDATE %s SET completed = TRUE WHERE id = $1`, t.orders), id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return loadOrder(ctx, s.pool, t, id)
}

func (s *Store) FindOpenOrderTableNumbers(ctx context.Context, tenant tenantctx.TenantID) (map[int]struct{}, error) {
	t, err := orderTablesFor(tenant)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT DISTINCT table_number FROM %s WHERE NOT completed`, t.orders))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]struct{})
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out[n] = struct{}{}
	}
	return out, rows.Err()
}
