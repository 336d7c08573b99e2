package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

const businessColumns = `id, name, address, phone_no, email, gst_number, gst_type, fssai_no, licence_no, logo_url, table_count`

func scanBusiness(row pgx.Row) (*repository.Business, error) {
	var b repository.Business
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.PhoneNo, &b.Email, &b.GSTNumber,
		&b.GSTType, &b.FSSAINo, &b.LicenceNo, &b.LogoURL, &b.TableCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) FindBusiness(ctx context.Context, tenant tenantctx.TenantID) (*repository.Business, error) {
	tbl, err := table(tenant, "business")
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, businessColumns, tbl)
	return scanBusiness(s.pool.QueryRow(ctx, q, repository.DefaultBusinessID))
}

func (s *Store) SaveBusiness(ctx context.Context, tenant tenantctx.TenantID, b repository.Business) (*repository.Business, error) {
	tbl, err := table(tenant, "business")
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, phone_no = EXCLUDED.phone_no,
			email = EXCLUDED.email, gst_number = EXCLUDED.gst_number, gst_type = EXCLUDED.gst_type,
			fssai_no = EXCLUDED.fssai_no, licence_no = EXCLUDED.licence_no,
			logo_url = EXCLUDED.logo_url, table_count = EXCLUDED.table_count
		RETURNING %s`, tbl, businessColumns, businessColumns)
	return scanBusiness(s.pool.QueryRow(ctx, q, repository.DefaultBusinessID, b.Name, b.Address,
		b.PhoneNo, b.Email, b.GSTNumber, b.GSTType, b.FSSAINo, b.LicenceNo, b.LogoURL, b.TableCount))
}

func (s *Store) FindTableCount(ctx context.Context, tenant tenantctx.TenantID, businessID int64) (int, error) {
	tbl, err := table(tenant, "business")
	if err != nil {
		return 0, err
	}
	var n int
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT table_count FROM %s WHERE id = $1`, tbl), businessID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
