package repository

import (
	"context"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Product es un ítem del catálogo.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// ProductRepository gestiona el catálogo de un tenant.
type ProductRepository interface {
	ListProducts(ctx context.Context, tenant tenantctx.TenantID) ([]Product, error)
	FindProduct(ctx context.Context, tenant tenantctx.TenantID, id int64) (*Product, error)

	// SaveProduct crea (ID == 0) o actualiza un producto. Actualizar uno
	// inexistente retorna ErrNotFound.
	SaveProduct(ctx context.Context, tenant tenantctx.TenantID, p Product) (*Product, error)
	SaveProducts(ctx context.Context, tenant tenantctx.TenantID, ps []Product) ([]Product, error)
	DeleteProduct(ctx context.Context, tenant tenantctx.TenantID, id int64) (bool, error)

	// ReplaceProducts reemplaza el catálogo completo de forma atómica.
	ReplaceProducts(ctx context.Context, tenant tenantctx.TenantID, ps []Product) ([]Product, error)
}
