package repository

import (
	"context"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Inventory es una entrada de stock comprada por el negocio.
type Inventory struct {
	ID       int64   `json:"id"`
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Time     string  `json:"time"` // hh:mm AM
}

// InventoryRepository gestiona el inventario de un tenant.
type InventoryRepository interface {
	ListInventory(ctx context.Context, tenant tenantctx.TenantID) ([]Inventory, error)
	SaveInventory(ctx context.Context, tenant tenantctx.TenantID, items []Inventory) ([]Inventory, error)
}
