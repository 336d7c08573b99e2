package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Order es una orden de mesa. Abierta mientras Completed == false.
type Order struct {
	ID          int64       `json:"id"`
	TableNumber int         `json:"tableNumber"`
	Completed   bool        `json:"completed"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// OrderItem es una línea de la orden. ItemName y Price se copian del
// producto al crear la línea.
type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	ItemName  string  `json:"itemName"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderRepository gestiona las órdenes de un tenant.
type OrderRepository interface {
	FindOrder(ctx context.Context, tenant tenantctx.TenantID, id int64) (*Order, error)
	ExistsOpenOrderForTable(ctx context.Context, tenant tenantctx.TenantID, table int) (bool, error)

	// CreateOrder verifica que la mesa esté libre e inserta en una sola
	// operación atómica. Retorna ErrConflict si la mesa está ocupada.
	CreateOrder(ctx context.Context, tenant tenantctx.TenantID, o Order) (*Order, error)

	// UpdateOrder reemplaza mesa y líneas. Las líneas con ID 0 se insertan.
	UpdateOrder(ctx context.Context, tenant tenantctx.TenantID, o Order) (*Order, error)
	DeleteOrder(ctx context.Context, tenant tenantctx.TenantID, id int64) (bool, error)
	CompleteOrder(ctx context.Context, tenant tenantctx.TenantID, id int64) (*Order, error)

	// FindOpenOrderTableNumbers retorna las mesas con al menos una orden abierta.
	FindOpenOrderTableNumbers(ctx context.Context, tenant tenantctx.TenantID) (map[int]struct{}, error)
}
