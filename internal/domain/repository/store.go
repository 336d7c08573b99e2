package repository

import "context"

// TenantStore agrupa los repositorios de la partición de un tenant.
type TenantStore interface {
	BusinessRepository
	ProductRepository
	InventoryRepository
	OrderRepository
}

// Store es el record store completo.
type Store interface {
	TenantStore
	StaffRepository

	Ping(ctx context.Context) error
	Close() error
}
