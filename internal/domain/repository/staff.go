package repository

import (
	"context"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Roles de staff.
const (
	RoleAdmin   = "ADMIN"
	RoleStaff   = "STAFF"
	RoleWaiter  = "WAITER"
	RoleKitchen = "KITCHEN"
)

// StaffUser vive en la partición master. Tenant vacío = admin master.
type StaffUser struct {
	Username        string
	PasswordHash    string
	Role            string
	Tenant          tenantctx.TenantID
	TokenGeneration int64
}

// StaffRepository gestiona los usuarios de staff (partición master).
type StaffRepository interface {
	FindStaffUser(ctx context.Context, username string) (*StaffUser, error)
	// ListStaffUsers retorna los usuarios del tenant ordenados por username.
	ListStaffUsers(ctx context.Context, tenant tenantctx.TenantID) ([]StaffUser, error)
	// CreateStaffUser solo inserta. Retorna ErrConflict si el username ya
	// existe, en cualquier tenant.
	CreateStaffUser(ctx context.Context, u StaffUser) error
	// SaveStaffUser hace upsert. Lo usa el rehash de password en el login.
	SaveStaffUser(ctx context.Context, u StaffUser) error
	DeleteStaffUser(ctx context.Context, username string) (bool, error)

	// BumpTokenGeneration incrementa la generación y retorna el nuevo valor.
	// Las credenciales emitidas con una generación anterior dejan de ser válidas.
	BumpTokenGeneration(ctx context.Context, username string) (int64, error)
}
