package repository

import (
	"context"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// DefaultBusinessID es el ID de la única fila de negocio por tenant.
const DefaultBusinessID int64 = 1

// Business es el perfil del negocio (uno por tenant).
type Business struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	PhoneNo    string `json:"phoneNo"`
	Email      string `json:"email"`
	GSTNumber  string `json:"gstNumber"`
	GSTType    string `json:"gstType"`
	FSSAINo    string `json:"fssaiNo"`
	LicenceNo  string `json:"licenceNo"`
	LogoURL    string `json:"logoUrl"`
	TableCount int    `json:"tableCount"`
}

// BusinessRepository gestiona el perfil del negocio de cada tenant.
type BusinessRepository interface {
	// FindBusiness retorna ErrNotFound si el tenant aún no tiene perfil.
	FindBusiness(ctx context.Context, tenant tenantctx.TenantID) (*Business, error)

	// SaveBusiness hace upsert de la fila DefaultBusinessID.
	SaveBusiness(ctx context.Context, tenant tenantctx.TenantID, b Business) (*Business, error)

	// FindTableCount retorna 0 (sin error) si el negocio no existe.
	FindTableCount(ctx context.Context, tenant tenantctx.TenantID, businessID int64) (int, error)
}
