// Package business contiene los DTOs del negocio del tenant.
package business

import "github.com/dropDatabas3/comanda/internal/domain/repository"

// BusinessRequest es el body de POST/PUT /api/v1/business.
type BusinessRequest struct {
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

// ToBusiness arma la entidad con el ID fijo del negocio.
func (r BusinessRequest) ToBusiness() repository.Business {
	return repository.Business{
		ID:         repository.DefaultBusinessID,
		Name:       r.Name,
		Address:    r.Address,
		PhoneNo:    r.PhoneNo,
		Email:      r.Email,
		GSTNumber:  r.GSTNumber,
		GSTType:    r.GSTType,
		FSSAINo:    r.FSSAINo,
		LicenceNo:  r.LicenceNo,
		LogoURL:    r.LogoURL,
		TableCount: r.TableCount,
	}
}

// LogoRequest es el body de PUT /api/v1/business/logo.
type LogoRequest struct {
	LogoURL string `json:"logoUrl"`
}

// DashboardResponse es lo que la UI muestra en el encabezado.
type DashboardResponse struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	BusinessName string `json:"businessName"`
	LogoURL      string `json:"logoUrl"`
}
