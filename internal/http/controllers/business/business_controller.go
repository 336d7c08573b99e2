// Package business contiene los controllers del negocio y del estado de mesas.
package business

import (
	"net/http"

	dto "github.com/dropDatabas3/comanda/internal/http/dto/business"
	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	"github.com/dropDatabas3/comanda/internal/http/helpers"
	svc "github.com/dropDatabas3/comanda/internal/http/services/business"
	"github.com/dropDatabas3/comanda/internal/tablestatus"
)

// BusinessController maneja /api/v1/business y /api/v1/table-status.
type BusinessController struct {
	service svc.BusinessService
	tables  *tablestatus.Aggregator
}

// NewBusinessController crea el controller.
func NewBusinessController(service svc.BusinessService, tables *tablestatus.Aggregator) *BusinessController {
	return &BusinessController{service: service, tables: tables}
}

// Get maneja GET /api/v1/business
func (c *BusinessController) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	b, err := c.service.Get(r.Context(), tenant)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Business found", b)
}

// Save maneja POST y PUT /api/v1/business
func (c *BusinessController) Save(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var req dto.BusinessRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	b, err := c.service.SaveOrUpdate(r.Context(), tenant, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Business saved successfully", b)
}

// UpdateLogo maneja PUT /api/v1/business/logo
func (c *BusinessController) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var req dto.LogoRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	b, err := c.service.UpdateLogo(r.Context(), tenant, req.LogoURL)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Business logo updated successfully", b)
}

// Dashboard maneja GET /api/v1/business/dashboard
func (c *BusinessController) Dashboard(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	p, ok := helpers.Principal(w, r)
	if !ok {
		return
	}
	d, err := c.service.Dashboard(r.Context(), tenant, p.Username, p.Role)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Dashboard details fetched successfully", d)
}

// TableStatus maneja GET /api/v1/table-status
func (c *BusinessController) TableStatus(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	snaps, err := c.tables.GetAllTableStatus(r.Context(), tenant)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Table status fetched", snaps)
}

// TableOccupied maneja GET /api/v1/table-status/{tableNumber}
func (c *BusinessController) TableOccupied(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	n, err := helpers.PathInt(r, "tableNumber")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	occupied, err := c.tables.IsTableOccupied(r.Context(), tenant, n)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Table status fetched", tablestatus.Snapshot{TableNumber: n, Occupied: occupied})
}
