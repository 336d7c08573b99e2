// Package catalog contiene los controllers de productos e inventario.
package catalog

import (
	"net/http"

	dto "github.com/dropDatabas3/comanda/internal/http/dto/catalog"
	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	"github.com/dropDatabas3/comanda/internal/http/helpers"
	svc "github.com/dropDatabas3/comanda/internal/http/services/catalog"
)

// ProductController maneja /api/v1/products.
type ProductController struct {
	service svc.ProductService
}

// NewProductController crea el controller.
func NewProductController(service svc.ProductService) *ProductController {
	return &ProductController{service: service}
}

// List maneja GET /api/v1/products
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	ps, err := c.service.List(r.Context(), tenant)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Products fetched", ps)
}

// Get maneja GET /api/v1/products/{id}
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Get(r.Context(), tenant, id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Product found", p)
}

// Create maneja POST /api/v1/products
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	p, err := c.service.Create(r.Context(), tenant, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Product created", p)
}

// CreateBulk maneja POST /api/v1/products/bulk
func (c *ProductController) CreateBulk(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var reqs []dto.ProductRequest
	if !helpers.ReadJSON(w, r, &reqs) {
		return
	}
	ps, err := c.service.CreateBulk(r.Context(), tenant, reqs)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Products created", ps)
}

// Replace maneja PUT /api/v1/products: reemplaza el catálogo completo.
func (c *ProductController) Replace(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var reqs []dto.ProductRequest
	if !helpers.ReadJSON(w, r, &reqs) {
		return
	}
	ps, err := c.service.Replace(r.Context(), tenant, reqs)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Catalog replaced", ps)
}

// Update maneja PUT /api/v1/products/{id}
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.ProductRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	p, err := c.service.Update(r.Context(), tenant, id, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Product updated", p)
}

// Delete maneja DELETE /api/v1/products/{id}
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), tenant, id); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Product deleted", nil)
}

// InventoryController maneja /api/v1/inventory.
type InventoryController struct {
	service svc.InventoryService
}

// NewInventoryController crea el controller.
func NewInventoryController(service svc.InventoryService) *InventoryController {
	return &InventoryController{service: service}
}

// List maneja GET /api/v1/inventory
func (c *InventoryController) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	items, err := c.service.List(r.Context(), tenant)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Inventory fetched", items)
}

// Create maneja POST /api/v1/inventory. Acepta un objeto o una lista.
func (c *InventoryController) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var reqs inventoryBody
	if !helpers.ReadJSON(w, r, &reqs) {
		return
	}
	items, err := c.service.CreateBulk(r.Context(), tenant, reqs)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Inventory saved", items)
}

// ClearCache maneja DELETE /api/v1/inventory/cache
func (c *InventoryController) ClearCache(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	c.service.ClearCache(r.Context(), tenant)
	helpers.WriteSuccess(w, http.StatusOK, "Inventory cache cleared", nil)
}
