// Package order contiene el controller de órdenes.
package order

import (
	"net/http"

	dto "github.com/dropDatabas3/comanda/internal/http/dto/order"
	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	"github.com/dropDatabas3/comanda/internal/http/helpers"
	svc "github.com/dropDatabas3/comanda/internal/http/services/order"
)

// OrderController maneja /api/v1/orders.
type OrderController struct {
	service svc.OrderService
}

// NewOrderController crea el controller.
func NewOrderController(service svc.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create maneja POST /api/v1/orders
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	var req dto.OrderRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	o, err := c.service.Create(r.Context(), tenant, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Order created", dto.FromOrder(*o))
}

// Get maneja GET /api/v1/orders/{id}
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	o, err := c.service.Get(r.Context(), tenant, id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Order found", dto.FromOrder(*o))
}

// Update maneja PUT /api/v1/orders/{id}
func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.OrderRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	o, err := c.service.Update(r.Context(), tenant, id, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Order updated", dto.FromOrder(*o))
}

// Delete maneja DELETE /api/v1/orders/{id}
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	deleted, err := c.service.Delete(r.Context(), tenant, id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if !deleted {
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("order not found"))
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Order deleted", nil)
}

// Complete maneja POST /api/v1/orders/{id}/complete
func (c *OrderController) Complete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := helpers.Tenant(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathInt64(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	o, err := c.service.Complete(r.Context(), tenant, id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Order completed", dto.FromOrder(*o))
}
