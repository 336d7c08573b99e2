// Package order contiene los DTOs de órdenes.
package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
)

// OrderRequest es el body de alta y edición de órdenes.
type OrderRequest struct {
	TableNumber int                `json:"tableNumber"`
	Items       []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Validate exige mesa positiva y al menos una línea con cantidad positiva.
func (r OrderRequest) Validate() error {
	if r.TableNumber <= 0 {
		return fmt.Errorf("%w: tableNumber must be positive", repository.ErrInvalidInput)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: order without items", repository.ErrInvalidInput)
	}
	for _, it := range r.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return fmt.Errorf("%w: item needs productId and a positive quantity", repository.ErrInvalidInput)
		}
	}
	return nil
}

// OrderResponse es la orden tal como la ve el cliente.
type OrderResponse struct {
	ID              int64               `json:"id"`
	TableNumber     int                 `json:"tableNumber"`
	Completed       bool                `json:"completed"`
	Items           []OrderItemResponse `json:"items"`
	ItemDescription string              `json:"itemDescription"`
}

type OrderItemResponse struct {
	ProductID int64   `json:"productId"`
	ItemName  string  `json:"itemName"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// FromOrder arma la respuesta. itemDescription agrupa por nombre en el orden
// de primera aparición: "Tea x2, Bun x1".
func FromOrder(o repository.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		TableNumber: o.TableNumber,
		Completed:   o.Completed,
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
	}

	var names []string
	counts := make(map[string]int)
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: it.ProductID,
			ItemName:  it.ItemName,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		if _, seen := counts[it.ItemName]; !seen {
			names = append(names, it.ItemName)
		}
		counts[it.ItemName] += it.Quantity
	}

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + " x" + strconv.Itoa(counts[n])
	}
	resp.ItemDescription = strings.Join(parts, ", ")
	return resp
}
