// Package catalog contiene los DTOs de productos e inventario.
package catalog

import (
	"fmt"
	"strings"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
)

// ProductRequest es el body de alta y edición de productos.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Validate exige nombre y precio no negativo.
func (r ProductRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: product name is required", repository.ErrInvalidInput)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: product price must not be negative", repository.ErrInvalidInput)
	}
	return nil
}

func (r ProductRequest) ToProduct() repository.Product {
	return repository.Product{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Price:       r.Price,
	}
}

// InventoryRequest es una entrada de stock. Fecha y hora las pone el servidor.
type InventoryRequest struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

func (r InventoryRequest) Validate() error {
	if strings.TrimSpace(r.ItemName) == "" {
		return fmt.Errorf("%w: item name is required", repository.ErrInvalidInput)
	}
	if r.Quantity < 0 || r.Price < 0 {
		return fmt.Errorf("%w: quantity and price must not be negative", repository.ErrInvalidInput)
	}
	return nil
}
