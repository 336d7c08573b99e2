// Package controllers agrupa los controllers HTTP de todos los dominios.
package controllers

import (
	"time"

	"github.com/dropDatabas3/comanda/internal/http/controllers/auth"
	"github.com/dropDatabas3/comanda/internal/http/controllers/business"
	"github.com/dropDatabas3/comanda/internal/http/controllers/catalog"
	"github.com/dropDatabas3/comanda/internal/http/controllers/health"
	"github.com/dropDatabas3/comanda/internal/http/controllers/kitchen"
	"github.com/dropDatabas3/comanda/internal/http/controllers/order"
	"github.com/dropDatabas3/comanda/internal/http/services"
	"github.com/dropDatabas3/comanda/internal/kot"
	"github.com/dropDatabas3/comanda/internal/tablestatus"
)

// Deps contiene lo que los controllers usan además de los services.
type Deps struct {
	Tables       *tablestatus.Aggregator
	Kot          *kot.Distributor
	StoreHealth  health.Checker
	CacheHealth  health.Checker
	KotHeartbeat time.Duration
}

// Controllers agrupa todos los controllers.
type Controllers struct {
	Auth      *auth.AuthController
	Business  *business.BusinessController
	Products  *catalog.ProductController
	Inventory *catalog.InventoryController
	Orders    *order.OrderController
	Kitchen   *kitchen.KotController
	Health    *health.HealthController
}

// New crea el agregador de controllers.
func New(s services.Services, d Deps) *Controllers {
	return &Controllers{
		Auth:      auth.NewAuthController(s.Auth, s.Staff),
		Business:  business.NewBusinessController(s.Business, d.Tables),
		Products:  catalog.NewProductController(s.Products),
		Inventory: catalog.NewInventoryController(s.Inventory),
		Orders:    order.NewOrderController(s.Orders),
		Kitchen:   kitchen.NewKotController(d.Kot, d.KotHeartbeat),
		Health:    health.NewHealthController(d.StoreHealth, d.CacheHealth),
	}
}
