// Package services agrupa los services HTTP. Es el "composition root" de
// services: cada dominio vive en su sub-paquete con su propio Deps y acá se
// arma el agregador que consumen los controllers.
package services

import (
	"time"

	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/http/services/auth"
	"github.com/dropDatabas3/comanda/internal/http/services/business"
	"github.com/dropDatabas3/comanda/internal/http/services/catalog"
	"github.com/dropDatabas3/comanda/internal/http/services/order"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/kot"
	"github.com/dropDatabas3/comanda/internal/tablestatus"
)

// Deps contiene las dependencias compartidas por todos los services.
type Deps struct {
	Store  repository.Store
	Cache  *tenantcache.Coordinator
	Tables *tablestatus.Aggregator
	Kot    *kot.Distributor
	Gate   *authgate.Gate
	// Now sella el inventario; nil usa time.Now.
	Now func() time.Time
}

// Services agrupa todos los services.
type Services struct {
	Auth      auth.AuthService
	Staff     auth.StaffService
	Business  business.BusinessService
	Products  catalog.ProductService
	Inventory catalog.InventoryService
	Orders    order.OrderService
}

// New crea el agregador de services.
func New(d Deps) Services {
	return Services{
		Auth:     auth.NewAuthService(auth.Deps{Staff: d.Store, Gate: d.Gate}),
		Staff:    auth.NewStaffService(d.Store),
		Business: business.NewBusinessService(business.Deps{Store: d.Store, Cache: d.Cache}),
		Products: catalog.NewProductService(catalog.ProductDeps{Store: d.Store, Cache: d.Cache}),
		Inventory: catalog.NewInventoryService(catalog.InventoryDeps{
			Store: d.Store,
			Cache: d.Cache,
			Now:   d.Now,
		}),
		Orders: order.NewOrderService(order.Deps{
			Store:  d.Store,
			Cache:  d.Cache,
			Tables: d.Tables,
			Kot:    d.Kot,
		}),
	}
}
