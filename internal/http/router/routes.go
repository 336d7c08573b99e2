package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/http/controllers"
	mw "github.com/dropDatabas3/comanda/internal/http/middlewares"
)

var (
	adminOnly = mw.RequireRole(repository.RoleAdmin)
	managers  = mw.RequireRole(repository.RoleAdmin, repository.RoleStaff)
)

func registerAuthRoutes(r chi.Router, c *controllers.Controllers) {
	r.Post("/auth/logout", c.Auth.Logout)
	r.Route("/staff", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/", c.Auth.ListStaff)
		r.Post("/", c.Auth.CreateStaff)
		r.Get("/{username}", c.Auth.GetStaff)
		r.Delete("/{username}", c.Auth.DeleteStaff)
	})
}

func registerBusinessRoutes(r chi.Router, c *controllers.Controllers) {
	r.Route("/business", func(r chi.Router) {
		r.Get("/", c.Business.Get)
		r.Get("/dashboard", c.Business.Dashboard)
		r.With(managers).Post("/", c.Business.Save)
		r.With(managers).Put("/", c.Business.Save)
		r.With(adminOnly).Put("/logo", c.Business.UpdateLogo)
	})
	r.Get("/table-status", c.Business.TableStatus)
	r.Get("/table-status/{tableNumber}", c.Business.TableOccupied)
}

func registerCatalogRoutes(r chi.Router, c *controllers.Controllers) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", c.Products.List)
		r.Get("/{id}", c.Products.Get)
		r.Group(func(r chi.Router) {
			r.Use(managers)
			r.Post("/", c.Products.Create)
			r.Post("/bulk", c.Products.CreateBulk)
			r.Put("/", c.Products.Replace)
			r.Put("/{id}", c.Products.Update)
			r.Delete("/{id}", c.Products.Delete)
		})
	})
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", c.Inventory.List)
		r.With(managers).Post("/", c.Inventory.Create)
		r.With(managers).Delete("/cache", c.Inventory.ClearCache)
	})
}

func registerOrderRoutes(r chi.Router, c *controllers.Controllers) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", c.Orders.Create)
		r.Get("/{id}", c.Orders.Get)
		r.Put("/{id}", c.Orders.Update)
		r.Delete("/{id}", c.Orders.Delete)
		r.Post("/{id}/complete", c.Orders.Complete)
	})
}

func registerKitchenRoutes(r chi.Router, c *controllers.Controllers) {
	r.Route("/kot", func(r chi.Router) {
		r.Get("/pending", c.Kitchen.Pending)
		r.Get("/completed", c.Kitchen.Completed)
		r.Post("/orders/{id}/complete", c.Kitchen.MarkCompleted)
		r.Get("/stream", c.Kitchen.Stream)
	})
}
