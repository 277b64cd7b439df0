// Package api assembles the HTTP surface: public storefront routes and the
// admin group behind the role check.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shopcore/backoffice/app/cart"
	"github.com/shopcore/backoffice/app/catalog"
	"github.com/shopcore/backoffice/app/checkout"
	"github.com/shopcore/backoffice/app/discounts"
	"github.com/shopcore/backoffice/app/orders"
	"github.com/shopcore/backoffice/app/products"
	"github.com/shopcore/backoffice/app/reviews"
	"github.com/shopcore/backoffice/app/shipping"
	"github.com/shopcore/backoffice/app/wishlist"
	"github.com/shopcore/backoffice/web"
)

type Handlers struct {
	Catalog   *catalog.CatalogHandler
	Cart      *cart.Handler
	Checkout  *checkout.Handler
	Orders    *orders.Handler
	Discounts *discounts.DiscountHandler
	Shipping  *shipping.RateHandler
	Products  *products.Handler
	Reviews   *reviews.Handler
	Wishlist  *wishlist.Handler
}

// NewRouter wires every handler onto one chi router. The catalog and
// shipping lookup are anonymous; everything else requires a forwarded caller
// identity, and /admin additionally requires the admin role.
func NewRouter(logger *zap.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(web.RequestLogger(logger))

	r.Get("/catalog", h.Catalog.HandleGet)
	r.Get("/catalog/{uid}", h.Catalog.HandleGetProduct)
	r.Get("/catalog/{uid}/reviews", h.Reviews.HandleListForProduct)
	r.Get("/shipping-rates", h.Shipping.HandleLookup)

	r.Group(func(r chi.Router) {
		r.Use(web.Identity)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.HandleGet)
			r.Delete("/", h.Cart.HandleClear)
			r.Get("/totals", h.Cart.HandleTotals)
			r.Post("/items", h.Cart.HandleAddItem)
			r.Patch("/items/{product_uid}", h.Cart.HandleUpdateItem)
			r.Delete("/items/{product_uid}", h.Cart.HandleRemoveItem)
		})

		r.Route("/checkouts", func(r chi.Router) {
			r.Post("/", h.Checkout.HandleCreate)
			r.Get("/", h.Checkout.HandleList)
			r.Get("/{uid}", h.Checkout.HandleGet)
			r.Delete("/{uid}", h.Checkout.HandleCancel)
		})

		r.Post("/products/{product_uid}/reviews", h.Reviews.HandleCreate)
		r.Patch("/reviews/{review_uid}", h.Reviews.HandleUpdate)
		r.Delete("/reviews/{review_uid}", h.Reviews.HandleDelete)

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.HandleList)
			r.Post("/", h.Wishlist.HandleAdd)
			r.Get("/{product_uid}", h.Wishlist.HandleCheck)
			r.Delete("/{product_uid}", h.Wishlist.HandleRemove)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(web.RequireAdmin)

			r.Get("/orders", h.Orders.HandleList)
			r.Get("/orders/{uid}", h.Orders.HandleGet)
			r.Patch("/orders/{uid}", h.Orders.HandleUpdateStatus)

			r.Get("/discounts", h.Discounts.HandleGetAll)
			r.Post("/discounts", h.Discounts.HandleCreate)

			r.Get("/shipping-rates", h.Shipping.HandleGetAll)
			r.Post("/shipping-rates", h.Shipping.HandleCreate)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Products.HandleList)
				r.Post("/", h.Products.HandleCreate)
				r.Get("/{uid}", h.Products.HandleGet)
				r.Patch("/{uid}", h.Products.HandleUpdate)
				r.Delete("/{uid}", h.Products.HandleDelete)
				r.Post("/{uid}/variant-groups", h.Products.HandleCreateVariantGroup)
				r.Delete("/{uid}/variant-groups/{group_id}", h.Products.HandleDeleteVariantGroup)
				r.Patch("/{uid}/variant-choices/{choice_id}", h.Products.HandleUpdateVariantChoice)
				r.Delete("/{uid}/variant-choices/{choice_id}", h.Products.HandleDeleteVariantChoice)
			})
		})
	})

	return r
}
