package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medicore/inventario-medico-api/internal/application/auth"
	"github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/application/catalog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CatalogUC  *catalog.CatalogUseCase
	CartUC     *cart.CartUseCase
	DispenseUC *cart.DispenseUseCase
	VoucherUC  *cart.VoucherUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/login/rfid", authHandler.LoginRFID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de productos (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Get("/available", productHandler.ListAvailable)
	products.Get("/search", productHandler.Search)
	products.Get("/categories", productHandler.Categories)
	products.Get("/category/:code", productHandler.ListByCategory)
	products.Get("/:id", productHandler.GetByID)

	// Carrito de dispensación (protegido)
	carts := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC, deps.DispenseUC, deps.VoucherUC)
	carts.Post("/add", cartHandler.AddItem)
	carts.Get("/", cartHandler.GetActive)
	carts.Get("/can-dispense", cartHandler.CanDispense)
	carts.Put("/item/:id/quantity", cartHandler.UpdateItemQuantity)
	carts.Delete("/item/:id", cartHandler.RemoveItem)
	carts.Delete("/clear", cartHandler.ClearCart)
	carts.Post("/dispense", cartHandler.Dispense)
	carts.Get("/:id/voucher", cartHandler.DownloadVoucher)
}
