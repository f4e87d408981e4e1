// Package router đăng ký các route thuộc domain catalog: Product, Store, Health.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	cataloghdl "price_pulse/internal/api/catalog/handler"
	apirouter "price_pulse/internal/api/router"
)

// Register đăng ký tất cả route catalog lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	productHandler, err := cataloghdl.NewProductHandler()
	if err != nil {
		return fmt.Errorf("create product handler: %w", err)
	}
	apirouter.RegisterRouteWithMiddleware(v1, "/products", "GET", "/search", nil, productHandler.HandleSearch)
	apirouter.RegisterRouteWithMiddleware(v1, "/products", "GET", "/trending", nil, productHandler.HandleTrending)
	apirouter.RegisterRouteWithMiddleware(v1, "/products", "POST", "/upsert-price", nil, productHandler.HandleUpsertPrice)
	apirouter.RegisterRouteWithMiddleware(v1, "/products", "GET", "/:id/price-history", nil, productHandler.HandlePriceHistory)
	// Route theo định danh đăng ký cuối để không che các route tĩnh phía trên
	apirouter.RegisterRouteWithMiddleware(v1, "/products", "GET", "/:id", nil, productHandler.HandleFetch)

	storeHandler, err := cataloghdl.NewStoreHandler()
	if err != nil {
		return fmt.Errorf("create store handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/stores", storeHandler, apirouter.ReadOnlyConfig)

	apirouter.RegisterRouteWithMiddleware(v1, "", "GET", "/health", nil, cataloghdl.HandleHealth)

	return nil
}
