package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/prashika-mel/storefront/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)

	products := e.Group("/catalog/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	adminProducts := products.Group("", authMW.RequireAdmin)
	adminProducts.POST("", d.CatalogHandler.CreateProduct)
	adminProducts.PATCH("/:id", d.CatalogHandler.PatchProduct)
	adminProducts.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	cart := e.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:productID", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:productID", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.Clear)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListMyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id/shipping", d.OrderHandler.UpdateShipping)

	adminOrders := e.Group("/orders", authMW.RequireAdmin)
	adminOrders.GET("/all", d.OrderHandler.ListAllOrders)
	adminOrders.PATCH("/:id/status", d.OrderHandler.UpdateStatus)
	adminOrders.DELETE("/:id", d.OrderHandler.DeleteOrder)
}
