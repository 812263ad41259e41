package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/handlers"
	"github.com/andriev/inventory-api/internal/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
	AuthMW         *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/login", d.AuthHandler.Login)
	e.GET("/me", d.AuthHandler.Me)
	e.DELETE("/logout", d.AuthHandler.Logout)

	users := e.Group("/users", d.AuthMW.VerifyUser, d.AuthMW.AdminOnly)

	users.GET("", d.UserHandler.GetUsers)
	users.GET("/:id", d.UserHandler.GetUserByID)
	users.POST("", d.UserHandler.CreateUser)
	users.PATCH("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	products := e.Group("/products", d.AuthMW.VerifyUser)

	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProductByID)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PATCH("/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.Search)
	}
}
