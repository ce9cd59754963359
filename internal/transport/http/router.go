package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/handlers"
	"github.com/soratech/storefront/internal/middleware"
)

type Deps struct {
	Session         *middleware.Session
	CatalogHandler  *handlers.CatalogHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	AccountHandler  *handlers.AccountHandler
	AuthHandler     *handlers.AuthHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1", d.Session.WithSession)

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.GET("/session", d.AuthHandler.Session)
	v1.POST("/modal", d.AuthHandler.SetModalView)

	reset := v1.Group("/reset")
	reset.POST("", d.AuthHandler.StartReset)
	reset.POST("/verify", d.AuthHandler.VerifyResetCode)
	reset.POST("/change-email", d.AuthHandler.ChangeResetEmail)
	reset.POST("/complete", d.AuthHandler.CompleteReset)

	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/categories", d.CatalogHandler.Categories)
	v1.GET("/recently-viewed", d.CatalogHandler.RecentlyViewed)
	v1.GET("/comparison", d.CatalogHandler.Comparison)
	v1.POST("/comparison", d.CartHandler.ToggleComparison)

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	v1.GET("/favorites", d.CartHandler.GetFavorites)
	v1.POST("/favorites", d.CartHandler.ToggleFavorite)

	checkout := v1.Group("/checkout", middleware.RequireLogin)
	checkout.POST("/quote", d.CheckoutHandler.Quote)
	checkout.POST("", d.CheckoutHandler.Submit)
	v1.GET("/delivery-types", d.CheckoutHandler.DeliveryTypes)
	v1.GET("/payment-types", d.CheckoutHandler.PaymentTypes)

	account := v1.Group("/account", middleware.RequireLogin)
	account.GET("/profile", d.AccountHandler.Profile)
	account.PUT("/profile", d.AccountHandler.UpdateProfile)
	account.GET("/orders", d.AccountHandler.Orders)
	account.GET("/addresses", d.AccountHandler.Addresses)
	account.POST("/addresses", d.AccountHandler.CreateAddress)
	account.PUT("/addresses/:id", d.AccountHandler.UpdateAddress)
	account.DELETE("/addresses/:id", d.AccountHandler.DeleteAddress)
	account.POST("/reviews", d.AccountHandler.SubmitReview)

	// Managers see the back-office but only the order desk; the rest of the
	// admin surface needs the admin role.
	manager := v1.Group("/manager", middleware.RequireRole("admin", "manager"))
	manager.GET("/orders", asEntity("orders", d.AdminHandler.List))
	manager.PUT("/orders/:id", asEntity("orders", d.AdminHandler.Update))

	admin := v1.Group("/admin", middleware.RequireRole("admin"))
	admin.GET("/entities", d.AdminHandler.Entities)
	admin.GET("/entities/:entity", d.AdminHandler.List)
	admin.GET("/entities/:entity/deleted-view", d.AdminHandler.DeletedView)
	admin.GET("/entities/:entity/options", d.AdminHandler.Options)
	admin.GET("/entities/:entity/export", d.AdminHandler.ExportCSV)
	admin.POST("/entities/:entity/import", d.AdminHandler.ImportCSV)
	admin.POST("/entities/:entity", d.AdminHandler.Create)
	admin.PUT("/entities/:entity/:id", d.AdminHandler.Update)
	admin.DELETE("/entities/:entity/:id", d.AdminHandler.Delete)
	admin.GET("/audit-logs", d.AdminHandler.AuditLogs)
	admin.POST("/backup", d.AdminHandler.CreateBackup)
}

// asEntity pins the entity path parameter for routes that expose a single
// back-office table under their own prefix.
func asEntity(key string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		names := append(c.ParamNames(), "entity")
		values := append(c.ParamValues(), key)
		c.SetParamNames(names...)
		c.SetParamValues(values...)
		return next(c)
	}
}
