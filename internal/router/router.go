// Package router registers the gateway's HTTP routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/handler"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
)

// Handlers groups every handler the routes point at.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Checkout *handler.CheckoutHandler
	Booking  *handler.BookingHandler
	Edit     *handler.EditHandler
	Shift    *handler.ShiftHandler
	Report   *handler.ReportHandler
	Admin    *handler.AdminHandler
}

// Options carries the middleware shared by route groups.  RateLimit runs
// after authentication so the user-based key strategies see the user.
type Options struct {
	JWTSecret   string
	RateLimit   echo.MiddlewareFunc
	Cache       echo.MiddlewareFunc
	ReportCache echo.MiddlewareFunc
}

func pass(next echo.HandlerFunc) echo.HandlerFunc { return next }

func (o Options) withDefaults() Options {
	if o.RateLimit == nil {
		o.RateLimit = pass
	}
	if o.Cache == nil {
		o.Cache = pass
	}
	if o.ReportCache == nil {
		o.ReportCache = pass
	}
	return o
}

// Register wires all routes onto e.
func Register(e *echo.Echo, h Handlers, opt Options) {
	opt = opt.withDefaults()
	e.GET("/healthz", h.Health.Health)

	RegisterPublic(e, h, opt)

	auth := e.Group("/v1", middleware.JWTAuth(opt.JWTSecret), opt.RateLimit)
	auth.GET("/me", h.Auth.Me)
	RegisterCheckout(auth, h.Checkout)

	RegisterStaff(auth, h)
	RegisterManagement(auth, h, opt)
}

// RegisterPublic registers the endpoints guests use without signing in.
// Catalog reads go through the response cache.
func RegisterPublic(e *echo.Echo, h Handlers, opt Options) {
	g := e.Group("/v1", opt.RateLimit)

	a := g.Group("/auth")
	a.POST("/login", h.Auth.Login)
	a.POST("/refresh", h.Auth.Refresh)
	a.POST("/logout", h.Auth.Logout)

	g.GET("/rooms/search", h.Catalog.SearchRooms)
	g.GET("/branches", h.Catalog.Branches, opt.Cache)
	g.GET("/services", h.Catalog.Services, opt.Cache)
	g.GET("/promotions", h.Catalog.Promotions, opt.Cache)
	g.GET("/payments/vnpay/return", handler.VNPayReturn)
}
