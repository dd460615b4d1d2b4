package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/handler"
)

// RegisterCheckout registers the checkout draft routes on an authenticated
// group.  Drafts are scoped to the signed-in user by the handlers.
func RegisterCheckout(g *echo.Group, h *handler.CheckoutHandler) {
	d := g.Group("/checkout/drafts")
	d.POST("", h.Create)
	d.GET("/:id", h.Get)
	d.DELETE("/:id", h.Delete)
	d.POST("/:id/rooms", h.AddRoom)
	d.DELETE("/:id/rooms/:roomId", h.RemoveRoom)
	d.PUT("/:id/stay", h.SetStay)
	d.PUT("/:id/rooms/:roomId/extras", h.SetExtras)
	d.PUT("/:id/guest", h.SetGuest)
	d.PUT("/:id/payment", h.SetPayment)
	d.PUT("/:id/promotion", h.SetPromotion)
	d.POST("/:id/advance", h.Advance)
	d.POST("/:id/back", h.Back)
	d.POST("/:id/submit", h.Submit)
}
