package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// RegisterStaff registers booking lookups, booking edits and shift scheduling on an
// authenticated group, for staff, managers and admins.
func RegisterStaff(g *echo.Group, h Handlers) {
	staffOnly := middleware.RequireRole(model.RoleStaff, model.RoleManager, model.RoleAdmin)

	b := g.Group("/bookings", staffOnly)
	b.GET("", h.Booking.List)
	b.GET("/:id", h.Booking.Get)
	b.POST("/:id/cancel", h.Booking.Cancel)
	b.GET("/:id/edits", h.Edit.History)
	b.POST("/:id/edits", h.Edit.Open)

	e := g.Group("/edits/:id", staffOnly)
	e.GET("", h.Edit.Get)
	e.DELETE("", h.Edit.Discard)
	e.POST("/rooms/:bookingRoomId/swap", h.Edit.SwapRoom)
	e.POST("/services", h.Edit.AddService)
	e.PATCH("/services/:serviceId", h.Edit.UpdateService)
	e.DELETE("/services/:serviceId", h.Edit.DeleteService)
	e.PUT("/details", h.Edit.SetDetails)
	e.POST("/commit", h.Edit.Commit)

	s := g.Group("/shifts", staffOnly)
	s.GET("", h.Shift.List)
	s.GET("/calendar", h.Shift.Calendar)
	s.POST("", h.Shift.Create)
	s.POST("/:id/assignments", h.Shift.Assign)
	s.DELETE("/assignments/:id", h.Shift.Cancel)
}

// RegisterManagement registers reports and the admin listings for managers
// and admins.
func RegisterManagement(g *echo.Group, h Handlers, opt Options) {
	managers := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	g.GET("/reports/dashboard", h.Report.Dashboard, managers, opt.ReportCache)
	a := g.Group("/admin", managers)
	a.GET("/users", h.Admin.Users)
	a.GET("/roles", h.Admin.Roles)
}
