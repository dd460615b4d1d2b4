package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/report"
)

type ReportHandler struct {
	Reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// Dashboard handles GET /v1/reports/dashboard?branchId=&from=&to=.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.Reports.Dashboard(c.Request().Context(), middleware.AccessToken(c), c.QueryParam("branchId"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
