package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListIndustries returns the full industry catalog.
// (GET /api/v1/industries)
func (h *Handler) ListIndustries(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"industries": h.Catalog.Industries()})
}

// ListTemplates returns the templates for an industry, optionally narrowed
// to a use case.
// (GET /api/v1/templates?industry=banking&useCase=loan-processing)
func (h *Handler) ListTemplates(c echo.Context) error {
	industry := c.QueryParam("industry")
	if industry == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required query parameter: industry")
	}
	templates, err := h.Catalog.Templates(industry, c.QueryParam("useCase"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"templates": templates})
}
