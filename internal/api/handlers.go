// Package api contains the HTTP handlers for the e-signature service
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rafifeedloop/esignature/internal/catalog"
	"github.com/rafifeedloop/esignature/internal/engine"
	"github.com/rafifeedloop/esignature/pkg/models"
)

// Handler contains the HTTP handlers for the REST API.
type Handler struct {
	Engine  *engine.Engine
	Catalog *catalog.Catalog
}

// NewHandler creates a new Handler with required dependencies.
func NewHandler(eng *engine.Engine, cat *catalog.Catalog) *Handler {
	return &Handler{Engine: eng, Catalog: cat}
}

// RegisterRoutes mounts all API routes on the given group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/healthz", h.HandleHealth)

	g.GET("/industries", h.ListIndustries)
	g.GET("/templates", h.ListTemplates)

	g.GET("/documents", h.ListDocuments)
	g.POST("/documents", h.CreateDocument)
	g.GET("/documents/:id", h.GetDocument)
	g.GET("/documents/:id/audit", h.GetAuditTrail)
	g.POST("/documents/:id/signers", h.AddSigner)
	g.DELETE("/documents/:id/signers/:signerID", h.RemoveSigner)
	g.PUT("/documents/:id/mode", h.SetSigningMode)
	g.POST("/documents/:id/send", h.SendForSignature)
	g.POST("/documents/:id/sign", h.SignDocument)
	g.POST("/documents/:id/decline", h.DeclineSignature)
	g.POST("/documents/:id/cancel", h.CancelDocument)
}

// HandleHealth returns basic health status (always returns 200 OK)
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "esignature",
		Version:   "1.0.0",
	})
}

// actor derives the caller identity from request headers. The service does
// not authenticate; identity assignment is the presentation layer's job.
func actor(c echo.Context) models.Actor {
	a := models.Actor{
		UserID:    c.Request().Header.Get("X-User-ID"),
		UserName:  c.Request().Header.Get("X-User-Name"),
		IPAddress: c.RealIP(),
	}
	if a.UserID == "" {
		a.UserID = "user_1"
	}
	if a.UserName == "" {
		a.UserName = "Current User"
	}
	return a
}

// problem writes an RFC 7807 Problem Details response mapped from the
// engine's error taxonomy.
func problem(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	title := "Internal Server Error"

	var (
		validationErr *engine.ValidationError
		notFoundErr   *engine.NotFoundError
		stateErr      *engine.InvalidStateError
		orderErr      *engine.OutOfOrderError
		opErr         *engine.InvalidOperationError
	)
	switch {
	case errors.As(err, &validationErr):
		status, title = http.StatusBadRequest, "Validation Failed"
	case errors.As(err, &notFoundErr):
		status, title = http.StatusNotFound, "Not Found"
	case errors.As(err, &stateErr):
		status, title = http.StatusConflict, "Invalid State"
	case errors.As(err, &orderErr):
		status, title = http.StatusConflict, "Out of Order"
	case errors.As(err, &opErr):
		status, title = http.StatusConflict, "Invalid Operation"
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	c.Response().WriteHeader(status)
	return json.NewEncoder(c.Response()).Encode(models.ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   err.Error(),
		Instance: c.Request().URL.Path,
	})
}
