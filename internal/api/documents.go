package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rafifeedloop/esignature/pkg/models"
)

type createDocumentRequest struct {
	TemplateID  string             `json:"template_id"`
	Title       string             `json:"title"`
	Fields      map[string]any     `json:"fields"`
	SigningMode models.SigningMode `json:"signing_mode"`
}

type addSignerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type setModeRequest struct {
	SigningMode models.SigningMode `json:"signing_mode"`
}

type signRequest struct {
	SignerID  string `json:"signer_id"`
	Signature string `json:"signature"`
}

type declineRequest struct {
	SignerID string `json:"signer_id"`
	Reason   string `json:"reason"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// ListDocuments returns all documents in creation order.
// (GET /api/v1/documents)
func (h *Handler) ListDocuments(c echo.Context) error {
	docs, err := h.Engine.ListDocuments(c.Request().Context())
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"documents": docs})
}

// CreateDocument creates a draft document from a template.
// (POST /api/v1/documents)
func (h *Handler) CreateDocument(c echo.Context) error {
	var req createDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	doc, err := h.Engine.CreateDocument(c.Request().Context(), actor(c), req.TemplateID, req.Title, req.Fields, req.SigningMode)
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"document": doc})
}

// GetDocument returns one document with its signers and audit trail.
// (GET /api/v1/documents/:id)
func (h *Handler) GetDocument(c echo.Context) error {
	doc, err := h.Engine.GetDocument(c.Request().Context(), c.Param("id"))
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}

// GetAuditTrail returns the ordered audit entries for a document.
// (GET /api/v1/documents/:id/audit)
func (h *Handler) GetAuditTrail(c echo.Context) error {
	trail, err := h.Engine.AuditTrail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"audit_trail": trail})
}

// AddSigner appends a signer to a document.
// (POST /api/v1/documents/:id/signers)
func (h *Handler) AddSigner(c echo.Context) error {
	var req addSignerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	doc, err := h.Engine.AddSigner(c.Request().Context(), actor(c), c.Param("id"), req.Name, req.Email, req.Role)
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}

// RemoveSigner removes a signer that has not signed.
// (DELETE /api/v1/documents/:id/signers/:signerID)
func (h *Handler) RemoveSigner(c echo.Context) error {
	doc, err := h.Engine.RemoveSigner(c.Request().Context(), actor(c), c.Param("id"), c.Param("signerID"))
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}

// SetSigningMode switches between sequential and parallel signing.
// (PUT /api/v1/documents/:id/mode)
func (h *Handler) SetSigningMode(c echo.Context) error {
	var req setModeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	doc, err := h.Engine.SetSigningMode(c.Request().Context(), actor(c), c.Param("id"), req.SigningMode)
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}

// SendForSignature moves a draft document to pending.
// (POST /api/v1/documents/:id/send)
func (h *Handler) SendForSignature(c echo.Context) error {
	doc, err := h.Engine.SendForSignature(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}

// SignDocument records a signature for a signer.
// (POST /api/v1/documents/:id/sign)
func (h *Handler) SignDocument(c echo.Context) error {
	var req signRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	doc, err := h.Engine.SignDocument(c.Request().Context(), actor(c), c.Param("id"), req.SignerID, req.Signature)
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"document": doc,
		"message":  "Document signed successfully",
	})
}

// DeclineSignature records a decline for a signer.
// (POST /api/v1/documents/:id/decline)
func (h *Handler) DeclineSignature(c echo.Context) error {
	var req declineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	doc, err := h.Engine.DeclineSignature(c.Request().Context(), actor(c), c.Param("id"), req.SignerID, req.Reason)
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}

// CancelDocument moves a document to the cancelled terminal state.
// (POST /api/v1/documents/:id/cancel)
func (h *Handler) CancelDocument(c echo.Context) error {
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	doc, err := h.Engine.CancelDocument(c.Request().Context(), actor(c), c.Param("id"), req.Reason)
	if err != nil {
		return problem(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document": doc})
}
