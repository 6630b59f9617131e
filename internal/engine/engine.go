// Package engine implements the document signing workflow. It is the
// exclusive authority over Document and Signer mutation: every state change
// goes through one of its operations, is validated against the state
// machines, and is committed atomically together with its audit entries.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/rafifeedloop/esignature/internal/audit"
	"github.com/rafifeedloop/esignature/internal/catalog"
	"github.com/rafifeedloop/esignature/internal/logging"
	"github.com/rafifeedloop/esignature/internal/store"
	"github.com/rafifeedloop/esignature/pkg/models"
)

// TemplateCatalog supplies template definitions and validates field values
// against them. The engine treats template ids as opaque references.
type TemplateCatalog interface {
	Find(templateID string) (*models.Template, error)
	ValidateFields(tpl *models.Template, values map[string]any) error
}

// Engine owns all document and signer mutation.
type Engine struct {
	store    store.DocumentStore
	catalog  TemplateCatalog
	recorder *audit.Recorder
	logger   *logging.Logger
	now      func() time.Time

	docsCreated   metric.Int64Counter
	sigsRecorded  metric.Int64Counter
	docsCompleted metric.Int64Counter
}

// New creates an Engine backed by the given store and template catalog.
func New(st store.DocumentStore, cat TemplateCatalog, logger *logging.Logger) *Engine {
	e := &Engine{
		store:    st,
		catalog:  cat,
		recorder: audit.NewRecorder(),
		logger:   logger,
		now:      time.Now,
	}
	meter := otel.Meter("github.com/rafifeedloop/esignature/internal/engine")
	var err error
	if e.docsCreated, err = meter.Int64Counter("esignature.documents.created"); err != nil {
		logger.Warn("failed to create documents.created counter: %v", err)
	}
	if e.sigsRecorded, err = meter.Int64Counter("esignature.signatures.recorded"); err != nil {
		logger.Warn("failed to create signatures.recorded counter: %v", err)
	}
	if e.docsCompleted, err = meter.Int64Counter("esignature.documents.completed"); err != nil {
		logger.Warn("failed to create documents.completed counter: %v", err)
	}
	return e
}

// WithClock overrides the engine's clock. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	e.recorder = audit.NewRecorderWithClock(now)
	return e
}

// CreateDocument creates a draft document from a template selection and
// filled field values, with an empty signer sequence and a "Document
// Created" audit entry.
func (e *Engine) CreateDocument(ctx context.Context, actor models.Actor, templateID, title string, fields map[string]any, mode models.SigningMode) (*models.Document, error) {
	if templateID == "" {
		return nil, &ValidationError{Field: "template_id", Reason: "must not be empty"}
	}
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !mode.Valid() {
		return nil, &ValidationError{Field: "signing_mode", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}

	tpl, err := e.catalog.Find(templateID)
	if err != nil {
		return nil, &ValidationError{Field: "template_id", Reason: fmt.Sprintf("unknown template %q", templateID)}
	}
	if err := e.catalog.ValidateFields(tpl, fields); err != nil {
		var fe *catalog.FieldError
		if errors.As(err, &fe) {
			return nil, &ValidationError{Field: fe.FieldID, Reason: fe.Reason}
		}
		return nil, &ValidationError{Reason: err.Error()}
	}

	now := e.now()
	doc := &models.Document{
		ID:          "doc_" + uuid.New().String(),
		TemplateID:  templateID,
		Title:       title,
		Status:      models.DocumentStatusDraft,
		Fields:      fields,
		SigningMode: mode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.recorder.Append(doc, models.ActionDocumentCreated, actor,
		fmt.Sprintf("Document %q created from template %s", title, templateID)); err != nil {
		return nil, err
	}
	if err := e.store.Insert(ctx, doc); err != nil {
		return nil, err
	}

	e.docsCreated.Add(ctx, 1)
	e.logger.Info("document created: id=%s template=%s mode=%s", doc.ID, templateID, mode)
	return doc.Clone(), nil
}

// AddSigner appends a pending signer to the document's signer sequence.
func (e *Engine) AddSigner(ctx context.Context, actor models.Actor, docID, name, email, role string) (*models.Document, error) {
	if name == "" || email == "" {
		return nil, &ValidationError{Field: "signer", Reason: "name and email are required"}
	}
	return e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status.Terminal() {
			return &InvalidStateError{Operation: "add signer", State: string(d.Status)}
		}
		signer := models.Signer{
			ID:     "signer_" + uuid.New().String(),
			Name:   name,
			Email:  email,
			Role:   role,
			Status: models.SignerStatusPending,
		}
		d.Signers = append(d.Signers, signer)
		d.UpdatedAt = e.now()
		return e.recorder.Append(d, models.ActionSignerAdded, actor,
			fmt.Sprintf("Added signer %s (%s)", name, email))
	})
}

// RemoveSigner removes a signer that has not yet signed.
func (e *Engine) RemoveSigner(ctx context.Context, actor models.Actor, docID, signerID string) (*models.Document, error) {
	return e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status.Terminal() {
			return &InvalidStateError{Operation: "remove signer", State: string(d.Status)}
		}
		signer := d.FindSigner(signerID)
		if signer == nil {
			return &NotFoundError{Kind: "signer", ID: signerID}
		}
		if signer.Status == models.SignerStatusSigned {
			return &InvalidOperationError{Reason: "signed signers are immutable and may not be removed"}
		}
		name, email := signer.Name, signer.Email
		for i := range d.Signers {
			if d.Signers[i].ID == signerID {
				d.Signers = append(d.Signers[:i], d.Signers[i+1:]...)
				break
			}
		}
		d.UpdatedAt = e.now()
		return e.recorder.Append(d, models.ActionSignerRemoved, actor,
			fmt.Sprintf("Removed signer %s (%s)", name, email))
	})
}

// SetSigningMode changes the signing mode. Allowed only while the document
// is draft or pending and no signer has signed yet; changing order semantics
// mid-flight would break the sequential eligibility invariant.
func (e *Engine) SetSigningMode(ctx context.Context, actor models.Actor, docID string, mode models.SigningMode) (*models.Document, error) {
	if !mode.Valid() {
		return nil, &ValidationError{Field: "signing_mode", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
	return e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status.Terminal() {
			return &InvalidStateError{Operation: "change signing mode", State: string(d.Status)}
		}
		for _, s := range d.Signers {
			if s.Status == models.SignerStatusSigned {
				return &InvalidStateError{Operation: "change signing mode", State: "signature already recorded"}
			}
		}
		prev := d.SigningMode
		d.SigningMode = mode
		d.UpdatedAt = e.now()
		return e.recorder.Append(d, models.ActionModeChanged, actor,
			fmt.Sprintf("Signing mode changed from %s to %s", prev, mode))
	})
}

// SendForSignature transitions a draft document to pending. Sending a
// document with no signers is rejected.
func (e *Engine) SendForSignature(ctx context.Context, actor models.Actor, docID string) (*models.Document, error) {
	return e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status != models.DocumentStatusDraft {
			return &InvalidStateError{Operation: "send for signature", State: string(d.Status)}
		}
		if len(d.Signers) == 0 {
			return &InvalidStateError{Operation: "send for signature", State: "no signers assigned"}
		}
		d.Status = models.DocumentStatusPending
		d.UpdatedAt = e.now()
		return e.recorder.Append(d, models.ActionSentForSignature, actor,
			fmt.Sprintf("Document sent to %d signer(s)", len(d.Signers)))
	})
}

// SignDocument records a signature for the given signer. The signature proof
// is accepted as opaque; verification is outside the engine's scope. If this
// signature is the last one outstanding, the document transitions to
// completed within the same atomic mutation.
func (e *Engine) SignDocument(ctx context.Context, actor models.Actor, docID, signerID, signatureProof string) (*models.Document, error) {
	completed := false
	doc, err := e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status != models.DocumentStatusPending {
			return &InvalidStateError{Operation: "sign", State: string(d.Status)}
		}
		signer := d.FindSigner(signerID)
		if signer == nil {
			return &NotFoundError{Kind: "signer", ID: signerID}
		}
		if signer.Status != models.SignerStatusPending {
			return &InvalidStateError{Operation: "sign", State: "signer already " + string(signer.Status)}
		}
		if d.SigningMode == models.SigningModeSequential {
			for _, s := range d.Signers {
				if s.ID == signerID {
					break
				}
				if s.Status != models.SignerStatusSigned {
					return &OutOfOrderError{SignerID: signerID, Waiting: s.Name}
				}
			}
		}

		now := e.now()
		signer.Status = models.SignerStatusSigned
		signer.SignedAt = &now
		signer.IPAddress = actor.IPAddress
		d.UpdatedAt = now
		signedBy := models.Actor{UserID: signer.ID, UserName: signer.Name, IPAddress: actor.IPAddress}
		if err := e.recorder.Append(d, models.ActionDocumentSigned, signedBy,
			fmt.Sprintf("%s signed the document", signer.Name)); err != nil {
			return err
		}

		if d.AllSigned() {
			d.Status = models.DocumentStatusCompleted
			d.UpdatedAt = now
			completed = true
			return e.recorder.Append(d, models.ActionDocumentCompleted, models.SystemActor,
				"All signers have signed. Document is now complete.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.sigsRecorded.Add(ctx, 1)
	if completed {
		e.docsCompleted.Add(ctx, 1)
		e.logger.Info("document completed: id=%s", docID)
	}
	return doc, nil
}

// DeclineSignature records a decline for the given signer. The document
// stays pending: the sender is expected to remove the declined signer and
// assign a replacement, or cancel the document.
func (e *Engine) DeclineSignature(ctx context.Context, actor models.Actor, docID, signerID, reason string) (*models.Document, error) {
	return e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status != models.DocumentStatusPending {
			return &InvalidStateError{Operation: "decline", State: string(d.Status)}
		}
		signer := d.FindSigner(signerID)
		if signer == nil {
			return &NotFoundError{Kind: "signer", ID: signerID}
		}
		if signer.Status != models.SignerStatusPending {
			return &InvalidStateError{Operation: "decline", State: "signer already " + string(signer.Status)}
		}
		signer.Status = models.SignerStatusDeclined
		d.UpdatedAt = e.now()
		details := fmt.Sprintf("%s declined to sign", signer.Name)
		if reason != "" {
			details += ": " + reason
		}
		declinedBy := models.Actor{UserID: signer.ID, UserName: signer.Name, IPAddress: actor.IPAddress}
		return e.recorder.Append(d, models.ActionDocumentDeclined, declinedBy, details)
	})
}

// CancelDocument moves a draft or pending document to the cancelled terminal
// state.
func (e *Engine) CancelDocument(ctx context.Context, actor models.Actor, docID, reason string) (*models.Document, error) {
	return e.mutate(ctx, docID, func(d *models.Document) error {
		if d.Status.Terminal() {
			return &InvalidStateError{Operation: "cancel", State: string(d.Status)}
		}
		d.Status = models.DocumentStatusCancelled
		d.UpdatedAt = e.now()
		details := "Document cancelled"
		if reason != "" {
			details += ": " + reason
		}
		return e.recorder.Append(d, models.ActionDocumentCancelled, actor, details)
	})
}

// GetDocument returns a snapshot of a document.
func (e *Engine) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	doc, err := e.store.Get(ctx, docID)
	if err != nil {
		return nil, e.mapStoreErr(err, docID)
	}
	return doc, nil
}

// ListDocuments returns snapshots of all documents in creation order.
func (e *Engine) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	return e.store.List(ctx)
}

// AuditTrail returns the ordered audit entries for a document.
func (e *Engine) AuditTrail(ctx context.Context, docID string) ([]models.AuditEntry, error) {
	doc, err := e.store.Get(ctx, docID)
	if err != nil {
		return nil, e.mapStoreErr(err, docID)
	}
	return audit.Trail(doc), nil
}

func (e *Engine) mutate(ctx context.Context, docID string, fn func(*models.Document) error) (*models.Document, error) {
	doc, err := e.store.Mutate(ctx, docID, fn)
	if err != nil {
		return nil, e.mapStoreErr(err, docID)
	}
	return doc, nil
}

func (e *Engine) mapStoreErr(err error, docID string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Kind: "document", ID: docID}
	}
	return err
}
