// Package models defines the domain models for the e-signature service
package models

import (
	"time"
)

// DocumentStatus represents the lifecycle state of a document
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusCompleted DocumentStatus = "completed"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from the status.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusCancelled
}

// SignerStatus represents the state of an individual signer
type SignerStatus string

const (
	SignerStatusPending  SignerStatus = "pending"
	SignerStatusSigned   SignerStatus = "signed"
	SignerStatusDeclined SignerStatus = "declined"
)

// SigningMode governs whether signers may sign in any order (parallel) or
// strictly in sequence (sequential).
type SigningMode string

const (
	SigningModeSequential SigningMode = "sequential"
	SigningModeParallel   SigningMode = "parallel"
)

// Valid reports whether the mode is one of the known signing modes.
func (m SigningMode) Valid() bool {
	return m == SigningModeSequential || m == SigningModeParallel
}

// AuditAction is the closed set of actions recorded in a document's audit
// trail. Consumers branch on these values, so they are never free text.
type AuditAction string

const (
	ActionDocumentCreated   AuditAction = "Document Created"
	ActionSignerAdded       AuditAction = "Signer Added"
	ActionSignerRemoved     AuditAction = "Signer Removed"
	ActionModeChanged       AuditAction = "Mode Changed"
	ActionSentForSignature  AuditAction = "Sent for Signature"
	ActionDocumentSigned    AuditAction = "Document Signed"
	ActionDocumentDeclined  AuditAction = "Document Declined"
	ActionDocumentCompleted AuditAction = "Document Completed"
	ActionDocumentCancelled AuditAction = "Document Cancelled"
)

// Document is the root entity of the signing workflow. Signers are ordered;
// in sequential mode the order defines signing order. AuditTrail is
// append-only and never reordered.
type Document struct {
	ID          string         `json:"id"`
	TemplateID  string         `json:"template_id"`
	Title       string         `json:"title"`
	Status      DocumentStatus `json:"status"`
	Fields      map[string]any `json:"fields"`
	SigningMode SigningMode    `json:"signing_mode"`
	Signers     []Signer       `json:"signers"`
	AuditTrail  []AuditEntry   `json:"audit_trail"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Signer is a party expected to sign a document. Once Status is signed the
// signer is immutable and may not be removed.
type Signer struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	Status    SignerStatus `json:"status"`
	SignedAt  *time.Time   `json:"signed_at,omitempty"`
	IPAddress string       `json:"ip_address,omitempty"`
}

// AuditEntry is an immutable record of one action taken against a document.
type AuditEntry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Action    AuditAction `json:"action"`
	UserID    string      `json:"user_id"`
	UserName  string      `json:"user_name"`
	IPAddress string      `json:"ip_address"`
	Details   string      `json:"details"`
}

// Actor identifies the caller of an engine operation. The presentation layer
// is responsible for assigning identity and origin address; the engine does
// not authenticate.
type Actor struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	IPAddress string `json:"ip_address"`
}

// SystemActor attributes entries the engine records on its own behalf, such
// as completion detection.
var SystemActor = Actor{UserID: "system", UserName: "System", IPAddress: "127.0.0.1"}

// Clone returns a deep copy of the document. Snapshots handed to readers
// must never alias engine-owned state.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Fields != nil {
		out.Fields = make(map[string]any, len(d.Fields))
		for k, v := range d.Fields {
			out.Fields[k] = cloneValue(v)
		}
	}
	out.Signers = make([]Signer, len(d.Signers))
	copy(out.Signers, d.Signers)
	for i := range out.Signers {
		if d.Signers[i].SignedAt != nil {
			ts := *d.Signers[i].SignedAt
			out.Signers[i].SignedAt = &ts
		}
	}
	out.AuditTrail = make([]AuditEntry, len(d.AuditTrail))
	copy(out.AuditTrail, d.AuditTrail)
	return &out
}

// cloneValue deep-copies a field value. JSON binding can produce nested
// maps and slices, which would otherwise stay aliased across snapshots.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// FindSigner returns a pointer into the document's signer slice, or nil.
func (d *Document) FindSigner(signerID string) *Signer {
	for i := range d.Signers {
		if d.Signers[i].ID == signerID {
			return &d.Signers[i]
		}
	}
	return nil
}

// AllSigned reports whether every signer has signed. False for an empty
// signer sequence: a document with no signers can never complete.
func (d *Document) AllSigned() bool {
	if len(d.Signers) == 0 {
		return false
	}
	for _, s := range d.Signers {
		if s.Status != SignerStatusSigned {
			return false
		}
	}
	return true
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
