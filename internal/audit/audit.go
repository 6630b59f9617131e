// Package audit builds and appends the append-only audit trail entries for
// documents. Entries are immutable once appended: the recorder only ever
// grows a document's trail, never edits or reorders it.
package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rafifeedloop/esignature/pkg/models"
)

// ErrEmptyAction is returned when an append is attempted without an action label.
var ErrEmptyAction = errors.New("audit: empty action label")

// Recorder assigns ids and timestamps to audit entries. The clock is
// injectable for tests.
type Recorder struct {
	now func() time.Time
}

// NewRecorder creates a Recorder using the wall clock.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// NewRecorderWithClock creates a Recorder with a custom clock.
func NewRecorderWithClock(now func() time.Time) *Recorder {
	return &Recorder{now: now}
}

// Append records one entry against the document. It must only be called
// inside the same mutation that performs the state change it documents, so
// the two commit together.
func (r *Recorder) Append(doc *models.Document, action models.AuditAction, actor models.Actor, details string) error {
	if action == "" {
		return ErrEmptyAction
	}
	doc.AuditTrail = append(doc.AuditTrail, models.AuditEntry{
		ID:        uuid.New().String(),
		Timestamp: r.now(),
		Action:    action,
		UserID:    actor.UserID,
		UserName:  actor.UserName,
		IPAddress: actor.IPAddress,
		Details:   details,
	})
	return nil
}

// Trail returns a copy of the document's audit entries in append order.
func Trail(doc *models.Document) []models.AuditEntry {
	out := make([]models.AuditEntry, len(doc.AuditTrail))
	copy(out, doc.AuditTrail)
	return out
}
