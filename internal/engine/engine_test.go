package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafifeedloop/esignature/internal/catalog"
	"github.com/rafifeedloop/esignature/internal/logging"
	"github.com/rafifeedloop/esignature/internal/store"
	"github.com/rafifeedloop/esignature/pkg/models"
)

var testActor = models.Actor{UserID: "user_1", UserName: "Test User", IPAddress: "10.0.0.1"}

func newTestEngine() *Engine {
	return New(store.NewMemoryStore(), catalog.New(), logging.NewLogger())
}

func claimFields() map[string]any {
	return map[string]any{
		"policy_number":        "POL-1234",
		"claimant_name":        "John Doe",
		"incident_date":        "2024-01-15",
		"incident_description": "Rear-end collision",
		"claim_amount":         float64(2500),
		"signature":            "data:image/png;base64,abc",
	}
}

func createClaim(t *testing.T, e *Engine, mode models.SigningMode) *models.Document {
	t.Helper()
	doc, err := e.CreateDocument(context.Background(), testActor, "claim-form", "Claim - John Doe", claimFields(), mode)
	require.NoError(t, err)
	return doc
}

func addSigner(t *testing.T, e *Engine, docID, name, email string) *models.Document {
	t.Helper()
	doc, err := e.AddSigner(context.Background(), testActor, docID, name, email, "Signer")
	require.NoError(t, err)
	return doc
}

func actions(trail []models.AuditEntry) []models.AuditAction {
	out := make([]models.AuditAction, len(trail))
	for i, entry := range trail {
		out[i] = entry.Action
	}
	return out
}

func TestCreateDocument(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	t.Run("creates a draft with one audit entry", func(t *testing.T) {
		doc := createClaim(t, e, models.SigningModeSequential)
		assert.Equal(t, models.DocumentStatusDraft, doc.Status)
		assert.Empty(t, doc.Signers)
		require.Len(t, doc.AuditTrail, 1)
		assert.Equal(t, models.ActionDocumentCreated, doc.AuditTrail[0].Action)
		assert.Equal(t, testActor.UserID, doc.AuditTrail[0].UserID)
	})

	t.Run("rejects empty template id", func(t *testing.T) {
		_, err := e.CreateDocument(ctx, testActor, "", "Untitled", nil, models.SigningModeParallel)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "template_id", ve.Field)
	})

	t.Run("rejects unknown template id", func(t *testing.T) {
		_, err := e.CreateDocument(ctx, testActor, "no-such-template", "Untitled", nil, models.SigningModeParallel)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := e.CreateDocument(ctx, testActor, "claim-form", "", claimFields(), models.SigningModeParallel)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("rejects unknown signing mode", func(t *testing.T) {
		_, err := e.CreateDocument(ctx, testActor, "claim-form", "Claim", claimFields(), "round-robin")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		fields := claimFields()
		delete(fields, "claimant_name")
		_, err := e.CreateDocument(ctx, testActor, "claim-form", "Claim", fields, models.SigningModeParallel)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "claimant_name", ve.Field)
	})

	t.Run("rejects type mismatch", func(t *testing.T) {
		fields := claimFields()
		fields["claim_amount"] = "a lot"
		_, err := e.CreateDocument(ctx, testActor, "claim-form", "Claim", fields, models.SigningModeParallel)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "claim_amount", ve.Field)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := e.CreateDocument(ctx, testActor, "loan-application", "Loan", map[string]any{
			"borrower_name":     "John Doe",
			"loan_amount":       float64(10000),
			"loan_purpose":      "Home",
			"employment_status": "Employed",
			"annual_income":     float64(80000),
			"email":             "not-an-email",
			"phone":             "555-0100",
			"signature":         "sig",
			"date":              "2024-01-15",
		}, models.SigningModeSequential)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "email", ve.Field)
	})
}

func TestAddAndRemoveSigners(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()
	doc := createClaim(t, e, models.SigningModeSequential)

	t.Run("adds a pending signer and records it", func(t *testing.T) {
		updated := addSigner(t, e, doc.ID, "Alice", "alice@example.com")
		require.Len(t, updated.Signers, 1)
		assert.Equal(t, models.SignerStatusPending, updated.Signers[0].Status)
		assert.Equal(t, models.ActionSignerAdded, updated.AuditTrail[len(updated.AuditTrail)-1].Action)
	})

	t.Run("rejects empty name or email", func(t *testing.T) {
		_, err := e.AddSigner(ctx, testActor, doc.ID, "", "x@example.com", "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("removes an unsigned signer", func(t *testing.T) {
		updated := addSigner(t, e, doc.ID, "Bob", "bob@example.com")
		bobID := updated.Signers[1].ID
		updated, err := e.RemoveSigner(ctx, testActor, doc.ID, bobID)
		require.NoError(t, err)
		require.Len(t, updated.Signers, 1)
		assert.Equal(t, models.ActionSignerRemoved, updated.AuditTrail[len(updated.AuditTrail)-1].Action)
	})

	t.Run("unknown signer id fails NotFound", func(t *testing.T) {
		_, err := e.RemoveSigner(ctx, testActor, doc.ID, "signer_missing")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "signer", nf.Kind)
	})

	t.Run("signed signer cannot be removed", func(t *testing.T) {
		// a second signer keeps the document pending after Alice signs
		addSigner(t, e, doc.ID, "Dave", "dave@example.com")
		_, err := e.SendForSignature(ctx, testActor, doc.ID)
		require.NoError(t, err)
		current, err := e.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		aliceID := current.Signers[0].ID
		_, err = e.SignDocument(ctx, testActor, doc.ID, aliceID, "sig")
		require.NoError(t, err)

		_, err = e.RemoveSigner(ctx, testActor, doc.ID, aliceID)
		var op *InvalidOperationError
		require.ErrorAs(t, err, &op)
	})
}

func TestSendForSignature(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	t.Run("rejects a document with no signers", func(t *testing.T) {
		doc := createClaim(t, e, models.SigningModeSequential)
		_, err := e.SendForSignature(ctx, testActor, doc.ID)
		var se *InvalidStateError
		require.ErrorAs(t, err, &se)

		// no state change, no audit entry
		current, err := e.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusDraft, current.Status)
		assert.Len(t, current.AuditTrail, 1)
	})

	t.Run("moves draft to pending and names the signer count", func(t *testing.T) {
		doc := createClaim(t, e, models.SigningModeSequential)
		addSigner(t, e, doc.ID, "Alice", "alice@example.com")
		addSigner(t, e, doc.ID, "Bob", "bob@example.com")

		updated, err := e.SendForSignature(ctx, testActor, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusPending, updated.Status)
		last := updated.AuditTrail[len(updated.AuditTrail)-1]
		assert.Equal(t, models.ActionSentForSignature, last.Action)
		assert.Contains(t, last.Details, "2 signer(s)")

		_, err = e.SendForSignature(ctx, testActor, doc.ID)
		var se *InvalidStateError
		require.ErrorAs(t, err, &se)
	})
}

func TestSequentialSigning(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	doc := createClaim(t, e, models.SigningModeSequential)
	addSigner(t, e, doc.ID, "Alice", "alice@example.com")
	current := addSigner(t, e, doc.ID, "Bob", "bob@example.com")
	aliceID, bobID := current.Signers[0].ID, current.Signers[1].ID

	_, err := e.SendForSignature(ctx, testActor, doc.ID)
	require.NoError(t, err)

	t.Run("second signer cannot sign first", func(t *testing.T) {
		before, err := e.GetDocument(ctx, doc.ID)
		require.NoError(t, err)

		_, err = e.SignDocument(ctx, testActor, doc.ID, bobID, "sig-b")
		var ooo *OutOfOrderError
		require.ErrorAs(t, err, &ooo)
		assert.Equal(t, "Alice", ooo.Waiting)

		// all-or-nothing: nothing changed
		after, err := e.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("first signature keeps the document pending", func(t *testing.T) {
		updated, err := e.SignDocument(ctx, testActor, doc.ID, aliceID, "sig-a")
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusPending, updated.Status)
		assert.Equal(t, models.SignerStatusSigned, updated.Signers[0].Status)
		require.NotNil(t, updated.Signers[0].SignedAt)
		assert.Equal(t, testActor.IPAddress, updated.Signers[0].IPAddress)
	})

	t.Run("last signature completes the document atomically", func(t *testing.T) {
		updated, err := e.SignDocument(ctx, testActor, doc.ID, bobID, "sig-b")
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusCompleted, updated.Status)

		require.Len(t, updated.AuditTrail, 7)
		assert.Equal(t, []models.AuditAction{
			models.ActionDocumentCreated,
			models.ActionSignerAdded,
			models.ActionSignerAdded,
			models.ActionSentForSignature,
			models.ActionDocumentSigned,
			models.ActionDocumentSigned,
			models.ActionDocumentCompleted,
		}, actions(updated.AuditTrail))
		completion := updated.AuditTrail[6]
		assert.Equal(t, models.SystemActor.UserID, completion.UserID)
	})

	t.Run("signed signer cannot sign again", func(t *testing.T) {
		_, err := e.SignDocument(ctx, testActor, doc.ID, bobID, "sig-b")
		var se *InvalidStateError
		require.ErrorAs(t, err, &se)
	})
}

func TestParallelSigning(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	doc := createClaim(t, e, models.SigningModeParallel)
	addSigner(t, e, doc.ID, "Alice", "alice@example.com")
	current := addSigner(t, e, doc.ID, "Bob", "bob@example.com")
	aliceID, bobID := current.Signers[0].ID, current.Signers[1].ID

	_, err := e.SendForSignature(ctx, testActor, doc.ID)
	require.NoError(t, err)

	// the order that fails in sequential mode succeeds here
	updated, err := e.SignDocument(ctx, testActor, doc.ID, bobID, "sig-b")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPending, updated.Status)

	updated, err = e.SignDocument(ctx, testActor, doc.ID, aliceID, "sig-a")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusCompleted, updated.Status)
}

func TestSignDocumentErrors(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	t.Run("unknown document", func(t *testing.T) {
		_, err := e.SignDocument(ctx, testActor, "doc_missing", "signer_x", "sig")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "document", nf.Kind)
	})

	t.Run("unknown signer", func(t *testing.T) {
		doc := createClaim(t, e, models.SigningModeParallel)
		addSigner(t, e, doc.ID, "Alice", "alice@example.com")
		_, err := e.SendForSignature(ctx, testActor, doc.ID)
		require.NoError(t, err)

		_, err = e.SignDocument(ctx, testActor, doc.ID, "signer_missing", "sig")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "signer", nf.Kind)
	})

	t.Run("draft document cannot be signed", func(t *testing.T) {
		doc := createClaim(t, e, models.SigningModeParallel)
		current := addSigner(t, e, doc.ID, "Alice", "alice@example.com")

		_, err := e.SignDocument(ctx, testActor, doc.ID, current.Signers[0].ID, "sig")
		var se *InvalidStateError
		require.ErrorAs(t, err, &se)
	})
}

func TestSetSigningMode(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	doc := createClaim(t, e, models.SigningModeSequential)
	addSigner(t, e, doc.ID, "Alice", "alice@example.com")
	current := addSigner(t, e, doc.ID, "Bob", "bob@example.com")
	aliceID := current.Signers[0].ID

	t.Run("mode can change before any signature", func(t *testing.T) {
		updated, err := e.SetSigningMode(ctx, testActor, doc.ID, models.SigningModeParallel)
		require.NoError(t, err)
		assert.Equal(t, models.SigningModeParallel, updated.SigningMode)
		assert.Equal(t, models.ActionModeChanged, updated.AuditTrail[len(updated.AuditTrail)-1].Action)
	})

	t.Run("mode is frozen after the first signature", func(t *testing.T) {
		_, err := e.SendForSignature(ctx, testActor, doc.ID)
		require.NoError(t, err)
		_, err = e.SignDocument(ctx, testActor, doc.ID, aliceID, "sig")
		require.NoError(t, err)

		_, err = e.SetSigningMode(ctx, testActor, doc.ID, models.SigningModeSequential)
		var se *InvalidStateError
		require.ErrorAs(t, err, &se)
	})
}

func TestDeclineSignature(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	doc := createClaim(t, e, models.SigningModeParallel)
	addSigner(t, e, doc.ID, "Alice", "alice@example.com")
	current := addSigner(t, e, doc.ID, "Bob", "bob@example.com")
	aliceID, bobID := current.Signers[0].ID, current.Signers[1].ID

	_, err := e.SendForSignature(ctx, testActor, doc.ID)
	require.NoError(t, err)

	t.Run("decline leaves the document pending", func(t *testing.T) {
		updated, err := e.DeclineSignature(ctx, testActor, doc.ID, bobID, "wrong amount")
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusPending, updated.Status)
		assert.Equal(t, models.SignerStatusDeclined, updated.Signers[1].Status)
		last := updated.AuditTrail[len(updated.AuditTrail)-1]
		assert.Equal(t, models.ActionDocumentDeclined, last.Action)
		assert.Contains(t, last.Details, "wrong amount")
	})

	t.Run("declined signer cannot be declined or signed again", func(t *testing.T) {
		_, err := e.DeclineSignature(ctx, testActor, doc.ID, bobID, "")
		var se *InvalidStateError
		require.ErrorAs(t, err, &se)

		_, err = e.SignDocument(ctx, testActor, doc.ID, bobID, "sig")
		require.ErrorAs(t, err, &se)
	})

	t.Run("remaining signatures do not complete past a decline", func(t *testing.T) {
		updated, err := e.SignDocument(ctx, testActor, doc.ID, aliceID, "sig")
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusPending, updated.Status)
	})

	t.Run("declined signer can be replaced", func(t *testing.T) {
		_, err := e.RemoveSigner(ctx, testActor, doc.ID, bobID)
		require.NoError(t, err)
		updated := addSigner(t, e, doc.ID, "Carol", "carol@example.com")
		carolID := updated.Signers[1].ID

		updated, err = e.SignDocument(ctx, testActor, doc.ID, carolID, "sig")
		require.NoError(t, err)
		assert.Equal(t, models.DocumentStatusCompleted, updated.Status)
	})
}

func TestCancelDocument(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	doc := createClaim(t, e, models.SigningModeParallel)
	current := addSigner(t, e, doc.ID, "Alice", "alice@example.com")
	aliceID := current.Signers[0].ID
	_, err := e.SendForSignature(ctx, testActor, doc.ID)
	require.NoError(t, err)

	updated, err := e.CancelDocument(ctx, testActor, doc.ID, "deal fell through")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusCancelled, updated.Status)

	// cancelled is terminal
	_, err = e.SignDocument(ctx, testActor, doc.ID, aliceID, "sig")
	var se *InvalidStateError
	require.ErrorAs(t, err, &se)

	_, err = e.AddSigner(ctx, testActor, doc.ID, "Bob", "bob@example.com", "")
	require.ErrorAs(t, err, &se)

	_, err = e.CancelDocument(ctx, testActor, doc.ID, "")
	require.ErrorAs(t, err, &se)
}

func TestAuditTrailAppendOnly(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	doc := createClaim(t, e, models.SigningModeParallel)
	steps := []func() (*models.Document, error){
		func() (*models.Document, error) {
			return e.AddSigner(ctx, testActor, doc.ID, "Alice", "alice@example.com", "")
		},
		func() (*models.Document, error) {
			return e.SetSigningMode(ctx, testActor, doc.ID, models.SigningModeSequential)
		},
		func() (*models.Document, error) { return e.SendForSignature(ctx, testActor, doc.ID) },
	}
	prev := actions(doc.AuditTrail)
	for _, step := range steps {
		updated, err := step()
		require.NoError(t, err)
		current := actions(updated.AuditTrail)
		require.Equal(t, len(prev)+1, len(current), "each mutation appends exactly one entry")
		assert.Equal(t, prev, current[:len(prev)], "existing entries keep their order")
		prev = current
	}

	trail, err := e.AuditTrail(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, trail, len(prev))
}

func TestConcurrentParallelSigning(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()

	const signerCount = 8
	doc := createClaim(t, e, models.SigningModeParallel)
	for i := 0; i < signerCount; i++ {
		addSigner(t, e, doc.ID, fmt.Sprintf("Signer %d", i), fmt.Sprintf("s%d@example.com", i))
	}
	current, err := e.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	_, err = e.SendForSignature(ctx, testActor, doc.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, s := range current.Signers {
		wg.Add(1)
		go func(signerID string) {
			defer wg.Done()
			_, err := e.SignDocument(ctx, testActor, doc.ID, signerID, "sig")
			assert.NoError(t, err)
		}(s.ID)
	}
	wg.Wait()

	final, err := e.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusCompleted, final.Status)

	completions := 0
	for _, entry := range final.AuditTrail {
		if entry.Action == models.ActionDocumentCompleted {
			completions++
		}
	}
	assert.Equal(t, 1, completions, "completion must be detected exactly once")
	// created + adds + sent + signatures + completed
	assert.Len(t, final.AuditTrail, 1+signerCount+1+signerCount+1)
}
