package document

import (
	"testing"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftBill(t *testing.T) *FinancialDocument {
	t.Helper()
	doc, err := NewFinancialDocument(KindVendorBill, "BILL-2026-00001", uuid.New(), "Azure Interior", time.Now())
	require.NoError(t, err)
	return doc
}

func confirmedBill(t *testing.T, amount int64) *FinancialDocument {
	t.Helper()
	doc := newDraftBill(t)
	_, err := doc.AddLine(nil, "Deepawali Hoardings", "", decimal.NewFromInt(1), decimal.NewFromInt(amount))
	require.NoError(t, err)
	due := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, doc.SetDueDate(&due))
	require.NoError(t, doc.Confirm())
	return doc
}

func TestNewFinancialDocument(t *testing.T) {
	t.Run("creates draft document", func(t *testing.T) {
		doc := newDraftBill(t)
		assert.Equal(t, DocumentStatusDraft, doc.Status)
		assert.Equal(t, PaymentStatusNotPaid, doc.PaymentStatus)
		assert.True(t, doc.TotalAmount.IsZero())
		assert.True(t, doc.AmountDue.IsZero())
		assert.Equal(t, 1, doc.GetVersion())

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "FinancialDocumentCreated", events[0].EventType())
	})

	t.Run("fails with invalid kind", func(t *testing.T) {
		_, err := NewFinancialDocument(DocumentKind("receipt"), "X-1", uuid.New(), "", time.Now())
		require.Error(t, err)
	})

	t.Run("fails with empty partner", func(t *testing.T) {
		_, err := NewFinancialDocument(KindVendorBill, "BILL-1", uuid.Nil, "", time.Now())
		require.Error(t, err)
	})
}

func TestDocumentKind(t *testing.T) {
	t.Run("number prefixes", func(t *testing.T) {
		assert.Equal(t, "PO", KindPurchaseOrder.NumberPrefix())
		assert.Equal(t, "BILL", KindVendorBill.NumberPrefix())
		assert.Equal(t, "INV", KindCustomerInvoice.NumberPrefix())
	})

	t.Run("analytic side", func(t *testing.T) {
		assert.Equal(t, budget.AnalyticTypeExpense, KindPurchaseOrder.AnalyticSide())
		assert.Equal(t, budget.AnalyticTypeExpense, KindVendorBill.AnalyticSide())
		assert.Equal(t, budget.AnalyticTypeIncome, KindCustomerInvoice.AnalyticSide())
	})

	t.Run("parses route segments", func(t *testing.T) {
		kind, err := ParseDocumentKind("purchase-orders")
		require.NoError(t, err)
		assert.Equal(t, KindPurchaseOrder, kind)

		kind, err = ParseDocumentKind("vendor_bill")
		require.NoError(t, err)
		assert.Equal(t, KindVendorBill, kind)

		_, err = ParseDocumentKind("receipt")
		require.Error(t, err)
	})
}

func TestDocumentLines(t *testing.T) {
	t.Run("add line computes amount and total", func(t *testing.T) {
		doc := newDraftBill(t)
		line, err := doc.AddLine(nil, "Office Chair", "", decimal.NewFromInt(4), decimal.NewFromInt(5500))
		require.NoError(t, err)
		assert.True(t, line.Amount.Equal(decimal.NewFromInt(22000)))
		assert.True(t, doc.TotalAmount.Equal(decimal.NewFromInt(22000)))
	})

	t.Run("update line recalculates total", func(t *testing.T) {
		doc := newDraftBill(t)
		line, err := doc.AddLine(nil, "Office Chair", "", decimal.NewFromInt(4), decimal.NewFromInt(5500))
		require.NoError(t, err)

		require.NoError(t, doc.UpdateLine(line.ID, decimal.NewFromInt(2), decimal.NewFromInt(5500)))
		assert.True(t, doc.TotalAmount.Equal(decimal.NewFromInt(11000)))
	})

	t.Run("remove line recalculates total", func(t *testing.T) {
		doc := newDraftBill(t)
		line, err := doc.AddLine(nil, "Office Chair", "", decimal.NewFromInt(4), decimal.NewFromInt(5500))
		require.NoError(t, err)
		_, err = doc.AddLine(nil, "Desk", "", decimal.NewFromInt(1), decimal.NewFromInt(12000))
		require.NoError(t, err)

		require.NoError(t, doc.RemoveLine(line.ID))
		assert.True(t, doc.TotalAmount.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		doc := newDraftBill(t)
		_, err := doc.AddLine(nil, "Office Chair", "", decimal.Zero, decimal.NewFromInt(5500))
		require.Error(t, err)
	})

	t.Run("lines frozen after confirm", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.AddLine(nil, "Extra", "", decimal.NewFromInt(1), decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Error(t, doc.RemoveLine(doc.Lines[0].ID))
	})
}

func TestDocumentAssignAnalytic(t *testing.T) {
	t.Run("assign records provenance", func(t *testing.T) {
		doc := newDraftBill(t)
		line, err := doc.AddLine(nil, "Deepawali Hoardings", "", decimal.NewFromInt(1), decimal.NewFromInt(16350))
		require.NoError(t, err)

		analyticID := uuid.New()
		require.NoError(t, doc.AssignAnalytic(line.ID, &analyticID, true, "pattern"))

		got := doc.GetLine(line.ID)
		require.NotNil(t, got.BudgetAnalyticID)
		assert.Equal(t, analyticID, *got.BudgetAnalyticID)
		assert.True(t, got.AutoAssigned)
		assert.Equal(t, "pattern", got.AssignSource)
	})

	t.Run("manual override clears auto flag", func(t *testing.T) {
		doc := newDraftBill(t)
		line, err := doc.AddLine(nil, "Deepawali Hoardings", "", decimal.NewFromInt(1), decimal.NewFromInt(16350))
		require.NoError(t, err)

		autoID := uuid.New()
		require.NoError(t, doc.AssignAnalytic(line.ID, &autoID, true, "rule"))

		manualID := uuid.New()
		require.NoError(t, doc.AssignAnalytic(line.ID, &manualID, false, "manual"))

		got := doc.GetLine(line.ID)
		assert.Equal(t, manualID, *got.BudgetAnalyticID)
		assert.False(t, got.AutoAssigned)
	})

	t.Run("assignments are frozen once confirmed", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		lineID := doc.Lines[0].ID
		before := doc.Lines[0].BudgetAnalyticID

		other := uuid.New()
		err := doc.AssignAnalytic(lineID, &other, false, "manual")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-draft")
		assert.Equal(t, before, doc.GetLine(lineID).BudgetAnalyticID)
	})

	t.Run("clearing assignment resets flags", func(t *testing.T) {
		doc := newDraftBill(t)
		line, err := doc.AddLine(nil, "Deepawali Hoardings", "", decimal.NewFromInt(1), decimal.NewFromInt(16350))
		require.NoError(t, err)

		analyticID := uuid.New()
		require.NoError(t, doc.AssignAnalytic(line.ID, &analyticID, true, "rule"))
		require.NoError(t, doc.FlagBudgetExceeded(line.ID, true))
		require.NoError(t, doc.AssignAnalytic(line.ID, nil, false, ""))

		got := doc.GetLine(line.ID)
		assert.Nil(t, got.BudgetAnalyticID)
		assert.False(t, got.AutoAssigned)
		assert.False(t, got.ExceedsBudget)
	})
}

func TestDocumentConfirm(t *testing.T) {
	t.Run("confirm opens amount due ledger", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		assert.Equal(t, DocumentStatusConfirmed, doc.Status)
		assert.True(t, doc.AmountDue.Equal(decimal.NewFromInt(16350)))
		assert.Equal(t, PaymentStatusNotPaid, doc.PaymentStatus)
		require.NotNil(t, doc.ConfirmedAt)
	})

	t.Run("confirm requires lines", func(t *testing.T) {
		doc := newDraftBill(t)
		due := time.Now().Add(time.Hour)
		require.NoError(t, doc.SetDueDate(&due))
		err := doc.Confirm()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without lines")
	})

	t.Run("confirm requires due date", func(t *testing.T) {
		doc := newDraftBill(t)
		_, err := doc.AddLine(nil, "Office Chair", "", decimal.NewFromInt(1), decimal.NewFromInt(5500))
		require.NoError(t, err)
		err = doc.Confirm()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "due date")
	})

	t.Run("double confirm fails", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		require.Error(t, doc.Confirm())
	})

	t.Run("zero-priced lines confirm straight to paid", func(t *testing.T) {
		doc := confirmedBill(t, 0)
		assert.True(t, doc.TotalAmount.IsZero())
		assert.True(t, doc.AmountDue.IsZero())
		assert.Equal(t, PaymentStatusPaid, doc.PaymentStatus)
	})
}

func TestDocumentCancel(t *testing.T) {
	t.Run("cancels draft", func(t *testing.T) {
		doc := newDraftBill(t)
		require.NoError(t, doc.Cancel())
		assert.Equal(t, DocumentStatusCancelled, doc.Status)
	})

	t.Run("cancels confirmed without payments", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		doc.ClearDomainEvents()
		require.NoError(t, doc.Cancel())
		assert.True(t, doc.AmountDue.IsZero())

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*DocumentCancelledEvent)
		require.True(t, ok)
		assert.True(t, cancelled.WasConfirmed)
	})

	t.Run("refuses once a payment exists", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.NewFromInt(1000), PaymentMethodBank, "NEFT-001", "")
		require.NoError(t, err)

		err = doc.Cancel()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recorded payments")
	})

	t.Run("cancelled document is terminal", func(t *testing.T) {
		doc := newDraftBill(t)
		require.NoError(t, doc.Cancel())
		require.Error(t, doc.Cancel())
		require.Error(t, doc.Confirm())
	})
}

func TestDocumentPayments(t *testing.T) {
	t.Run("full payment settles in one step", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		payment, err := doc.RecordPayment(decimal.NewFromInt(16350), PaymentMethodBank, "NEFT-2041", "")
		require.NoError(t, err)

		assert.True(t, doc.AmountDue.IsZero())
		assert.Equal(t, PaymentStatusPaid, doc.PaymentStatus)
		assert.False(t, payment.Verified)
	})

	t.Run("partial payments accumulate", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.NewFromInt(10000), PaymentMethodCash, "", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPartial, doc.PaymentStatus)
		assert.True(t, doc.AmountDue.Equal(decimal.NewFromInt(6350)))

		_, err = doc.RecordPayment(decimal.NewFromInt(6350), PaymentMethodBank, "NEFT-2042", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, doc.PaymentStatus)
		assert.True(t, doc.TotalPaid().Equal(decimal.NewFromInt(16350)))
	})

	t.Run("running totals split by method", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.NewFromInt(10000), PaymentMethodCash, "", "")
		require.NoError(t, err)
		_, err = doc.RecordPayment(decimal.NewFromInt(6350), PaymentMethodBank, "NEFT-2042", "")
		require.NoError(t, err)

		assert.True(t, doc.PaidViaCash().Equal(decimal.NewFromInt(10000)))
		assert.True(t, doc.PaidViaBank().Equal(decimal.NewFromInt(6350)))
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.NewFromInt(16351), PaymentMethodBank, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds amount due")
	})

	t.Run("rejects payment on draft", func(t *testing.T) {
		doc := newDraftBill(t)
		_, err := doc.RecordPayment(decimal.NewFromInt(1), PaymentMethodCash, "", "")
		require.Error(t, err)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.Zero, PaymentMethodCash, "", "")
		require.Error(t, err)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.NewFromInt(100), PaymentMethod("upi"), "", "")
		require.Error(t, err)
	})

	t.Run("finds payment by idempotency key", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		_, err := doc.RecordPayment(decimal.NewFromInt(100), PaymentMethodBank, "", "client-key-1")
		require.NoError(t, err)

		found := doc.FindPaymentByIdempotencyKey("client-key-1")
		require.NotNil(t, found)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(100)))
		assert.Nil(t, doc.FindPaymentByIdempotencyKey("other-key"))
		assert.Nil(t, doc.FindPaymentByIdempotencyKey(""))
	})

	t.Run("verify marks payment once", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		payment, err := doc.RecordPayment(decimal.NewFromInt(100), PaymentMethodBank, "NEFT-1", "")
		require.NoError(t, err)

		require.NoError(t, doc.VerifyPayment(payment.ID))
		assert.True(t, doc.Payments[0].Verified)

		err = doc.VerifyPayment(payment.ID)
		require.Error(t, err)

		err = doc.VerifyPayment(uuid.New())
		require.Error(t, err)
	})
}

func TestDocumentSend(t *testing.T) {
	t.Run("marks confirmed document sent", func(t *testing.T) {
		doc := confirmedBill(t, 16350)
		require.Nil(t, doc.SentAt)
		require.NoError(t, doc.MarkSent())
		require.NotNil(t, doc.SentAt)
	})

	t.Run("refuses draft", func(t *testing.T) {
		doc := newDraftBill(t)
		require.Error(t, doc.MarkSent())
	})
}
