package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	budgetapp "github.com/budgeterp/backend/internal/application/budget"
	docapp "github.com/budgeterp/backend/internal/application/document"
	"github.com/budgeterp/backend/internal/application/recommend"
	"github.com/budgeterp/backend/internal/domain/document"
)

// newConfirmedAnalytic creates a confirmed expense analytic ready for
// assignment and budgeting.
func newConfirmedAnalytic(t *testing.T, setup *FlowSetup, name string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	created, err := setup.Analytics.Create(ctx, budgetapp.CreateAnalyticRequest{
		Name: name,
		Type: "expense",
	})
	require.NoError(t, err)

	confirmed, err := setup.Analytics.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", confirmed.Status)

	return created.ID
}

// newConfirmedBudget creates and confirms a budget period covering the
// current month with one line for the analytic.
func newConfirmedBudget(t *testing.T, setup *FlowSetup, name string, analyticID uuid.UUID, budgeted decimal.Decimal) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	now := time.Now()
	created, err := setup.Budgets.Create(ctx, budgetapp.CreateBudgetRequest{
		Name:      name,
		StartDate: now.AddDate(0, 0, -7),
		EndDate:   now.AddDate(0, 1, 0),
		Lines: []budgetapp.BudgetLineInput{
			{AnalyticID: analyticID, BudgetedAmount: budgeted},
		},
	})
	require.NoError(t, err)

	confirmed, err := setup.Budgets.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", confirmed.Status)

	return created.ID
}

func TestPurchaseFlowWithRuleAssignment(t *testing.T) {
	setup := NewFlowSetup(t)
	ctx := context.Background()

	analyticID := newConfirmedAnalytic(t, setup, "Deepawali Promotion")
	budgetID := newConfirmedBudget(t, setup, "FY Promotion Budget", analyticID, decimal.NewFromInt(100000))

	partnerID := uuid.New()
	productID := uuid.New()
	due := time.Now().AddDate(0, 1, 0)

	// Rule: this product bought from this partner lands on the analytic
	_, err := setup.Rules.Create(ctx, budgetapp.CreateRuleRequest{
		PartnerID:        &partnerID,
		ProductID:        &productID,
		TargetAnalyticID: analyticID,
	})
	require.NoError(t, err)

	// Purchase order with an untagged line gets auto-assigned by the rule
	po, err := setup.Documents.Create(ctx, document.KindPurchaseOrder, docapp.CreateDocumentRequest{
		PartnerID:   partnerID,
		PartnerName: "Azure Interior",
		DueDate:     &due,
		Lines: []docapp.DocumentLineInput{
			{
				ProductID:   &productID,
				ProductName: "Office Chair",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.NewFromInt(4000),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, po.Lines, 1)

	line := po.Lines[0]
	require.NotNil(t, line.BudgetAnalyticID)
	assert.Equal(t, analyticID, *line.BudgetAnalyticID)
	assert.True(t, line.AutoAssigned)
	assert.Equal(t, "rule", line.AssignSource)
	assert.False(t, line.ExceedsBudget)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, "draft", po.Status)

	// Confirming records achievement on the covering budget
	confirmed, err := setup.Documents.Confirm(ctx, document.KindPurchaseOrder, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.True(t, confirmed.AmountDue.Equal(decimal.NewFromInt(40000)))

	details, err := setup.Budgets.AnalyticDetails(ctx, budgetID, analyticID)
	require.NoError(t, err)
	assert.True(t, details.AchievedAmount.Equal(decimal.NewFromInt(40000)),
		"achieved %s", details.AchievedAmount)
	assert.True(t, details.AmountToAchieve.Equal(decimal.NewFromInt(60000)))

	// Cancelling backs the achievement out again
	cancelled, err := setup.Documents.Cancel(ctx, document.KindPurchaseOrder, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	details, err = setup.Budgets.AnalyticDetails(ctx, budgetID, analyticID)
	require.NoError(t, err)
	assert.True(t, details.AchievedAmount.IsZero(), "achieved %s", details.AchievedAmount)
}

func TestBudgetExceedanceIsAWarningNotAnError(t *testing.T) {
	setup := NewFlowSetup(t)
	ctx := context.Background()

	analyticID := newConfirmedAnalytic(t, setup, "Festive Sales Spend")
	newConfirmedBudget(t, setup, "Small Budget", analyticID, decimal.NewFromInt(5000))

	partnerID := uuid.New()
	due := time.Now().AddDate(0, 1, 0)

	// The line blows through the budget; the document is still created
	bill, err := setup.Documents.Create(ctx, document.KindVendorBill, docapp.CreateDocumentRequest{
		PartnerID:   partnerID,
		PartnerName: "Azure Interior",
		DueDate:     &due,
		Lines: []docapp.DocumentLineInput{
			{
				ProductName:      "LED Signage",
				Quantity:         decimal.NewFromInt(2),
				UnitPrice:        decimal.NewFromInt(9000),
				BudgetAnalyticID: &analyticID,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, bill.Lines, 1)
	assert.True(t, bill.Lines[0].ExceedsBudget)
	assert.Equal(t, "manual", bill.Lines[0].AssignSource)

	// And it still confirms
	confirmed, err := setup.Documents.Confirm(ctx, document.KindVendorBill, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
}

func TestPaymentLifecycle(t *testing.T) {
	setup := NewFlowSetup(t)
	ctx := context.Background()

	partnerID := uuid.New()
	due := time.Now().AddDate(0, 0, 30)
	invoice, err := setup.Documents.Create(ctx, document.KindCustomerInvoice, docapp.CreateDocumentRequest{
		PartnerID:   partnerID,
		PartnerName: "Sharma Traders",
		DueDate:     &due,
		Lines: []docapp.DocumentLineInput{
			{
				ProductName: "Consulting Hours",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.NewFromInt(1500),
			},
		},
	})
	require.NoError(t, err)

	// Payments only apply to confirmed documents
	_, err = setup.Documents.RecordPayment(ctx, document.KindCustomerInvoice, invoice.ID, docapp.RecordPaymentRequest{
		Amount: decimal.NewFromInt(5000),
		Method: "bank",
	})
	require.Error(t, err)

	confirmed, err := setup.Documents.Confirm(ctx, document.KindCustomerInvoice, invoice.ID)
	require.NoError(t, err)
	require.Equal(t, "not_paid", confirmed.PaymentStatus)

	// Partial payment
	partial, err := setup.Documents.RecordPayment(ctx, document.KindCustomerInvoice, invoice.ID, docapp.RecordPaymentRequest{
		Amount:         decimal.NewFromInt(5000),
		Method:         "bank",
		Reference:      "NEFT-881",
		IdempotencyKey: "pay-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", partial.PaymentStatus)
	assert.True(t, partial.AmountDue.Equal(decimal.NewFromInt(10000)))

	// Replaying the same key does not double charge
	replayed, err := setup.Documents.RecordPayment(ctx, document.KindCustomerInvoice, invoice.ID, docapp.RecordPaymentRequest{
		Amount:         decimal.NewFromInt(5000),
		Method:         "bank",
		Reference:      "NEFT-881",
		IdempotencyKey: "pay-1",
	})
	require.NoError(t, err)
	assert.True(t, replayed.AmountDue.Equal(decimal.NewFromInt(10000)))
	assert.Len(t, replayed.Payments, 1)

	// Settle the remainder
	settled, err := setup.Documents.RecordPayment(ctx, document.KindCustomerInvoice, invoice.ID, docapp.RecordPaymentRequest{
		Amount: decimal.NewFromInt(10000),
		Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", settled.PaymentStatus)
	assert.True(t, settled.AmountDue.IsZero())
	assert.True(t, settled.PaidViaCash.Equal(decimal.NewFromInt(10000)))
	assert.True(t, settled.PaidViaBank.Equal(decimal.NewFromInt(5000)))

	// Verify the bank payment
	require.Len(t, settled.Payments, 2)
	var bankPaymentID uuid.UUID
	for _, p := range settled.Payments {
		if p.Reference == "NEFT-881" {
			bankPaymentID = p.ID
		}
	}
	require.NotEqual(t, uuid.Nil, bankPaymentID)

	verified, err := setup.Documents.VerifyPayment(ctx, document.KindCustomerInvoice, invoice.ID, bankPaymentID)
	require.NoError(t, err)
	for _, p := range verified.Payments {
		if p.ID == bankPaymentID {
			assert.True(t, p.Verified)
		}
	}

	// A paid document cannot be cancelled
	_, err = setup.Documents.Cancel(ctx, document.KindCustomerInvoice, invoice.ID)
	require.Error(t, err)
}

func TestHistoryPatternAssignment(t *testing.T) {
	setup := NewFlowSetup(t)
	ctx := context.Background()

	analyticID := newConfirmedAnalytic(t, setup, "Recurring Supplies")

	partnerID := uuid.New()
	productID := uuid.New()
	due := time.Now().AddDate(0, 1, 0)

	// Build history: three confirmed documents with the same manual
	// assignment for this partner and product
	for i := 0; i < 3; i++ {
		doc, err := setup.Documents.Create(ctx, document.KindVendorBill, docapp.CreateDocumentRequest{
			PartnerID:   partnerID,
			PartnerName: "Azure Interior",
			DueDate:     &due,
			Lines: []docapp.DocumentLineInput{
				{
					ProductID:        &productID,
					ProductName:      "A4 Paper",
					Quantity:         decimal.NewFromInt(5),
					UnitPrice:        decimal.NewFromInt(300),
					BudgetAnalyticID: &analyticID,
				},
			},
		})
		require.NoError(t, err)
		_, err = setup.Documents.Confirm(ctx, document.KindVendorBill, doc.ID)
		require.NoError(t, err)
	}

	// No rule exists; the recommendation comes from the pattern
	rec, err := setup.Recommend.Recommend(ctx, recommend.Request{
		PartnerID: partnerID,
		ProductID: &productID,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.AnalyticID)
	assert.Equal(t, analyticID, *rec.AnalyticID)
	assert.Equal(t, recommend.SourcePattern, rec.Source)
	assert.Greater(t, rec.Confidence, 0.7)

	// A new untagged line picks it up during document creation
	doc, err := setup.Documents.Create(ctx, document.KindVendorBill, docapp.CreateDocumentRequest{
		PartnerID:   partnerID,
		PartnerName: "Azure Interior",
		Lines: []docapp.DocumentLineInput{
			{
				ProductID:   &productID,
				ProductName: "A4 Paper",
				Quantity:    decimal.NewFromInt(5),
				UnitPrice:   decimal.NewFromInt(300),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	require.NotNil(t, doc.Lines[0].BudgetAnalyticID)
	assert.Equal(t, analyticID, *doc.Lines[0].BudgetAnalyticID)
	assert.Equal(t, "pattern", doc.Lines[0].AssignSource)
}

func TestBudgetRevisionFlow(t *testing.T) {
	setup := NewFlowSetup(t)
	ctx := context.Background()

	analyticID := newConfirmedAnalytic(t, setup, "Logistics")
	budgetID := newConfirmedBudget(t, setup, "Q3 Logistics", analyticID, decimal.NewFromInt(20000))

	revision, err := setup.Budgets.Revise(ctx, budgetID)
	require.NoError(t, err)
	assert.Equal(t, "draft", revision.Status)
	assert.True(t, revision.IsRevised)
	require.NotNil(t, revision.OriginalID)
	assert.Equal(t, budgetID, *revision.OriginalID)

	original, err := setup.Budgets.GetByID(ctx, budgetID)
	require.NoError(t, err)
	assert.Equal(t, "revised", original.Status)
	require.NotNil(t, original.RevisionID)
	assert.Equal(t, revision.ID, *original.RevisionID)

	// A revised period is terminal and no longer accepts achievement
	_, err = setup.Budgets.Confirm(ctx, budgetID)
	require.Error(t, err)
}
