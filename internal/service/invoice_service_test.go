package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

type invoiceDeps struct {
	tx          *mocks.TxManager
	invoices    *mocks.MockInvoiceRepo
	estimations *mocks.MockEstimationRepo
	payments    *mocks.MockPaymentRepo
	numbering   *mocks.MockNumberingService
}

func newInvoiceService() (service.InvoiceService, *invoiceDeps) {
	d := &invoiceDeps{
		tx:          &mocks.TxManager{},
		invoices:    new(mocks.MockInvoiceRepo),
		estimations: new(mocks.MockEstimationRepo),
		payments:    new(mocks.MockPaymentRepo),
		numbering:   new(mocks.MockNumberingService),
	}
	return service.NewInvoiceService(d.tx, d.invoices, d.estimations, d.payments, d.numbering, zap.NewNop()), d
}

func approvedEstimation(creditDays int) *domain.Estimation {
	return &domain.Estimation{
		ID:         uuid.New(),
		QuoteNo:    "EST-0001",
		ClientID:   uuid.New(),
		ClientName: "Acme Traders",
		Total:      decimal.NewFromInt(1000),
		Status:     domain.EstimationApproved,
		CreditDays: &creditDays,
		Remarks:    "deliver by Friday",
	}
}

func TestInvoiceService_Generate(t *testing.T) {
	svc, d := newInvoiceService()
	est := approvedEstimation(30)
	userID := uuid.New()

	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.invoices.On("GetByEstimation", mock.Anything, est.ID).Return(nil, domain.ErrNotFound)
	d.numbering.On("Next", mock.Anything, domain.NumberKindInvoice, mock.AnythingOfType("time.Time")).Return("INV-0001", nil)
	d.invoices.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	d.estimations.On("Transition", mock.Anything, est, domain.EstimationApproved).Return(nil)

	inv, err := svc.Generate(context.Background(), est.ID, service.GenerateInvoiceInput{CreatedBy: userID})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", inv.InvoiceNo)
	assert.Equal(t, est.ID, inv.EstimationID)
	assert.Equal(t, est.ClientID, inv.ClientID)
	assert.Equal(t, 30, inv.CreditDays)
	assert.Equal(t, inv.InvoiceDate.AddDate(0, 0, 30), inv.DueDate)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.BalanceDue.Equal(inv.Total))
	assert.Equal(t, domain.InvoiceUnpaid, inv.Status)
	assert.Equal(t, "deliver by Friday", inv.Remarks)
	assert.True(t, inv.IsApproved)
	assert.NotNil(t, inv.ApprovedAt)
	assert.Equal(t, domain.EstimationInvoiced, est.Status)
	d.estimations.AssertExpectations(t)
}

func TestInvoiceService_Generate_Draft(t *testing.T) {
	svc, d := newInvoiceService()
	est := approvedEstimation(0)

	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.invoices.On("GetByEstimation", mock.Anything, est.ID).Return(nil, domain.ErrNotFound)
	d.numbering.On("Next", mock.Anything, domain.NumberKindInvoice, mock.Anything).Return("INV-0002", nil)
	d.invoices.On("Create", mock.Anything, mock.Anything).Return(nil)

	inv, err := svc.Generate(context.Background(), est.ID, service.GenerateInvoiceInput{Draft: true, CreatedBy: uuid.New()})
	require.NoError(t, err)
	assert.False(t, inv.IsApproved)
	assert.Nil(t, inv.ApprovedAt)
	assert.Equal(t, inv.InvoiceDate, inv.DueDate)
	assert.Equal(t, domain.EstimationApproved, est.Status)
	d.estimations.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Generate_AlreadyInvoiced(t *testing.T) {
	svc, d := newInvoiceService()
	est := approvedEstimation(30)

	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.invoices.On("GetByEstimation", mock.Anything, est.ID).Return(&domain.Invoice{ID: uuid.New()}, nil)

	_, err := svc.Generate(context.Background(), est.ID, service.GenerateInvoiceInput{})
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyExists)
	d.numbering.AssertNotCalled(t, "Next", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Generate_NotApproved(t *testing.T) {
	svc, d := newInvoiceService()
	est := approvedEstimation(30)
	est.Status = domain.EstimationPending

	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)

	_, err := svc.Generate(context.Background(), est.ID, service.GenerateInvoiceInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestInvoiceService_Approve_Draft(t *testing.T) {
	svc, d := newInvoiceService()
	est := approvedEstimation(30)
	draft := &domain.Invoice{ID: uuid.New(), InvoiceNo: "INV-0002", EstimationID: est.ID}

	d.invoices.On("GetByID", mock.Anything, draft.ID).Return(draft, nil)
	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.invoices.On("Approve", mock.Anything, draft.ID, mock.AnythingOfType("time.Time")).Return(nil)
	d.estimations.On("Transition", mock.Anything, est, domain.EstimationApproved).Return(nil)

	inv, err := svc.Approve(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.True(t, inv.IsApproved)
	assert.Equal(t, domain.EstimationInvoiced, est.Status)
}

func TestInvoiceService_Approve_AlreadyApproved(t *testing.T) {
	svc, d := newInvoiceService()
	inv := &domain.Invoice{ID: uuid.New(), IsApproved: true}
	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := svc.Approve(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceApproved)
}

func TestInvoiceService_Reconcile(t *testing.T) {
	svc, d := newInvoiceService()
	inv := &domain.Invoice{ID: uuid.New(), Total: decimal.NewFromInt(1000), BalanceDue: decimal.NewFromInt(1000), Status: domain.InvoiceUnpaid}

	d.invoices.On("Lock", mock.Anything, inv.ID).Return(nil)
	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	d.payments.On("ConfirmedAmounts", mock.Anything, inv.ID).Return([]decimal.Decimal{decimal.NewFromInt(250), decimal.NewFromInt(150)}, nil)
	d.invoices.On("UpdateBalance", mock.Anything, inv.ID, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.Paid.Equal(decimal.NewFromInt(400)) && r.Balance.Equal(decimal.NewFromInt(600)) && r.Status == domain.InvoicePartialPaid
	})).Return(nil)

	got, err := svc.Reconcile(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePartialPaid, got.Status)
	assert.True(t, got.BalanceDue.Equal(decimal.NewFromInt(600)))
	d.invoices.AssertExpectations(t)
}

func TestInvoiceService_RecomputeAll(t *testing.T) {
	svc, d := newInvoiceService()
	stale := &domain.Invoice{ID: uuid.New(), InvoiceNo: "INV-0001", Total: decimal.NewFromInt(500), BalanceDue: decimal.NewFromInt(500), Status: domain.InvoiceUnpaid}
	clean := &domain.Invoice{ID: uuid.New(), InvoiceNo: "INV-0002", Total: decimal.NewFromInt(300), BalanceDue: decimal.NewFromInt(300), Status: domain.InvoiceUnpaid}

	d.invoices.On("ListIDs", mock.Anything, 0, 2).Return([]uuid.UUID{stale.ID, clean.ID}, nil)
	d.invoices.On("ListIDs", mock.Anything, 2, 2).Return([]uuid.UUID{}, nil)
	for _, inv := range []*domain.Invoice{stale, clean} {
		copyInv := *inv
		d.invoices.On("GetByID", mock.Anything, inv.ID).Return(&copyInv, nil)
		d.invoices.On("Lock", mock.Anything, inv.ID).Return(nil)
		d.invoices.On("UpdateBalance", mock.Anything, inv.ID, mock.Anything).Return(nil)
	}
	d.payments.On("ConfirmedAmounts", mock.Anything, stale.ID).Return([]decimal.Decimal{decimal.NewFromInt(500)}, nil)
	d.payments.On("ConfirmedAmounts", mock.Anything, clean.ID).Return([]decimal.Decimal{}, nil)

	changed, err := svc.RecomputeAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 2, d.tx.Calls)
}

func TestInvoiceService_List_UnknownStatus(t *testing.T) {
	svc, _ := newInvoiceService()
	_, _, err := svc.List(context.Background(), domain.InvoiceFilter{Status: "void"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
