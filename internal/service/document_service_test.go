package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/pdf"
	"quotecrm/internal/port"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

type documentDeps struct {
	estimations *mocks.MockEstimationRepo
	invoices    *mocks.MockInvoiceRepo
	clients     *mocks.MockClientRepo
	settings    *mocks.MockSettingsService
	storage     *mocks.MockObjectStorage
	sender      *mocks.MockEmailSender
}

func newDocumentService() (service.DocumentService, *documentDeps) {
	d := &documentDeps{
		estimations: new(mocks.MockEstimationRepo),
		invoices:    new(mocks.MockInvoiceRepo),
		clients:     new(mocks.MockClientRepo),
		settings:    new(mocks.MockSettingsService),
		storage:     new(mocks.MockObjectStorage),
		sender:      new(mocks.MockEmailSender),
	}
	svc := service.NewDocumentService(d.estimations, d.invoices, d.clients, d.settings, d.storage, d.sender,
		pdf.NewRenderer(testSettings().Company), 3600, zap.NewNop())
	return svc, d
}

func documentFixtures() (*domain.Client, *domain.Estimation, *domain.Invoice) {
	client := testClient()
	days := 30
	est := &domain.Estimation{
		ID:         uuid.New(),
		QuoteNo:    "EST/2025/0004",
		QuoteDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ClientName: client.CompanyName,
		GSTNo:      client.GSTIN,
		SubTotal:   decimal.NewFromInt(1000),
		TaxAmount:  decimal.NewFromInt(180),
		Total:      decimal.NewFromInt(1180),
		Status:     domain.EstimationInvoiced,
		CreditDays: &days,
		Items: []domain.EstimationItem{{
			Description: "Steel rack",
			Quantity:    decimal.NewFromInt(2),
			Rate:        decimal.NewFromInt(500),
			TaxRate:     decimal.NewFromInt(18),
			Amount:      decimal.NewFromInt(1180),
		}},
	}
	inv := &domain.Invoice{
		ID:           uuid.New(),
		InvoiceNo:    "INV-0009",
		EstimationID: est.ID,
		ClientID:     client.ID,
		InvoiceDate:  time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
		Total:        decimal.NewFromInt(1180),
		BalanceDue:   decimal.NewFromInt(1180),
		Status:       domain.InvoiceUnpaid,
		IsApproved:   true,
	}
	return client, est, inv
}

func TestDocumentService_QuotationPDF(t *testing.T) {
	svc, d := newDocumentService()
	client, est, _ := documentFixtures()

	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	d.settings.On("Load", mock.Anything).Return(testSettings(), nil)
	d.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == "quotations/Quotation_EST-2025-0004.pdf" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{}, nil)
	d.estimations.On("SetPDFKey", mock.Anything, est.ID, "quotations/Quotation_EST-2025-0004.pdf").Return(nil)

	doc, err := svc.QuotationPDF(context.Background(), est.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quotation_EST-2025-0004.pdf", doc.FileName)
	assert.Equal(t, "quotations/Quotation_EST-2025-0004.pdf", doc.StorageKey)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
	d.estimations.AssertExpectations(t)
}

func TestDocumentService_InvoicePDF_StorageFailureStillServes(t *testing.T) {
	svc, d := newDocumentService()
	client, est, inv := documentFixtures()

	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	doc, err := svc.InvoicePDF(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0009.pdf", doc.FileName)
	assert.Empty(t, doc.StorageKey)
	assert.NotEmpty(t, doc.Content)
	d.invoices.AssertNotCalled(t, "SetPDFKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_EmailInvoice(t *testing.T) {
	svc, d := newDocumentService()
	client, est, inv := documentFixtures()
	client.ContactPerson = "Meera"
	key := "invoices/INV-0009.pdf"

	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	d.invoices.On("SetPDFKey", mock.Anything, inv.ID, key).Return(nil)
	d.storage.On("GetPresignedURL", mock.Anything, key, int64(3600)).Return("https://files.example/inv", nil)
	d.settings.On("Load", mock.Anything).Return(testSettings(), nil)
	d.sender.On("SendInvoiceEmail", mock.Anything, port.InvoiceEmail{
		ToEmail:     "accounts@acme.example",
		ToName:      "Meera",
		CompanyName: "Quote Works",
		InvoiceNo:   "INV-0009",
		Amount:      "1180.00",
		DueDate:     "20-Jul-2025",
		LinkURL:     "https://files.example/inv",
	}).Return(nil)

	require.NoError(t, svc.EmailInvoice(context.Background(), inv.ID))
	d.sender.AssertExpectations(t)
}

func TestDocumentService_EmailInvoice_NoRecipient(t *testing.T) {
	svc, d := newDocumentService()
	client, _, inv := documentFixtures()
	client.Email = ""

	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	d.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)

	err := svc.EmailInvoice(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrNoRecipient)
	d.sender.AssertNotCalled(t, "SendInvoiceEmail", mock.Anything, mock.Anything)
}

func TestDocumentService_EmailInvoice_Draft(t *testing.T) {
	svc, d := newDocumentService()
	_, _, inv := documentFixtures()
	inv.IsApproved = false
	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	err := svc.EmailInvoice(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDocumentService_EmailInvoice_UploadFailed(t *testing.T) {
	svc, d := newDocumentService()
	client, est, inv := documentFixtures()

	d.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	d.estimations.On("GetByID", mock.Anything, est.ID).Return(est, nil)
	d.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := svc.EmailInvoice(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestDocumentService_POAttachmentURL(t *testing.T) {
	svc, d := newDocumentService()
	withFile := &domain.Estimation{ID: uuid.New(), POAttachmentKey: "po_attachments/EST-0001/po.pdf"}
	without := &domain.Estimation{ID: uuid.New()}

	d.estimations.On("GetByID", mock.Anything, withFile.ID).Return(withFile, nil)
	d.estimations.On("GetByID", mock.Anything, without.ID).Return(without, nil)
	d.storage.On("GetPresignedURL", mock.Anything, withFile.POAttachmentKey, int64(3600)).Return("https://files.example/po", nil)

	url, err := svc.POAttachmentURL(context.Background(), withFile.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/po", url)

	_, err = svc.POAttachmentURL(context.Background(), without.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
