package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotecrm/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) QuotationPDF(ctx context.Context, estimationID uuid.UUID) (*service.RenderedDocument, error) {
	args := m.Called(ctx, estimationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenderedDocument), args.Error(1)
}

func (m *MockDocumentService) InvoicePDF(ctx context.Context, invoiceID uuid.UUID) (*service.RenderedDocument, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenderedDocument), args.Error(1)
}

func (m *MockDocumentService) EmailInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockDocumentService) POAttachmentURL(ctx context.Context, estimationID uuid.UUID) (string, error) {
	args := m.Called(ctx, estimationID)
	return args.String(0), args.Error(1)
}
