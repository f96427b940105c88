package service

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/pdf"
	"quotecrm/internal/port"
)

// RenderedDocument is a generated PDF ready to be served.
type RenderedDocument struct {
	FileName string
	Content  []byte
	// StorageKey is empty when the copy in object storage could not be written.
	StorageKey string
}

// DocumentService renders, stores and shares quotation and invoice PDFs.
type DocumentService interface {
	QuotationPDF(ctx context.Context, estimationID uuid.UUID) (*RenderedDocument, error)
	InvoicePDF(ctx context.Context, invoiceID uuid.UUID) (*RenderedDocument, error)
	// EmailInvoice sends the client a link to the invoice PDF.
	EmailInvoice(ctx context.Context, invoiceID uuid.UUID) error
	// POAttachmentURL returns a time limited link to an estimation's PO file.
	POAttachmentURL(ctx context.Context, estimationID uuid.UUID) (string, error)
}

type documentService struct {
	estimations   port.EstimationRepository
	invoices      port.InvoiceRepository
	clients       port.ClientRepository
	settings      SettingsService
	storage       port.ObjectStorage
	sender        port.EmailSender
	renderer      *pdf.Renderer
	presignExpiry int64
	logger        *zap.Logger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	estimations port.EstimationRepository,
	invoices port.InvoiceRepository,
	clients port.ClientRepository,
	settings SettingsService,
	storage port.ObjectStorage,
	sender port.EmailSender,
	renderer *pdf.Renderer,
	presignExpiry int64,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		estimations:   estimations,
		invoices:      invoices,
		clients:       clients,
		settings:      settings,
		storage:       storage,
		sender:        sender,
		renderer:      renderer,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

func (s *documentService) QuotationPDF(ctx context.Context, estimationID uuid.UUID) (*RenderedDocument, error) {
	est, err := s.estimations.GetByID(ctx, estimationID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, est.ClientID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Quotation(&buf, est, client, settings.Tax); err != nil {
		return nil, err
	}
	doc := &RenderedDocument{FileName: domain.QuotationFileName(est.QuoteNo), Content: buf.Bytes()}
	doc.StorageKey = s.store(ctx, "quotations/"+doc.FileName, doc.Content, func(key string) error {
		return s.estimations.SetPDFKey(ctx, est.ID, key)
	})
	return doc, nil
}

func (s *documentService) InvoicePDF(ctx context.Context, invoiceID uuid.UUID) (*RenderedDocument, error) {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	est, err := s.estimations.GetByID(ctx, inv.EstimationID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Invoice(&buf, inv, est, client); err != nil {
		return nil, err
	}
	doc := &RenderedDocument{FileName: domain.InvoiceFileName(inv.InvoiceNo), Content: buf.Bytes()}
	doc.StorageKey = s.store(ctx, "invoices/"+doc.FileName, doc.Content, func(key string) error {
		return s.invoices.SetPDFKey(ctx, inv.ID, key)
	})
	return doc, nil
}

// store writes a copy of a generated PDF and records its key. Failures are
// logged and leave the key empty; the rendered document is still served.
func (s *documentService) store(ctx context.Context, key string, content []byte, record func(key string) error) string {
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(content),
		ContentType: "application/pdf",
		Size:        int64(len(content)),
	})
	if err != nil {
		s.logger.Warn("storing generated PDF failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	if err := record(key); err != nil {
		s.logger.Warn("recording PDF key failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

func (s *documentService) EmailInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !inv.IsApproved {
		return domain.NewValidationError("invoice_id", "invoice is still a draft")
	}
	client, err := s.clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		return err
	}
	if client.Email == "" {
		return domain.ErrNoRecipient
	}

	doc, err := s.InvoicePDF(ctx, invoiceID)
	if err != nil {
		return err
	}
	if doc.StorageKey == "" {
		return domain.ErrUploadFailed
	}
	link, err := s.storage.GetPresignedURL(ctx, doc.StorageKey, s.presignExpiry)
	if err != nil {
		return err
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}

	toName := client.ContactPerson
	if toName == "" {
		toName = client.CompanyName
	}
	err = s.sender.SendInvoiceEmail(ctx, port.InvoiceEmail{
		ToEmail:     client.Email,
		ToName:      toName,
		CompanyName: settings.Company.Name,
		InvoiceNo:   inv.InvoiceNo,
		Amount:      inv.BalanceDue.StringFixed(2),
		DueDate:     inv.DueDate.Format("02-Jan-2006"),
		LinkURL:     link,
	})
	if err != nil {
		return err
	}
	s.logger.Info("invoice emailed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_no", inv.InvoiceNo),
		zap.Time("sent_at", time.Now().UTC()))
	return nil
}

func (s *documentService) POAttachmentURL(ctx context.Context, estimationID uuid.UUID) (string, error) {
	est, err := s.estimations.GetByID(ctx, estimationID)
	if err != nil {
		return "", err
	}
	if est.POAttachmentKey == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, est.POAttachmentKey, s.presignExpiry)
}
