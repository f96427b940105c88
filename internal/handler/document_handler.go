package handler

import (
	"github.com/gin-gonic/gin"

	"quotecrm/internal/service"
)

const contentTypePDF = "application/pdf"

// DocumentHandler serves generated PDFs and stored attachments.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// QuotationPDF handles GET /api/v1/estimations/:id/pdf
// @Summary Download the quotation PDF
// @Tags documents
// @Produce application/pdf
// @Param id path string true "Estimation ID (UUID)"
// @Success 200 {file} file "Quotation_<quote_no>.pdf"
// @Failure 404 {object} ErrorResponseBody "Estimation not found"
// @Security BearerAuth
// @Router /estimations/{id}/pdf [get]
func (h *DocumentHandler) QuotationPDF(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	doc, err := h.documentService.QuotationPDF(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondFile(c, contentTypePDF, doc.FileName, doc.Content)
}

// InvoicePDF handles GET /api/v1/invoices/:id/pdf
// @Summary Download the invoice PDF
// @Tags documents
// @Produce application/pdf
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {file} file "<invoice_no>.pdf"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *DocumentHandler) InvoicePDF(c *gin.Context) {
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	doc, err := h.documentService.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondFile(c, contentTypePDF, doc.FileName, doc.Content)
}

// EmailInvoice handles POST /api/v1/invoices/:id/email
// @Summary Email the invoice to the client
// @Description Sends a time limited link to the invoice PDF
// @Tags documents
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response "Email sent"
// @Failure 400 {object} ErrorResponseBody "Draft invoice or client without email"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/email [post]
func (h *DocumentHandler) EmailInvoice(c *gin.Context) {
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	if err := h.documentService.EmailInvoice(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice email sent"})
}

// POAttachment handles GET /api/v1/estimations/:id/po-attachment
// @Summary Link to the purchase order file
// @Tags documents
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse} "Download link"
// @Failure 404 {object} ErrorResponseBody "No attachment"
// @Security BearerAuth
// @Router /estimations/{id}/po-attachment [get]
func (h *DocumentHandler) POAttachment(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	url, err := h.documentService.POAttachmentURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, DownloadURLResponse{URL: url})
}
