package domain

import "strings"

// AllowedAttachmentTypes maps accepted PO attachment extensions to their
// content type.
var AllowedAttachmentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// AllowedContentTypes lists the sniffed content types accepted for uploads.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

var fileNameReplacer = strings.NewReplacer("/", "-", "\\", "-", " ", "_", "\"", "", "..", ".")

// SafeFileName makes a document number or upload name usable as a file name
// and storage key segment.
func SafeFileName(name string) string {
	return fileNameReplacer.Replace(strings.TrimSpace(name))
}

// QuotationFileName is the download name of a quotation PDF.
func QuotationFileName(quoteNo string) string {
	return "Quotation_" + SafeFileName(quoteNo) + ".pdf"
}

// InvoiceFileName is the download name of an invoice PDF.
func InvoiceFileName(invoiceNo string) string {
	return SafeFileName(invoiceNo) + ".pdf"
}
