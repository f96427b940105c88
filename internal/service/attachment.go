package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// Attachment is an uploaded file handed to a service.
type Attachment struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// uploadAttachment validates an upload by extension, size and sniffed
// content type, then stores it under keyPrefix.
func uploadAttachment(ctx context.Context, storage port.ObjectStorage, logger *zap.Logger, maxBytes int64, keyPrefix string, a *Attachment) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(a.Header.Filename), "."))
	contentType, ok := domain.AllowedAttachmentTypes[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if maxBytes > 0 && a.Header.Size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	buf := make([]byte, 512)
	n, err := a.File.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	if !domain.AllowedContentTypes[http.DetectContentType(buf[:n])] {
		return "", domain.ErrUnsupportedFileType
	}
	if _, err := a.File.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking file: %w", err)
	}

	key := keyPrefix + "/" + domain.SafeFileName(filepath.Base(a.Header.Filename))
	_, err = storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        a.File,
		ContentType: contentType,
		Size:        a.Header.Size,
	})
	if err != nil {
		logger.Error("attachment upload failed", zap.String("key", key), zap.Error(err))
		return "", domain.ErrUploadFailed
	}
	return key, nil
}
