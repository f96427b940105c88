// Package local keeps objects as files under a media root directory.
package local

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates an ObjectStorage writing below root. Object URLs
// are built from baseURL, which should serve root (e.g. "/media").
func NewLocalStorage(root, baseURL string) (port.ObjectStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("local storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("local storage root: %w", err)
	}
	return &localStorage{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// resolve maps a key to a path inside root, refusing keys that escape it.
func (s *localStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", domain.NewValidationError("key", "is empty")
	}
	p := filepath.Join(s.root, filepath.FromSlash(clean))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", domain.NewValidationError("key", "escapes the media root")
	}
	return p, nil
}

func (s *localStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	p, err := s.resolve(input.Key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("local upload: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("local upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := md5.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), input.Body); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("local upload write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("local upload close: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return nil, fmt.Errorf("local upload rename: %w", err)
	}

	return &port.UploadOutput{
		Location: s.url(input.Key),
		ETag:     hex.EncodeToString(h.Sum(nil)),
	}, nil
}

func (s *localStorage) Download(_ context.Context, key string) ([]byte, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("local download: %w", err)
	}
	return data, nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local delete: %w", err)
	}
	return nil
}

// GetPresignedURL returns the public media URL. Local files are served
// without signing, so the expiry is ignored.
func (s *localStorage) GetPresignedURL(_ context.Context, key string, _ int64) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	return s.url(key), nil
}

func (s *localStorage) url(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return s.baseURL + "/" + strings.Join(parts, "/")
}
