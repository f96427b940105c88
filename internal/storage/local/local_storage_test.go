package local_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
	"quotecrm/internal/storage/local"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := local.NewLocalStorage(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	out, err := store.Upload(ctx, port.UploadInput{
		Key:         "quotations/Quotation_EST-0001.pdf",
		Body:        strings.NewReader("%PDF-1.3 test"),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/quotations/Quotation_EST-0001.pdf", out.Location)
	assert.NotEmpty(t, out.ETag)

	_, err = os.Stat(filepath.Join(root, "quotations", "Quotation_EST-0001.pdf"))
	require.NoError(t, err)

	data, err := store.Download(ctx, "quotations/Quotation_EST-0001.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))

	link, err := store.GetPresignedURL(ctx, "po_attachments/EST-0001/po scan.pdf", 900)
	require.NoError(t, err)
	assert.Equal(t, "/media/po_attachments/EST-0001/po%20scan.pdf", link)

	require.NoError(t, store.Delete(ctx, "quotations/Quotation_EST-0001.pdf"))
	_, err = store.Download(ctx, "quotations/Quotation_EST-0001.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "quotations/missing.pdf"))
}

func TestLocalStorage_KeyStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := local.NewLocalStorage(root, "/media")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), port.UploadInput{
		Key:  "../../etc/passwd",
		Body: strings.NewReader("x"),
	})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "etc", "passwd"))
	assert.NoError(t, err)

	_, err = store.Download(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
