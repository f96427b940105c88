package s3_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/config"
	s3storage "quotecrm/internal/storage/s3"
)

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := s3storage.NewS3Client(context.Background(), &config.S3Config{Region: "ap-south-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3.bucket")
}

func TestNewS3Client_StaticCredentials(t *testing.T) {
	storage, err := s3storage.NewS3Client(context.Background(), &config.S3Config{
		Region:    "ap-south-1",
		Bucket:    "quotecrm-test",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	url, err := storage.GetPresignedURL(context.Background(), "invoices/INV-0001.pdf", 300)
	require.NoError(t, err)
	assert.Contains(t, url, "quotecrm-test")
	assert.Contains(t, url, "invoices/INV-0001.pdf")
	assert.Contains(t, url, "X-Amz-Expires=300")
}
