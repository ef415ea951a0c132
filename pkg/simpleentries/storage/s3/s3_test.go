package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSigner_Configuration tests the configuration and creation of the S3 signer
func TestSigner_Configuration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		config := Config{
			Region: "us-east-1",
			Bucket: "",
		}
		_, err := New(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("StaticCredentials", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		signer, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("CustomPresignDuration", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			PresignDuration: 7200,
		}
		signer, err := New(config)
		require.NoError(t, err)
		if s, ok := signer.(*Signer); ok {
			assert.Equal(t, 7200*time.Second, s.presignDuration)
		}
	})

	t.Run("DefaultPresignDuration", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		signer, err := New(config)
		require.NoError(t, err)
		if s, ok := signer.(*Signer); ok {
			assert.Equal(t, time.Hour, s.presignDuration)
		}
	})
}

// TestSigner_PresignedURLs verifies URL shape without contacting any S3
// endpoint: presigning is a local signature computation.
func TestSigner_PresignedURLs(t *testing.T) {
	signer, err := New(Config{
		Region:          "us-east-1",
		Bucket:          "test-bucket",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("DownloadURL", func(t *testing.T) {
		u, err := signer.GetDownloadURL(ctx, "media/photo.jpg", "photo.jpg")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:9000/test-bucket/media/photo.jpg"))
		assert.Contains(t, u, "X-Amz-Signature=")
		assert.Contains(t, u, "response-content-disposition=")
	})

	t.Run("DownloadURLWithoutFilename", func(t *testing.T) {
		u, err := signer.GetDownloadURL(ctx, "media/photo.jpg", "")
		require.NoError(t, err)
		assert.NotContains(t, u, "response-content-disposition=")
	})

	t.Run("PreviewURL", func(t *testing.T) {
		u, err := signer.GetPreviewURL(ctx, "media/photo.jpg")
		require.NoError(t, err)
		assert.Contains(t, u, "X-Amz-Signature=")
		assert.Contains(t, u, "response-content-disposition=inline")
	})
}
