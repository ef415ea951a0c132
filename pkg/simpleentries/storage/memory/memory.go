package memory

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tendant/simple-entries/pkg/simpleentries"
)

// Signer is an in-memory implementation of simpleentries.URLSigner that
// produces deterministic URLs. Intended for tests and local development.
type Signer struct {
	baseURL string
}

// New creates a new in-memory URL signer with the default base URL
func New() *Signer {
	return &Signer{baseURL: "memory://media"}
}

// NewWithBaseURL creates a new in-memory URL signer with a custom base URL
func NewWithBaseURL(baseURL string) *Signer {
	return &Signer{baseURL: baseURL}
}

// GetDownloadURL returns a deterministic download URL for the storage key
func (s *Signer) GetDownloadURL(ctx context.Context, storageKey string, downloadFilename string) (string, error) {
	if storageKey == "" {
		return "", fmt.Errorf("storage key is required")
	}
	u := fmt.Sprintf("%s/download/%s", s.baseURL, storageKey)
	if downloadFilename != "" {
		u += "?filename=" + url.QueryEscape(downloadFilename)
	}
	return u, nil
}

// GetPreviewURL returns a deterministic preview URL for the storage key
func (s *Signer) GetPreviewURL(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", fmt.Errorf("storage key is required")
	}
	return fmt.Sprintf("%s/preview/%s", s.baseURL, storageKey), nil
}

var _ simpleentries.URLSigner = (*Signer)(nil)
