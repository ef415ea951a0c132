package simpleentries

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-entries library
type Service interface {
	// Query operations
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]*Entry, error)
	CountEntries(ctx context.Context, req CountEntriesRequest) (int64, error)
	// GetEntryBySlug returns (nil, nil) when no entry matches; absence is
	// not an error for slug lookups.
	GetEntryBySlug(ctx context.Context, req GetEntryBySlugRequest) (*Entry, error)
	// GetEntryByID bypasses collection and status filtering (administrative
	// access) and fails with ErrEntryNotFound for an unknown id.
	GetEntryByID(ctx context.Context, id uuid.UUID, rel Relations) (*Entry, error)

	// Mutation operations
	CreateEntry(ctx context.Context, req CreateEntryRequest) (*Entry, error)
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (*Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	// Media association operations
	AttachMedia(ctx context.Context, req AttachMediaRequest) (*EntryMedia, error)
	DetachMedia(ctx context.Context, entryID, mediaID uuid.UUID) error

	// Registry returns the immutable collection registry the service was
	// built with.
	Registry() *CollectionRegistry
}
