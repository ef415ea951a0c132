package simpleentries

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for entry and media-association
// persistence. Implementations map their store's uniqueness violation on
// (collection, slug) to ErrSlugConflict and a zero-row update to
// ErrUpdateConflict.
type Repository interface {
	// Entry operations
	CreateEntry(ctx context.Context, entry *Entry) error
	GetEntryByID(ctx context.Context, id uuid.UUID, rel Relations) (*Entry, error)
	GetEntryBySlug(ctx context.Context, collection, slug string, statuses []EntryStatus, rel Relations) (*Entry, error)
	ListEntries(ctx context.Context, params ListEntriesParams) ([]*Entry, error)
	CountEntries(ctx context.Context, collection string, statuses []EntryStatus) (int64, error)
	UpdateEntry(ctx context.Context, entry *Entry) error
	// DeleteEntry removes the entry's media associations and the entry row
	// in a single atomic unit.
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	// Media association operations
	AttachMedia(ctx context.Context, assoc *EntryMedia) error
	DetachMedia(ctx context.Context, entryID, mediaID uuid.UUID) error
	ListEntryMedia(ctx context.Context, entryID uuid.UUID) ([]*EntryMedia, error)

	// Read-only collaborators consumed by the relation loader
	GetUserProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	GetMediaAsset(ctx context.Context, id uuid.UUID) (*MediaAsset, error)
}

// ListEntriesParams contains parameters for listing entries. An empty
// Statuses slice means no status filter. Results are always ordered by
// created_at descending.
type ListEntriesParams struct {
	Collection string
	Statuses   []EntryStatus
	Limit      *int
	Offset     *int
	Include    Relations
}

// ListEntriesOption represents a functional option for listing entries
type ListEntriesOption func(*ListEntriesParams)

// NewListEntriesParams builds repository list parameters for a collection
// from functional options.
func NewListEntriesParams(collection string, opts ...ListEntriesOption) ListEntriesParams {
	params := ListEntriesParams{Collection: collection}
	for _, opt := range opts {
		opt(&params)
	}
	return params
}

// WithStatus sets the statuses to filter by
func WithStatus(statuses ...EntryStatus) ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Statuses = statuses
	}
}

// WithLimit sets the maximum number of results
func WithLimit(limit int) ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Limit = &limit
	}
}

// WithOffset sets the offset for pagination
func WithOffset(offset int) ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Offset = &offset
	}
}

// WithPagination sets both limit and offset for pagination
func WithPagination(limit, offset int) ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Limit = &limit
		p.Offset = &offset
	}
}

// WithCreator includes the creating user's public profile in the results
func WithCreator() ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Include.Creator = true
	}
}

// WithMedia includes the ordered media associations in the results
func WithMedia() ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Include.Media = true
	}
}

// EventSink defines the interface for event handling. Sink failures are
// logged by the service and never fail the triggering operation.
type EventSink interface {
	// EntryCreated is fired when an entry is created
	EntryCreated(ctx context.Context, entry *Entry) error

	// EntryUpdated is fired when an entry is updated
	EntryUpdated(ctx context.Context, entry *Entry) error

	// EntryDeleted is fired when an entry is deleted
	EntryDeleted(ctx context.Context, entryID uuid.UUID) error

	// MediaAttached is fired when a media asset is attached to an entry
	MediaAttached(ctx context.Context, assoc *EntryMedia) error

	// MediaDetached is fired when a media asset is detached from an entry
	MediaDetached(ctx context.Context, entryID, mediaID uuid.UUID) error
}

// URLSigner produces user-facing URLs for media assets stored by the media
// subsystem. The entry store only reads asset metadata; signing is the one
// place it touches the storage layer.
type URLSigner interface {
	// GetDownloadURL returns a URL for downloading the object at storageKey
	GetDownloadURL(ctx context.Context, storageKey string, downloadFilename string) (string, error)

	// GetPreviewURL returns a URL for inline display of the object
	GetPreviewURL(ctx context.Context, storageKey string) (string, error)
}
