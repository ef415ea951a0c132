package simpleentries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	registry   *CollectionRegistry
	eventSink  EventSink
	urlSigner  URLSigner
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithRegistry sets the collection registry for the service
func WithRegistry(registry *CollectionRegistry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithURLSigner sets the signer used to produce media download/preview URLs
func WithURLSigner(signer URLSigner) Option {
	return func(s *service) {
		s.urlSigner = signer
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.registry == nil {
		return nil, fmt.Errorf("collection registry is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) Registry() *CollectionRegistry {
	return s.registry
}

// Query operations

func (s *service) ListEntries(ctx context.Context, req ListEntriesRequest) ([]*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.registry.Resolve(req.Collection); err != nil {
		return nil, err
	}

	entries, err := s.repository.ListEntries(ctx, ListEntriesParams{
		Collection: req.Collection,
		Statuses:   statusFilter(req.Status),
		Limit:      req.Limit,
		Offset:     req.Offset,
		Include:    req.Include,
	})
	if err != nil {
		return nil, err
	}

	if req.Include.Media {
		for _, entry := range entries {
			s.signMediaURLs(ctx, entry)
		}
	}
	return entries, nil
}

func (s *service) CountEntries(ctx context.Context, req CountEntriesRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.registry.Resolve(req.Collection); err != nil {
		return 0, err
	}
	return s.repository.CountEntries(ctx, req.Collection, statusFilter(req.Status))
}

func (s *service) GetEntryBySlug(ctx context.Context, req GetEntryBySlugRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.registry.Resolve(req.Collection); err != nil {
		return nil, err
	}

	entry, err := s.repository.GetEntryBySlug(ctx, req.Collection, req.Slug, statusFilter(req.Status), req.Include)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if req.Include.Media {
		s.signMediaURLs(ctx, entry)
	}
	return entry, nil
}

func (s *service) GetEntryByID(ctx context.Context, id uuid.UUID, rel Relations) (*Entry, error) {
	entry, err := s.repository.GetEntryByID(ctx, id, rel)
	if err != nil {
		return nil, err
	}
	if rel.Media {
		s.signMediaURLs(ctx, entry)
	}
	return entry, nil
}

// Mutation operations

func (s *service) CreateEntry(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.registry.Resolve(req.Collection); err != nil {
		return nil, err
	}

	// Duplicate pre-check for a clean error message. The store's uniqueness
	// constraint remains the source of truth; a concurrent create slipping
	// past this check surfaces as ErrSlugConflict from the insert.
	existing, err := s.repository.GetEntryBySlug(ctx, req.Collection, req.Slug, nil, Relations{})
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateSlug, req.Collection, req.Slug)
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	now := time.Now().UTC()
	entry := &Entry{
		ID:         uuid.New(),
		Collection: req.Collection,
		Slug:       req.Slug,
		Title:      req.Title,
		Content:    emptyIfNil(req.Content),
		Fields:     emptyIfNil(req.Fields),
		Status:     status,
		CreatedBy:  req.CreatedBy,
		UpdatedBy:  req.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == StatusPublished {
		entry.PublishedAt = &now
	}

	if err := s.repository.CreateEntry(ctx, entry); err != nil {
		return nil, &EntryError{EntryID: entry.ID, Op: "create", Err: err}
	}

	s.fireEvent(ctx, "entry created", func(sink EventSink) error {
		return sink.EntryCreated(ctx, entry)
	})
	return entry, nil
}

func (s *service) UpdateEntry(ctx context.Context, req UpdateEntryRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	current, err := s.repository.GetEntryByID(ctx, req.ID, Relations{})
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Slug != nil && *req.Slug != current.Slug {
		other, err := s.repository.GetEntryBySlug(ctx, current.Collection, *req.Slug, nil, Relations{})
		if err != nil && !errors.Is(err, ErrEntryNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateSlug, current.Collection, *req.Slug)
		}
		updated.Slug = *req.Slug
	}
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Content != nil {
		updated.Content = req.Content
	}
	if req.Fields != nil {
		updated.Fields = req.Fields
	}

	now := time.Now().UTC()
	if req.Status != nil && *req.Status != current.Status {
		if err := canTransition(current.Status, *req.Status); err != nil {
			return nil, err
		}
		updated.Status = *req.Status
		// PublishedAt is set on the first transition to published only;
		// re-publishing an archived entry retains the original timestamp.
		if *req.Status == StatusPublished && current.PublishedAt == nil {
			updated.PublishedAt = &now
		}
	}
	if req.UpdatedBy != uuid.Nil {
		updated.UpdatedBy = req.UpdatedBy
	}
	updated.UpdatedAt = now

	if err := s.repository.UpdateEntry(ctx, &updated); err != nil {
		// A concurrent delete between the existence check and the update
		// surfaces as ErrUpdateConflict from the repository.
		return nil, &EntryError{EntryID: req.ID, Op: "update", Err: err}
	}

	s.fireEvent(ctx, "entry updated", func(sink EventSink) error {
		return sink.EntryUpdated(ctx, &updated)
	})
	return &updated, nil
}

func (s *service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteEntry(ctx, id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return err
		}
		return &EntryError{EntryID: id, Op: "delete", Err: err}
	}

	s.fireEvent(ctx, "entry deleted", func(sink EventSink) error {
		return sink.EntryDeleted(ctx, id)
	})
	return nil
}

// Media association operations

func (s *service) AttachMedia(ctx context.Context, req AttachMediaRequest) (*EntryMedia, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.repository.GetEntryByID(ctx, req.EntryID, Relations{}); err != nil {
		return nil, err
	}
	asset, err := s.repository.GetMediaAsset(ctx, req.MediaID)
	if err != nil {
		return nil, err
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		existing, err := s.repository.ListEntryMedia(ctx, req.EntryID)
		if err != nil {
			return nil, err
		}
		if n := len(existing); n > 0 {
			position = existing[n-1].Position + 1
		}
	}

	assoc := &EntryMedia{
		EntryID:   req.EntryID,
		MediaID:   req.MediaID,
		Position:  position,
		Caption:   req.Caption,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.AttachMedia(ctx, assoc); err != nil {
		return nil, &MediaError{EntryID: req.EntryID, MediaID: req.MediaID, Op: "attach", Err: err}
	}
	assoc.Asset = asset

	s.fireEvent(ctx, "media attached", func(sink EventSink) error {
		return sink.MediaAttached(ctx, assoc)
	})
	return assoc, nil
}

func (s *service) DetachMedia(ctx context.Context, entryID, mediaID uuid.UUID) error {
	if err := s.repository.DetachMedia(ctx, entryID, mediaID); err != nil {
		if errors.Is(err, ErrMediaNotFound) || errors.Is(err, ErrEntryNotFound) {
			return err
		}
		return &MediaError{EntryID: entryID, MediaID: mediaID, Op: "detach", Err: err}
	}

	s.fireEvent(ctx, "media detached", func(sink EventSink) error {
		return sink.MediaDetached(ctx, entryID, mediaID)
	})
	return nil
}

// Helpers

// signMediaURLs populates download/preview URLs on the entry's loaded media
// when a signer is configured. Signing failures degrade to missing URLs
// rather than failing the query.
func (s *service) signMediaURLs(ctx context.Context, entry *Entry) {
	if s.urlSigner == nil || entry == nil {
		return
	}
	for _, assoc := range entry.Media {
		if assoc.Asset == nil {
			continue
		}
		downloadURL, err := s.urlSigner.GetDownloadURL(ctx, assoc.Asset.StorageKey, assoc.Asset.FileName)
		if err != nil {
			s.logger.Warn("failed to sign media download url",
				"entry_id", entry.ID, "media_id", assoc.MediaID, "error", err)
			continue
		}
		previewURL, err := s.urlSigner.GetPreviewURL(ctx, assoc.Asset.StorageKey)
		if err != nil {
			s.logger.Warn("failed to sign media preview url",
				"entry_id", entry.ID, "media_id", assoc.MediaID, "error", err)
			continue
		}
		assoc.Asset.DownloadURL = downloadURL
		assoc.Asset.PreviewURL = previewURL
	}
}

func (s *service) fireEvent(ctx context.Context, name string, fire func(EventSink) error) {
	if s.eventSink == nil {
		return
	}
	if err := fire(s.eventSink); err != nil {
		s.logger.Warn("event sink failed", "event", name, "error", err)
	}
}

func emptyIfNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
