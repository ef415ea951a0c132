package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-entries/pkg/simpleentries"
)

// Repository implements simpleentries.Repository using in-memory storage
type Repository struct {
	mu          sync.RWMutex
	entries     map[uuid.UUID]*simpleentries.Entry
	slugIndex   map[string]uuid.UUID // collection + "/" + slug -> entry_id
	media       map[uuid.UUID][]*simpleentries.EntryMedia
	profiles    map[uuid.UUID]*simpleentries.UserProfile
	mediaAssets map[uuid.UUID]*simpleentries.MediaAsset
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		entries:     make(map[uuid.UUID]*simpleentries.Entry),
		slugIndex:   make(map[string]uuid.UUID),
		media:       make(map[uuid.UUID][]*simpleentries.EntryMedia),
		profiles:    make(map[uuid.UUID]*simpleentries.UserProfile),
		mediaAssets: make(map[uuid.UUID]*simpleentries.MediaAsset),
	}
}

func slugKey(collection, slug string) string {
	return collection + "/" + slug
}

// Entry operations

func (r *Repository) CreateEntry(ctx context.Context, entry *simpleentries.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The slug index is the memory equivalent of the store's uniqueness
	// constraint on (collection, slug).
	key := slugKey(entry.Collection, entry.Slug)
	if _, taken := r.slugIndex[key]; taken {
		return simpleentries.ErrSlugConflict
	}

	entryCopy := *entry
	r.entries[entry.ID] = &entryCopy
	r.slugIndex[key] = entry.ID
	return nil
}

func (r *Repository) GetEntryByID(ctx context.Context, id uuid.UUID, rel simpleentries.Relations) (*simpleentries.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return nil, simpleentries.ErrEntryNotFound
	}
	return r.withRelations(entry, rel), nil
}

func (r *Repository) GetEntryBySlug(ctx context.Context, collection, slug string, statuses []simpleentries.EntryStatus, rel simpleentries.Relations) (*simpleentries.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.slugIndex[slugKey(collection, slug)]
	if !exists {
		return nil, simpleentries.ErrEntryNotFound
	}
	entry := r.entries[id]
	if !statusMatches(entry.Status, statuses) {
		return nil, simpleentries.ErrEntryNotFound
	}
	return r.withRelations(entry, rel), nil
}

func (r *Repository) ListEntries(ctx context.Context, params simpleentries.ListEntriesParams) ([]*simpleentries.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simpleentries.Entry
	for _, entry := range r.entries {
		if entry.Collection != params.Collection {
			continue
		}
		if !statusMatches(entry.Status, params.Statuses) {
			continue
		}
		result = append(result, r.withRelations(entry, params.Include))
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if params.Offset != nil {
		if *params.Offset >= len(result) {
			result = nil
		} else {
			result = result[*params.Offset:]
		}
	}
	if params.Limit != nil && *params.Limit < len(result) {
		result = result[:*params.Limit]
	}
	return result, nil
}

func (r *Repository) CountEntries(ctx context.Context, collection string, statuses []simpleentries.EntryStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, entry := range r.entries {
		if entry.Collection == collection && statusMatches(entry.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry *simpleentries.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.entries[entry.ID]
	if !exists {
		// Zero-row update semantics: the row vanished.
		return simpleentries.ErrUpdateConflict
	}

	if current.Slug != entry.Slug || current.Collection != entry.Collection {
		newKey := slugKey(entry.Collection, entry.Slug)
		if other, taken := r.slugIndex[newKey]; taken && other != entry.ID {
			return simpleentries.ErrSlugConflict
		}
		delete(r.slugIndex, slugKey(current.Collection, current.Slug))
		r.slugIndex[newKey] = entry.ID
	}

	entryCopy := *entry
	entryCopy.Creator = nil
	entryCopy.Media = nil
	r.entries[entry.ID] = &entryCopy
	return nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[id]
	if !exists {
		return simpleentries.ErrEntryNotFound
	}

	// Associations first, then the entry; atomic under the lock.
	delete(r.media, id)
	delete(r.slugIndex, slugKey(entry.Collection, entry.Slug))
	delete(r.entries, id)
	return nil
}

// Media association operations

func (r *Repository) AttachMedia(ctx context.Context, assoc *simpleentries.EntryMedia) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[assoc.EntryID]; !exists {
		return simpleentries.ErrEntryNotFound
	}
	for _, existing := range r.media[assoc.EntryID] {
		if existing.MediaID == assoc.MediaID {
			return simpleentries.ErrMediaAlreadyAttached
		}
	}

	assocCopy := *assoc
	assocCopy.Asset = nil
	r.media[assoc.EntryID] = append(r.media[assoc.EntryID], &assocCopy)
	sort.SliceStable(r.media[assoc.EntryID], func(i, j int) bool {
		return r.media[assoc.EntryID][i].Position < r.media[assoc.EntryID][j].Position
	})
	return nil
}

func (r *Repository) DetachMedia(ctx context.Context, entryID, mediaID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assocs := r.media[entryID]
	for i, assoc := range assocs {
		if assoc.MediaID == mediaID {
			r.media[entryID] = append(assocs[:i], assocs[i+1:]...)
			return nil
		}
	}
	return simpleentries.ErrMediaNotFound
}

func (r *Repository) ListEntryMedia(ctx context.Context, entryID uuid.UUID) ([]*simpleentries.EntryMedia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyMedia(entryID, false), nil
}

// Read-only collaborators

func (r *Repository) GetUserProfile(ctx context.Context, id uuid.UUID) (*simpleentries.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[id]
	if !exists {
		return nil, simpleentries.ErrProfileNotFound
	}
	profileCopy := *profile
	return &profileCopy, nil
}

func (r *Repository) GetMediaAsset(ctx context.Context, id uuid.UUID) (*simpleentries.MediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.mediaAssets[id]
	if !exists {
		return nil, simpleentries.ErrMediaNotFound
	}
	assetCopy := *asset
	return &assetCopy, nil
}

// Seed helpers for tests and local development. The user and media
// subsystems own these records in production deployments.

// SeedUserProfile stores a user profile for relation loading.
func (r *Repository) SeedUserProfile(profile *simpleentries.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profileCopy := *profile
	r.profiles[profile.ID] = &profileCopy
}

// SeedMediaAsset stores a media asset for relation loading.
func (r *Repository) SeedMediaAsset(asset *simpleentries.MediaAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assetCopy := *asset
	r.mediaAssets[asset.ID] = &assetCopy
}

// Internal helpers (callers hold at least the read lock)

// withRelations returns a copy of entry with the requested relations
// populated.
func (r *Repository) withRelations(entry *simpleentries.Entry, rel simpleentries.Relations) *simpleentries.Entry {
	entryCopy := *entry
	entryCopy.Creator = nil
	entryCopy.Media = nil

	if rel.Creator {
		if profile, exists := r.profiles[entry.CreatedBy]; exists {
			profileCopy := *profile
			entryCopy.Creator = &profileCopy
		}
	}
	if rel.Media {
		entryCopy.Media = r.copyMedia(entry.ID, true)
	}
	return &entryCopy
}

// copyMedia returns the entry's associations ordered by position ascending.
func (r *Repository) copyMedia(entryID uuid.UUID, includeAssets bool) []*simpleentries.EntryMedia {
	assocs := r.media[entryID]
	result := make([]*simpleentries.EntryMedia, 0, len(assocs))
	for _, assoc := range assocs {
		assocCopy := *assoc
		if includeAssets {
			if asset, exists := r.mediaAssets[assoc.MediaID]; exists {
				assetCopy := *asset
				assocCopy.Asset = &assetCopy
			}
		}
		result = append(result, &assocCopy)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result
}

func statusMatches(status simpleentries.EntryStatus, statuses []simpleentries.EntryStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
