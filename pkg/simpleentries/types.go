package simpleentries

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus is the domain type for entry lifecycle states.
type EntryStatus string

// Entry status constants (typed).
const (
	StatusDraft     EntryStatus = "draft"
	StatusPublished EntryStatus = "published"
	StatusArchived  EntryStatus = "archived"

	// StatusAll is a query-only wildcard meaning "no status filter".
	// It is never stored on an entry.
	StatusAll EntryStatus = "all"
)

// IsValid reports whether s is a storable status. StatusAll is query-only and
// therefore not valid here.
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CollectionLabels holds the display names for a collection.
type CollectionLabels struct {
	Singular string `json:"singular" yaml:"singular"`
	Plural   string `json:"plural" yaml:"plural"`
}

// CollectionDefinition is the static descriptor for one collection of
// entries. Definitions are immutable after registry load; entries reference
// them by slug, not by foreign-key pointer.
type CollectionDefinition struct {
	Slug   string           `json:"slug" yaml:"slug"`
	Labels CollectionLabels `json:"labels" yaml:"labels"`
}

// Entry is one content record belonging to a collection. Slug is unique only
// within the entry's collection.
type Entry struct {
	ID          uuid.UUID      `json:"id"`
	Collection  string         `json:"collection"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Content     map[string]any `json:"content"`
	Fields      map[string]any `json:"fields"`
	Status      EntryStatus    `json:"status"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	UpdatedBy   uuid.UUID      `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`

	// Relation fields (not persisted on the entry row - populated on demand)
	Creator *UserProfile  `json:"creator,omitempty"`
	Media   []*EntryMedia `json:"media,omitempty"`
}

// EntryMedia associates a media asset with an entry. Associations are owned
// exclusively by the entry and are totally ordered by Position ascending.
type EntryMedia struct {
	EntryID   uuid.UUID `json:"entry_id"`
	MediaID   uuid.UUID `json:"media_id"`
	Position  int       `json:"position"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Asset carries the referenced asset's public metadata (not persisted on
	// the association row - populated on demand)
	Asset *MediaAsset `json:"asset,omitempty"`
}

// MediaAsset is the public metadata of an asset owned by the media subsystem.
// The entry store references assets and never owns them; deleting an entry
// removes its associations but leaves the assets untouched.
type MediaAsset struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	StorageKey string    `json:"storage_key"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	AltText    string    `json:"alt_text,omitempty"`

	// Computed by the URL signer when one is configured (never persisted)
	DownloadURL string `json:"download_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// UserProfile is the public profile of a user. Only public fields are ever
// loaded; credential fields are never part of this type.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// Relations selects which related records to attach to fetched entries.
type Relations struct {
	Creator bool
	Media   bool
}

// Any reports whether any relation is requested.
func (r Relations) Any() bool { return r.Creator || r.Media }
