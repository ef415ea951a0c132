package simpleentries

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Request/Response DTOs

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateEntryRequest contains parameters for creating a new entry
type CreateEntryRequest struct {
	Collection string
	Slug       string
	Title      string
	Content    map[string]any
	Fields     map[string]any
	Status     EntryStatus // optional; defaults to draft
	CreatedBy  uuid.UUID
}

// Validate checks the request before any store call is made.
func (r CreateEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Collection, validation.Required),
		validation.Field(&r.Slug,
			validation.Required,
			validation.Length(1, 200),
			validation.Match(slugPattern).Error("slug must be lowercase alphanumeric with hyphens"),
		),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Status, validation.By(storableStatus(true))),
		validation.Field(&r.CreatedBy, validation.By(requiredUUID)),
	)
}

// UpdateEntryRequest contains parameters for a partial entry update. Only
// non-nil attributes are applied; unset attributes retain their prior values.
type UpdateEntryRequest struct {
	ID        uuid.UUID
	Slug      *string
	Title     *string
	Content   map[string]any
	Fields    map[string]any
	Status    *EntryStatus
	UpdatedBy uuid.UUID
}

// Validate checks the request before any store call is made.
func (r UpdateEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.By(requiredUUID)),
		validation.Field(&r.Slug,
			validation.NilOrNotEmpty,
			validation.Length(1, 200),
			validation.Match(slugPattern).Error("slug must be lowercase alphanumeric with hyphens"),
		),
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Status, validation.By(storableStatusPtr)),
	)
}

// ListEntriesRequest contains parameters for listing entries in a collection.
// Status defaults to published when unspecified; StatusAll disables the
// status filter.
type ListEntriesRequest struct {
	Collection string
	Status     EntryStatus
	Limit      *int
	Offset     *int
	Include    Relations
}

// Validate checks the request before any store call is made.
func (r ListEntriesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Collection, validation.Required),
		validation.Field(&r.Status, validation.By(queryStatus)),
		validation.Field(&r.Limit, validation.Min(0)),
		validation.Field(&r.Offset, validation.Min(0)),
	)
}

// GetEntryBySlugRequest contains parameters for fetching one entry by its
// slug within a collection. Status semantics match ListEntriesRequest.
type GetEntryBySlugRequest struct {
	Collection string
	Slug       string
	Status     EntryStatus
	Include    Relations
}

// Validate checks the request before any store call is made.
func (r GetEntryBySlugRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Collection, validation.Required),
		validation.Field(&r.Slug, validation.Required),
		validation.Field(&r.Status, validation.By(queryStatus)),
	)
}

// CountEntriesRequest contains parameters for counting entries in a
// collection. Status semantics match ListEntriesRequest.
type CountEntriesRequest struct {
	Collection string
	Status     EntryStatus
}

// Validate checks the request before any store call is made.
func (r CountEntriesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Collection, validation.Required),
		validation.Field(&r.Status, validation.By(queryStatus)),
	)
}

// AttachMediaRequest contains parameters for attaching a media asset to an
// entry. A nil Position appends after the entry's current last association.
type AttachMediaRequest struct {
	EntryID  uuid.UUID
	MediaID  uuid.UUID
	Position *int
	Caption  string
}

// Validate checks the request before any store call is made.
func (r AttachMediaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EntryID, validation.By(requiredUUID)),
		validation.Field(&r.MediaID, validation.By(requiredUUID)),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.Caption, validation.Length(0, 1000)),
	)
}

// requiredUUID rejects the nil UUID. ozzo's Required treats a fixed-size
// array as never empty, so uuid fields need an explicit rule.
func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
}

// storableStatus validates a status that will be written to the store.
// When allowEmpty is true an empty value passes (the service applies the
// draft default).
func storableStatus(allowEmpty bool) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(EntryStatus)
		if s == "" && allowEmpty {
			return nil
		}
		if !s.IsValid() {
			return errors.New("must be one of draft, published, archived")
		}
		return nil
	}
}

func storableStatusPtr(value interface{}) error {
	s, ok := value.(*EntryStatus)
	if !ok || s == nil {
		return nil
	}
	return storableStatus(false)(*s)
}

// queryStatus validates a query-side status filter, which additionally
// accepts StatusAll and the empty value (published default).
func queryStatus(value interface{}) error {
	s, _ := value.(EntryStatus)
	if s == "" || s == StatusAll || s.IsValid() {
		return nil
	}
	return errors.New("must be one of draft, published, archived, all")
}
