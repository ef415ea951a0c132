package simpleentries

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrCollectionNotFound indicates an unknown collection slug
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrEntryNotFound indicates an entry was not found
	ErrEntryNotFound = errors.New("entry not found")

	// ErrDuplicateSlug indicates the application-level duplicate check found
	// an existing entry with the same (collection, slug)
	ErrDuplicateSlug = errors.New("slug already in use within collection")

	// ErrSlugConflict indicates the store's (collection, slug) uniqueness
	// constraint rejected an insert or update. This is the authoritative
	// enforcement point; ErrDuplicateSlug is only the pre-check.
	ErrSlugConflict = errors.New("slug conflict: unique constraint violation")

	// ErrUpdateConflict indicates the entry vanished between the existence
	// check and the update (zero rows affected)
	ErrUpdateConflict = errors.New("update conflict: entry was deleted concurrently")

	// ErrInvalidEntryStatus indicates an invalid entry status value
	ErrInvalidEntryStatus = errors.New("invalid entry status")

	// ErrInvalidStatusTransition indicates a disallowed lifecycle transition
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrValidation indicates malformed or out-of-range input fields,
	// detected before any store call
	ErrValidation = errors.New("validation failed")

	// ErrMediaNotFound indicates a media asset or association was not found
	ErrMediaNotFound = errors.New("media not found")

	// ErrMediaAlreadyAttached indicates the media asset is already attached
	// to the entry
	ErrMediaAlreadyAttached = errors.New("media already attached to entry")

	// ErrProfileNotFound indicates a user profile was not found
	ErrProfileNotFound = errors.New("user profile not found")
)

// EntryError represents an error related to entry operations
type EntryError struct {
	EntryID uuid.UUID
	Op      string
	Err     error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry operation %s failed for entry %s: %v", e.Op, e.EntryID, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// MediaError represents an error related to media association operations
type MediaError struct {
	EntryID uuid.UUID
	MediaID uuid.UUID
	Op      string
	Err     error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for entry %s media %s: %v", e.Op, e.EntryID, e.MediaID, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}
