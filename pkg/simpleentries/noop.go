package simpleentries

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// EntryCreated does nothing and returns nil
func (n *NoopEventSink) EntryCreated(ctx context.Context, entry *Entry) error {
	return nil
}

// EntryUpdated does nothing and returns nil
func (n *NoopEventSink) EntryUpdated(ctx context.Context, entry *Entry) error {
	return nil
}

// EntryDeleted does nothing and returns nil
func (n *NoopEventSink) EntryDeleted(ctx context.Context, entryID uuid.UUID) error {
	return nil
}

// MediaAttached does nothing and returns nil
func (n *NoopEventSink) MediaAttached(ctx context.Context, assoc *EntryMedia) error {
	return nil
}

// MediaDetached does nothing and returns nil
func (n *NoopEventSink) MediaDetached(ctx context.Context, entryID, mediaID uuid.UUID) error {
	return nil
}
