// Package simpleentries provides a reusable library for managing content
// entries grouped into named collections, with pluggable repository backends.
//
// It exposes a single Service interface that orchestrates entry queries and
// mutations, slug uniqueness within a collection, the draft/published/archived
// lifecycle, and optional loading of related records (the creating user's
// public profile and the ordered media attached to an entry). Repository
// implementations (memory, Postgres) are provided under subpackages.
//
// Payload Strategy
//
// First-class fields represent authoritative, common attributes on an entry
// (Entry.Slug, Entry.Title, Entry.Status). The rich-text document and the
// per-collection field values are opaque JSON payloads (Entry.Content,
// Entry.Fields) whose schemas are owned by external systems; the entry store
// persists and returns them without interpretation.
package simpleentries
