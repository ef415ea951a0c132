package simpleentries

import "fmt"

// CollectionRegistry is the static, process-wide mapping from a collection
// slug to its definition. It is built once at startup and read-only
// thereafter, which makes it safe for unlimited concurrent reads.
type CollectionRegistry struct {
	bySlug map[string]CollectionDefinition
	order  []string
}

// NewCollectionRegistry builds a registry from the given definitions. It
// fails on an empty or duplicate slug.
func NewCollectionRegistry(defs []CollectionDefinition) (*CollectionRegistry, error) {
	r := &CollectionRegistry{
		bySlug: make(map[string]CollectionDefinition, len(defs)),
	}
	for _, def := range defs {
		if def.Slug == "" {
			return nil, fmt.Errorf("collection definition with empty slug")
		}
		if _, exists := r.bySlug[def.Slug]; exists {
			return nil, fmt.Errorf("duplicate collection slug %q", def.Slug)
		}
		r.bySlug[def.Slug] = def
		r.order = append(r.order, def.Slug)
	}
	return r, nil
}

// Resolve returns the definition for slug, or ErrCollectionNotFound when the
// slug is absent from the configuration.
func (r *CollectionRegistry) Resolve(slug string) (CollectionDefinition, error) {
	def, ok := r.bySlug[slug]
	if !ok {
		return CollectionDefinition{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, slug)
	}
	return def, nil
}

// List returns all definitions in configuration order.
func (r *CollectionRegistry) List() []CollectionDefinition {
	defs := make([]CollectionDefinition, 0, len(r.order))
	for _, slug := range r.order {
		defs = append(defs, r.bySlug[slug])
	}
	return defs
}
