package config

import (
	"fmt"
	"os"

	"github.com/tendant/simple-entries/pkg/simpleentries"
	"gopkg.in/yaml.v3"
)

// collectionsFile is the YAML document describing the collection registry:
//
//	collections:
//	  - slug: blog
//	    labels:
//	      singular: Post
//	      plural: Posts
type collectionsFile struct {
	Collections []simpleentries.CollectionDefinition `yaml:"collections"`
}

// LoadCollections reads collection definitions from a YAML file.
func LoadCollections(path string) ([]simpleentries.CollectionDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collections file: %w", err)
	}

	var doc collectionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse collections file %s: %w", path, err)
	}
	if len(doc.Collections) == 0 {
		return nil, fmt.Errorf("collections file %s defines no collections", path)
	}
	return doc.Collections, nil
}

// WithCollectionsFile loads collection definitions from a YAML file.
func WithCollectionsFile(path string) Option {
	return func(c *ServerConfig) error {
		defs, err := LoadCollections(path)
		if err != nil {
			return err
		}
		c.CollectionsFile = path
		c.Collections = defs
		return nil
	}
}
