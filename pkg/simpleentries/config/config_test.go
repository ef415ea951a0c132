package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-entries/pkg/simpleentries"
	"github.com/tendant/simple-entries/pkg/simpleentries/config"
)

func postsCollection() simpleentries.CollectionDefinition {
	return simpleentries.CollectionDefinition{
		Slug:   "posts",
		Labels: simpleentries.CollectionLabels{Singular: "Post", Plural: "Posts"},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.WithCollections(postsCollection()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "entries", cfg.DBSchema)
	assert.Equal(t, "memory", cfg.MediaURLs.Type)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		options []config.Option
	}{
		{
			name:    "no collections",
			options: nil,
		},
		{
			name: "postgres without url",
			options: []config.Option{
				config.WithCollections(postsCollection()),
				func(c *config.ServerConfig) error {
					c.DatabaseType = "postgres"
					return nil
				},
			},
		},
		{
			name: "unknown database type",
			options: []config.Option{
				config.WithCollections(postsCollection()),
				func(c *config.ServerConfig) error {
					c.DatabaseType = "sqlite"
					return nil
				},
			},
		},
		{
			name: "s3 signer without bucket",
			options: []config.Option{
				config.WithCollections(postsCollection()),
				func(c *config.ServerConfig) error {
					c.MediaURLs = config.MediaURLConfig{Type: "s3"}
					return nil
				},
			},
		},
		{
			name: "unknown signer type",
			options: []config.Option{
				config.WithCollections(postsCollection()),
				func(c *config.ServerConfig) error {
					c.MediaURLs = config.MediaURLConfig{Type: "gcs"}
					return nil
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(tt.options...)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestBuildService(t *testing.T) {
	cfg, err := config.Load(config.WithCollections(postsCollection()))
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)
	require.NotNil(t, svc)

	// The built service is immediately usable against the memory repository
	entries, err := svc.ListEntries(context.Background(), simpleentries.ListEntriesRequest{
		Collection: "posts",
	})
	assert.NoError(t, err)
	assert.Empty(t, entries)

	defs := svc.Registry().List()
	require.Len(t, defs, 1)
	assert.Equal(t, "posts", defs[0].Slug)
}

func TestLoadCollectionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collections.yaml")
	content := `collections:
  - slug: blog
    labels:
      singular: Post
      plural: Posts
  - slug: recipes
    labels:
      singular: Recipe
      plural: Recipes
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("valid file", func(t *testing.T) {
		cfg, err := config.Load(config.WithCollectionsFile(path))
		require.NoError(t, err)

		require.Len(t, cfg.Collections, 2)
		assert.Equal(t, "blog", cfg.Collections[0].Slug)
		assert.Equal(t, "Recipe", cfg.Collections[1].Labels.Singular)
		assert.Equal(t, path, cfg.CollectionsFile)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(config.WithCollectionsFile(filepath.Join(dir, "nope.yaml")))
		assert.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, []byte("collections: []\n"), 0o644))

		_, err := config.Load(config.WithCollectionsFile(empty))
		assert.Error(t, err)
	})
}
