package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-entries/pkg/simpleentries"
	"github.com/tendant/simple-entries/pkg/simpleentries/repo/memory"
	repopg "github.com/tendant/simple-entries/pkg/simpleentries/repo/postgres"
	memorystorage "github.com/tendant/simple-entries/pkg/simpleentries/storage/memory"
	s3storage "github.com/tendant/simple-entries/pkg/simpleentries/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DBSchema:     "entries",
		MediaURLs: MediaURLConfig{
			Type: "memory",
		},
	}
}

// ServerConfig represents server configuration for the simple-entries service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: entries)

	// Collection registry configuration. CollectionsFile (YAML) is loaded
	// into Collections by WithCollectionsFile / WithEnv.
	CollectionsFile string
	Collections     []simpleentries.CollectionDefinition

	// Media URL signing configuration
	MediaURLs MediaURLConfig
}

// MediaURLConfig represents configuration for the media URL signer
type MediaURLConfig struct {
	Type string // "none", "memory", "s3"

	// S3 options
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignDuration int
}

// WithCollections sets the collection definitions programmatically.
func WithCollections(defs ...simpleentries.CollectionDefinition) Option {
	return func(c *ServerConfig) error {
		c.Collections = defs
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if len(c.Collections) == 0 {
		return errors.New("at least one collection must be configured")
	}

	switch c.MediaURLs.Type {
	case "", "none", "memory":
	case "s3":
		if c.MediaURLs.Bucket == "" {
			return errors.New("media bucket is required when using s3 URL signing")
		}
	default:
		return fmt.Errorf("unsupported media URL signer type: %s", c.MediaURLs.Type)
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (simpleentries.Service, error) {
	registry, err := simpleentries.NewCollectionRegistry(c.Collections)
	if err != nil {
		return nil, fmt.Errorf("failed to build collection registry: %w", err)
	}

	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	options := []simpleentries.Option{
		simpleentries.WithRepository(repo),
		simpleentries.WithRegistry(registry),
	}

	signer, err := c.buildURLSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to build media URL signer: %w", err)
	}
	if signer != nil {
		options = append(options, simpleentries.WithURLSigner(signer))
	}

	return simpleentries.New(options...)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (simpleentries.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		// Optionally set search_path for the connection
		schema := c.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildURLSigner creates a URLSigner based on the configuration. A "none"
// type returns nil: entries then carry media metadata without URLs.
func (c *ServerConfig) buildURLSigner() (simpleentries.URLSigner, error) {
	switch c.MediaURLs.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.MediaURLs.Region,
			Bucket:          c.MediaURLs.Bucket,
			AccessKeyID:     c.MediaURLs.AccessKeyID,
			SecretAccessKey: c.MediaURLs.SecretAccessKey,
			Endpoint:        c.MediaURLs.Endpoint,
			UsePathStyle:    c.MediaURLs.UsePathStyle,
			PresignDuration: c.MediaURLs.PresignDuration,
		})
	default:
		return nil, fmt.Errorf("unsupported media URL signer type: %s", c.MediaURLs.Type)
	}
}
