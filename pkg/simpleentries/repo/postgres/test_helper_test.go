package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestDB represents a test database connection
type TestDB struct {
	Pool *pgxpool.Pool
}

// NewTestDB creates a new test database connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err, "Failed to parse test database URL")

	// Match the production pool setup: all queries run against the entries
	// schema via search_path
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET search_path TO entries")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err, "Failed to connect to test database")

	err = pool.Ping(ctx)
	require.NoError(t, err, "Failed to ping test database")

	return &TestDB{Pool: pool}
}

// Setup initializes the test database with required schema and tables
func (db *TestDB) Setup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS entries")
	require.NoError(t, err, "Failed to create entries schema")

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entries.entry (
			id UUID PRIMARY KEY,
			collection VARCHAR(100) NOT NULL,
			slug VARCHAR(200) NOT NULL,
			title VARCHAR(500) NOT NULL,
			content JSONB NOT NULL DEFAULT '{}'::jsonb,
			fields JSONB NOT NULL DEFAULT '{}'::jsonb,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			created_by UUID NOT NULL,
			updated_by UUID NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			published_at TIMESTAMP,
			CONSTRAINT entry_collection_slug_key UNIQUE (collection, slug)
		)
	`)
	require.NoError(t, err, "Failed to create entry table")

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entries.entry_media (
			entry_id UUID NOT NULL,
			media_id UUID NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			caption TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			CONSTRAINT entry_media_pkey PRIMARY KEY (entry_id, media_id)
		)
	`)
	require.NoError(t, err, "Failed to create entry_media table")

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entries.users (
			id UUID PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT ''
		)
	`)
	require.NoError(t, err, "Failed to create users table")

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entries.media (
			id UUID PRIMARY KEY,
			file_name VARCHAR(1024) NOT NULL,
			mime_type VARCHAR(255) NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			storage_key VARCHAR(1024) NOT NULL,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			alt_text TEXT NOT NULL DEFAULT ''
		)
	`)
	require.NoError(t, err, "Failed to create media table")
}

// Cleanup removes all test data from the database
func (db *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, "TRUNCATE entries.entry_media")
	require.NoError(t, err, "Failed to truncate entry_media table")

	_, err = db.Pool.Exec(ctx, "TRUNCATE entries.entry")
	require.NoError(t, err, "Failed to truncate entry table")

	_, err = db.Pool.Exec(ctx, "TRUNCATE entries.users")
	require.NoError(t, err, "Failed to truncate users table")

	_, err = db.Pool.Exec(ctx, "TRUNCATE entries.media")
	require.NoError(t, err, "Failed to truncate media table")
}

// Close closes the database connection
func (db *TestDB) Close(t *testing.T) {
	t.Helper()
	db.Pool.Close()
}

// RunTest runs a test with database setup and cleanup
func RunTest(t *testing.T, testFunc func(t *testing.T, db *TestDB)) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db := NewTestDB(t)
	defer db.Close(t)

	db.Setup(t)
	db.Cleanup(t)

	testFunc(t, db)
}
