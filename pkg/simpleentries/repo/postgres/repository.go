package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-entries/pkg/simpleentries"
)

// DBTX is an interface that allows us to use either a database connection or
// a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements simpleentries.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simpleentries.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simpleentries.Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps store-level failures to the library error
// taxonomy. Unique-constraint violations are the authoritative enforcement
// for slug uniqueness and media attachment; everything else propagates as an
// infrastructure failure.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "entry_media") {
				return simpleentries.ErrMediaAlreadyAttached
			}
			return simpleentries.ErrSlugConflict
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const entryColumns = `id, collection, slug, title, content, fields, status,
               created_by, updated_by, created_at, updated_at, published_at`

func scanEntry(row pgx.Row) (*simpleentries.Entry, error) {
	var entry simpleentries.Entry
	err := row.Scan(
		&entry.ID, &entry.Collection, &entry.Slug, &entry.Title,
		&entry.Content, &entry.Fields, &entry.Status,
		&entry.CreatedBy, &entry.UpdatedBy,
		&entry.CreatedAt, &entry.UpdatedAt, &entry.PublishedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Entry operations

func (r *Repository) CreateEntry(ctx context.Context, entry *simpleentries.Entry) error {
	query := `
		INSERT INTO entry (
			id, collection, slug, title, content, fields, status,
			created_by, updated_by, created_at, updated_at, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Collection, entry.Slug, entry.Title,
		entry.Content, entry.Fields, entry.Status,
		entry.CreatedBy, entry.UpdatedBy,
		entry.CreatedAt, entry.UpdatedAt, entry.PublishedAt)

	if err != nil {
		return r.handlePostgresError("create entry", err)
	}
	return nil
}

func (r *Repository) GetEntryByID(ctx context.Context, id uuid.UUID, rel simpleentries.Relations) (*simpleentries.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entry WHERE id = $1`

	entry, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleentries.ErrEntryNotFound
		}
		return nil, r.handlePostgresError("get entry by id", err)
	}

	if err := r.loadRelations(ctx, []*simpleentries.Entry{entry}, rel); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *Repository) GetEntryBySlug(ctx context.Context, collection, slug string, statuses []simpleentries.EntryStatus, rel simpleentries.Relations) (*simpleentries.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entry WHERE collection = $1 AND slug = $2`
	args := []interface{}{collection, slug}
	if len(statuses) > 0 {
		query += " AND status = ANY($3)"
		args = append(args, statusStrings(statuses))
	}

	entry, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleentries.ErrEntryNotFound
		}
		return nil, r.handlePostgresError("get entry by slug", err)
	}

	if err := r.loadRelations(ctx, []*simpleentries.Entry{entry}, rel); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *Repository) ListEntries(ctx context.Context, params simpleentries.ListEntriesParams) ([]*simpleentries.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entry WHERE collection = $1`
	args := []interface{}{params.Collection}
	argIndex := 2

	if len(params.Statuses) > 0 {
		query += fmt.Sprintf(" AND status = ANY($%d)", argIndex)
		args = append(args, statusStrings(params.Statuses))
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if params.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *params.Limit)
		argIndex++
	}
	if params.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *params.Offset)
		argIndex++
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list entries", err)
	}
	defer rows.Close()

	var entries []*simpleentries.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate entry rows", err)
	}

	if err := r.loadRelations(ctx, entries, params.Include); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) CountEntries(ctx context.Context, collection string, statuses []simpleentries.EntryStatus) (int64, error) {
	query := "SELECT COUNT(*) FROM entry WHERE collection = $1"
	args := []interface{}{collection}
	if len(statuses) > 0 {
		query += " AND status = ANY($2)"
		args = append(args, statusStrings(statuses))
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, r.handlePostgresError("count entries", err)
	}
	return count, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry *simpleentries.Entry) error {
	query := `
		UPDATE entry SET
			slug = $2, title = $3, content = $4, fields = $5, status = $6,
			updated_by = $7, updated_at = $8, published_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		entry.ID, entry.Slug, entry.Title, entry.Content, entry.Fields,
		entry.Status, entry.UpdatedBy, entry.UpdatedAt, entry.PublishedAt)
	if err != nil {
		return r.handlePostgresError("update entry", err)
	}
	if tag.RowsAffected() == 0 {
		// The row vanished between the caller's existence check and this
		// update; surface the race instead of silently returning.
		return simpleentries.ErrUpdateConflict
	}
	return nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM entry_media WHERE entry_id = $1`, id); err != nil {
		return r.handlePostgresError("delete entry media", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM entry WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete entry", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleentries.ErrEntryNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Media association operations

func (r *Repository) AttachMedia(ctx context.Context, assoc *simpleentries.EntryMedia) error {
	query := `
		INSERT INTO entry_media (entry_id, media_id, position, caption, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		assoc.EntryID, assoc.MediaID, assoc.Position, assoc.Caption, assoc.CreatedAt)
	if err != nil {
		return r.handlePostgresError("attach media", err)
	}
	return nil
}

func (r *Repository) DetachMedia(ctx context.Context, entryID, mediaID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM entry_media WHERE entry_id = $1 AND media_id = $2`,
		entryID, mediaID)
	if err != nil {
		return r.handlePostgresError("detach media", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleentries.ErrMediaNotFound
	}
	return nil
}

func (r *Repository) ListEntryMedia(ctx context.Context, entryID uuid.UUID) ([]*simpleentries.EntryMedia, error) {
	query := `
		SELECT entry_id, media_id, position, caption, created_at
		FROM entry_media WHERE entry_id = $1
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, query, entryID)
	if err != nil {
		return nil, r.handlePostgresError("list entry media", err)
	}
	defer rows.Close()

	var assocs []*simpleentries.EntryMedia
	for rows.Next() {
		var assoc simpleentries.EntryMedia
		if err := rows.Scan(&assoc.EntryID, &assoc.MediaID, &assoc.Position,
			&assoc.Caption, &assoc.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan entry media", err)
		}
		assocs = append(assocs, &assoc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate entry media rows", err)
	}
	return assocs, nil
}

// Read-only collaborators

func (r *Repository) GetUserProfile(ctx context.Context, id uuid.UUID) (*simpleentries.UserProfile, error) {
	query := `
		SELECT id, first_name, last_name, email, avatar_url
		FROM users WHERE id = $1`

	var profile simpleentries.UserProfile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.FirstName, &profile.LastName,
		&profile.Email, &profile.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleentries.ErrProfileNotFound
		}
		return nil, r.handlePostgresError("get user profile", err)
	}
	return &profile, nil
}

func (r *Repository) GetMediaAsset(ctx context.Context, id uuid.UUID) (*simpleentries.MediaAsset, error) {
	query := `
		SELECT id, file_name, mime_type, size_bytes, storage_key,
		       width, height, alt_text
		FROM media WHERE id = $1`

	var asset simpleentries.MediaAsset
	err := r.db.QueryRow(ctx, query, id).Scan(
		&asset.ID, &asset.FileName, &asset.MimeType, &asset.SizeBytes,
		&asset.StorageKey, &asset.Width, &asset.Height, &asset.AltText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleentries.ErrMediaNotFound
		}
		return nil, r.handlePostgresError("get media asset", err)
	}
	return &asset, nil
}

// Relation loading

// loadRelations extends already-fetched entries with their creator profile
// and/or ordered media associations. Both loads batch over all entries.
func (r *Repository) loadRelations(ctx context.Context, entries []*simpleentries.Entry, rel simpleentries.Relations) error {
	if len(entries) == 0 || !rel.Any() {
		return nil
	}

	if rel.Creator {
		if err := r.loadCreators(ctx, entries); err != nil {
			return err
		}
	}
	if rel.Media {
		if err := r.loadMedia(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) loadCreators(ctx context.Context, entries []*simpleentries.Entry) error {
	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		if !seen[entry.CreatedBy] {
			seen[entry.CreatedBy] = true
			ids = append(ids, entry.CreatedBy)
		}
	}

	query := `
		SELECT id, first_name, last_name, email, avatar_url
		FROM users WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return r.handlePostgresError("load creators", err)
	}
	defer rows.Close()

	profiles := make(map[uuid.UUID]*simpleentries.UserProfile, len(ids))
	for rows.Next() {
		var profile simpleentries.UserProfile
		if err := rows.Scan(&profile.ID, &profile.FirstName, &profile.LastName,
			&profile.Email, &profile.AvatarURL); err != nil {
			return r.handlePostgresError("scan user profile", err)
		}
		profiles[profile.ID] = &profile
	}
	if err := rows.Err(); err != nil {
		return r.handlePostgresError("iterate user profile rows", err)
	}

	for _, entry := range entries {
		entry.Creator = profiles[entry.CreatedBy]
	}
	return nil
}

func (r *Repository) loadMedia(ctx context.Context, entries []*simpleentries.Entry) error {
	ids := make([]uuid.UUID, 0, len(entries))
	byID := make(map[uuid.UUID]*simpleentries.Entry, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
		byID[entry.ID] = entry
	}

	query := `
		SELECT em.entry_id, em.media_id, em.position, em.caption, em.created_at,
		       m.id, m.file_name, m.mime_type, m.size_bytes, m.storage_key,
		       m.width, m.height, m.alt_text
		FROM entry_media em
		JOIN media m ON em.media_id = m.id
		WHERE em.entry_id = ANY($1)
		ORDER BY em.entry_id, em.position ASC`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return r.handlePostgresError("load media", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assoc simpleentries.EntryMedia
		var asset simpleentries.MediaAsset
		if err := rows.Scan(
			&assoc.EntryID, &assoc.MediaID, &assoc.Position, &assoc.Caption, &assoc.CreatedAt,
			&asset.ID, &asset.FileName, &asset.MimeType, &asset.SizeBytes, &asset.StorageKey,
			&asset.Width, &asset.Height, &asset.AltText); err != nil {
			return r.handlePostgresError("scan entry media", err)
		}
		assoc.Asset = &asset
		if entry, exists := byID[assoc.EntryID]; exists {
			entry.Media = append(entry.Media, &assoc)
		}
	}
	if err := rows.Err(); err != nil {
		return r.handlePostgresError("iterate entry media rows", err)
	}
	return nil
}

func statusStrings(statuses []simpleentries.EntryStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
