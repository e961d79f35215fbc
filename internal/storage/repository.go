package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/subtriage/internal/subscription"
)

// Repository keeps the last manually exported snapshot of a triage session.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS records (
  position INTEGER PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  handle TEXT NOT NULL,
  subscription_id TEXT,
  sub_count TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL,
  avatar_url TEXT,
  tags TEXT NOT NULL,
  exported_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable fails early when the database file cannot be written.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS write_probe (id INTEGER)`); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot with records, keeping their order.
func (r *Repository) SaveSnapshot(ctx context.Context, records []subscription.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (position, id, name, handle, subscription_id, sub_count, description, status, avatar_url, tags, exported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, rec := range records {
		tags, err := json.Marshal(rec.Clone().Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", rec.ID, err)
		}
		_, err = stmt.ExecContext(
			ctx,
			i,
			rec.ID,
			rec.Name,
			rec.Handle,
			nullString(rec.SubscriptionID),
			rec.SubCount,
			rec.Description,
			rec.Status.String(),
			nullString(rec.AvatarURL),
			string(tags),
			now,
		)
		if err != nil {
			return fmt.Errorf("save record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) LoadSnapshot(ctx context.Context) ([]subscription.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, handle, subscription_id, sub_count, description, status, avatar_url, tags
FROM records
ORDER BY position ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]subscription.Record, 0)
	for rows.Next() {
		var (
			rec            subscription.Record
			subscriptionID sql.NullString
			description    sql.NullString
			status         string
			avatarURL      sql.NullString
			tags           string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Handle,
			&subscriptionID,
			&rec.SubCount,
			&description,
			&status,
			&avatarURL,
			&tags,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.Status, err = subscription.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", rec.ID, err)
		}
		rec.SubscriptionID = subscriptionID.String
		rec.Description = description.String
		rec.AvatarURL = avatarURL.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
