package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"keepsake/internal/config"
)

// Store manages record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the record database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save upserts a record by identifier. An existing record with the same id is
// fully replaced, images included, inside a single transaction; the write is
// committed before Save returns.
func (s *Store) Save(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if record.ID == "" {
		return errors.New("record id is empty")
	}

	editsJSON, err := marshalEdits(record.Edits)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Delete-then-insert gives last-write-wins replacement; the image rows go
	// with the old row via the FK cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, record.ID); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO records (
            id, name, created_at, status, thumbnail, operation_id,
            world_id, primary_asset, collider_asset, edits_json, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Name,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		record.Status,
		nullableString(record.Thumbnail),
		nullableString(record.OperationID),
		nullableString(record.WorldID),
		nullableBytes(record.PrimaryAsset),
		nullableBytes(record.ColliderAsset),
		editsJSON,
		nullableString(record.Error),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	for position, image := range record.Images {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO record_images (record_id, position, data) VALUES (?, ?, ?)`,
			record.ID,
			position,
			image,
		); err != nil {
			return fmt.Errorf("insert record image %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// GetByID fetches a record by identifier. A missing record yields (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if err := s.loadImages(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetAll returns every stored record ordered by creation time.
func (s *Store) GetAll(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, record := range result {
		if err := s.loadImages(ctx, record); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Delete removes a record by identifier. Image rows follow via the FK
// cascade; the return value reports whether a record existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// CountByStatus returns a count of records grouped by status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM records GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("record stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func (s *Store) loadImages(ctx context.Context, record *Record) error {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT data FROM record_images WHERE record_id = ? ORDER BY position`,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("load record images: %w", err)
	}
	defer rows.Close()

	var images [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("scan record image: %w", err)
		}
		images = append(images, data)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	record.Images = images
	return nil
}

const recordColumns = "id, name, created_at, status, thumbnail, operation_id, world_id, primary_asset, collider_asset, edits_json, error_message"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id            string
		name          string
		createdRaw    string
		statusStr     string
		thumbnail     sql.NullString
		operationID   sql.NullString
		worldID       sql.NullString
		primaryAsset  []byte
		colliderAsset []byte
		editsJSON     sql.NullString
		errorMessage  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&createdRaw,
		&statusStr,
		&thumbnail,
		&operationID,
		&worldID,
		&primaryAsset,
		&colliderAsset,
		&editsJSON,
		&errorMessage,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:            id,
		Name:          name,
		Status:        Status(statusStr),
		Thumbnail:     thumbnail.String,
		OperationID:   operationID.String,
		WorldID:       worldID.String,
		PrimaryAsset:  primaryAsset,
		ColliderAsset: colliderAsset,
		Error:         errorMessage.String,
	}

	created, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for record %s: %w", id, err)
	}
	record.CreatedAt = created

	if editsJSON.Valid && editsJSON.String != "" {
		edits := &SceneEdits{}
		if err := json.Unmarshal([]byte(editsJSON.String), edits); err != nil {
			return nil, fmt.Errorf("decode edits for record %s: %w", id, err)
		}
		record.Edits = edits
	}

	return record, nil
}

func marshalEdits(edits *SceneEdits) (any, error) {
	if edits == nil {
		return nil, nil
	}
	data, err := json.Marshal(edits)
	if err != nil {
		return nil, fmt.Errorf("encode edits: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return value
}
