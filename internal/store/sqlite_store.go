package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/models"
)

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *events.Logger
}

// NewSQLiteStore opens (or creates) the database and applies pending
// migrations.
func NewSQLiteStore(dbPath string, logger *events.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.WithField("component", "record_store"),
	}, nil
}

const recordColumns = `id, flavor, store, occasion, price, rating, date,
	photo_url, s3_key, user_id, synced, last_modified, latitude, longitude, place_id`

// Create persists a new record, assigning an ID if absent.
func (s *SQLiteStore) Create(rec *models.DrinkRecord) (*models.DrinkRecord, error) {
	r := *rec
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.LastModified.IsZero() {
		r.LastModified = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO drinks (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Flavor, r.Store, r.Occasion, r.Price, r.Rating, r.Date,
		r.PhotoURL, r.S3Key, r.UserID, boolToInt(r.Synced),
		r.LastModified.UnixMilli(), r.Latitude, r.Longitude, r.PlaceID)
	if err != nil {
		return nil, &models.StoreError{Op: "create", ID: r.ID, Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"id":    r.ID,
		"store": r.Store,
	}).Debug("Created record")

	return &r, nil
}

// Find returns a single record by ID.
func (s *SQLiteStore) Find(id string) (*models.DrinkRecord, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM drinks WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, &models.StoreError{Op: "find", ID: id, Err: err}
	}
	return rec, nil
}

// All returns every record.
func (s *SQLiteStore) All() ([]*models.DrinkRecord, error) {
	return s.query(`SELECT ` + recordColumns + ` FROM drinks`)
}

// ForUser returns every record owned by userID.
func (s *SQLiteStore) ForUser(userID string) ([]*models.DrinkRecord, error) {
	return s.query(`SELECT `+recordColumns+` FROM drinks WHERE user_id = ?`, userID)
}

func (s *SQLiteStore) query(q string, args ...interface{}) ([]*models.DrinkRecord, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, &models.StoreError{Op: "query", Err: err}
	}
	defer rows.Close()

	var records []*models.DrinkRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &models.StoreError{Op: "scan", Err: err}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: "iterate", Err: err}
	}

	return records, nil
}

// Update applies mutate inside a transaction and advances LastModified.
// The mutated record is no longer known to match the backup blob, so the
// synced flag is cleared.
func (s *SQLiteStore) Update(id string, mutate func(*models.DrinkRecord)) (*models.DrinkRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, &models.StoreError{Op: "update", ID: id, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRow(`SELECT `+recordColumns+` FROM drinks WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, &models.StoreError{Op: "update", ID: id, Err: err}
	}

	origID := rec.ID
	mutate(rec)
	rec.ID = origID // the id is immutable
	rec.Synced = false
	rec.LastModified = time.Now()

	_, err = tx.Exec(`
		UPDATE drinks SET
			flavor = ?, store = ?, occasion = ?, price = ?, rating = ?, date = ?,
			photo_url = ?, s3_key = ?, user_id = ?, synced = ?, last_modified = ?,
			latitude = ?, longitude = ?, place_id = ?
		WHERE id = ?`,
		rec.Flavor, rec.Store, rec.Occasion, rec.Price, rec.Rating, rec.Date,
		rec.PhotoURL, rec.S3Key, rec.UserID, boolToInt(rec.Synced),
		rec.LastModified.UnixMilli(), rec.Latitude, rec.Longitude, rec.PlaceID,
		rec.ID)
	if err != nil {
		return nil, &models.StoreError{Op: "update", ID: id, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &models.StoreError{Op: "update", ID: id, Err: err}
	}

	return rec, nil
}

// Destroy permanently removes a record.
func (s *SQLiteStore) Destroy(id string) error {
	res, err := s.db.Exec(`DELETE FROM drinks WHERE id = ?`, id)
	if err != nil {
		return &models.StoreError{Op: "destroy", ID: id, Err: err}
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrRecordNotFound
	}

	s.logger.WithField("id", id).Debug("Destroyed record")
	return nil
}

// MarkSynced flips the synced flag for all given IDs in one transaction.
func (s *SQLiteStore) MarkSynced(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &models.StoreError{Op: "mark_synced", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err = tx.Exec(`UPDATE drinks SET synced = 1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return &models.StoreError{Op: "mark_synced", Err: err}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for schema inspection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*models.DrinkRecord, error) {
	var (
		rec      models.DrinkRecord
		synced   int
		modified int64
		lat, lng sql.NullFloat64
	)

	err := row.Scan(&rec.ID, &rec.Flavor, &rec.Store, &rec.Occasion, &rec.Price,
		&rec.Rating, &rec.Date, &rec.PhotoURL, &rec.S3Key, &rec.UserID,
		&synced, &modified, &lat, &lng, &rec.PlaceID)
	if err != nil {
		return nil, err
	}

	rec.Synced = synced != 0
	rec.LastModified = time.UnixMilli(modified)
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lng.Valid {
		rec.Longitude = &lng.Float64
	}

	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
