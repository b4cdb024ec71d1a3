package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

// ProfileKey is the namespace the single local profile is stored under
const ProfileKey = "coverly/profile"

// Export is a record of a finished download. Only metadata is kept; the
// document itself is recomputed from the profile each session.
type Export struct {
	ID         int
	ProfileKey string
	DocType    models.DocType
	TemplateID string
	Filename   string
	Path       string
	ExportedAt time.Time
}

// Store persists profiles as JSON documents keyed by namespace
type Store struct {
	db  *sql.DB
	key string
}

// NewStore returns a store for the default profile key
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, key: ProfileKey}
}

// WithKey returns a store bound to another profile key
func (s *Store) WithKey(key string) *Store {
	return &Store{db: s.db, key: key}
}

// LoadProfile returns the saved profile, or nil if none has been saved
func (s *Store) LoadProfile(ctx context.Context) (*models.Profile, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE key=?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p := &models.Profile{}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	p.Normalize()
	return p, nil
}

// SaveProfile inserts or replaces the profile
func (s *Store) SaveProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return errors.New("cannot save nil profile")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	query := `INSERT INTO profiles (key, data) VALUES (?, ?)
			  ON CONFLICT(key) DO UPDATE SET data=excluded.data, updated_at=?`
	if _, err := s.db.ExecContext(ctx, query, s.key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// DeleteProfile removes the saved profile and its export history
func (s *Store) DeleteProfile(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE key=?`, s.key)
	return err
}

// RecordExport logs a finished download against the current profile
func (s *Store) RecordExport(ctx context.Context, e *Export) error {
	query := `INSERT INTO exports (profile_key, doc_type, template_id, filename, path)
			  VALUES (?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, s.key, string(e.DocType), e.TemplateID, e.Filename, e.Path)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	id, _ := result.LastInsertId()
	e.ID = int(id)
	e.ProfileKey = s.key
	return nil
}

// ListExports returns the export history, newest first
func (s *Store) ListExports(ctx context.Context, limit int) ([]*Export, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, profile_key, doc_type, template_id, filename, path, exported_at
			  FROM exports WHERE profile_key=? ORDER BY exported_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, s.key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []*Export{}
	for rows.Next() {
		e := &Export{}
		var docType string
		if err := rows.Scan(&e.ID, &e.ProfileKey, &docType, &e.TemplateID, &e.Filename, &e.Path, &e.ExportedAt); err != nil {
			return nil, err
		}
		e.DocType = models.DocType(docType)
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
