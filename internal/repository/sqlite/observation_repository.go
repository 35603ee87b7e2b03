package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"findit/internal/model"
)

// ObservationRepository implements repository.ObservationRepository for SQLite.
type ObservationRepository struct {
	db *DB
}

// NewObservationRepository creates a new SQLite observation repository.
func NewObservationRepository(db *DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

const selectObservations = `
	SELECT o.id, o.image_id, o.name, o.location, o.confidence,
		o.x1, o.y1, o.x2, o.y2, o.timestamp, i.filename
	FROM observations o
	JOIN images i ON i.id = o.image_id
`

const newestFirst = ` ORDER BY o.timestamp DESC, o.id DESC`

// insertObservations adds observations of image imageID within tx.
func insertObservations(tx *sql.Tx, imageID int64, observations []model.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO observations (image_id, name, location, confidence, x1, y1, x2, y2, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range observations {
		o := &observations[i]
		o.ImageID = imageID
		if _, err := stmt.Exec(o.ImageID, o.Name, o.Location, o.Confidence, o.X1, o.Y1, o.X2, o.Y2, o.Timestamp.UTC()); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}
	return nil
}

// FindByNames returns observations whose name is one of names.
func (r *ObservationRepository) FindByNames(names []string) ([]model.Observation, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]interface{}, len(names))
	for i, name := range names {
		args[i] = name
	}

	return r.query(selectObservations+`WHERE o.name IN (`+placeholders+`)`+newestFirst, args...)
}

// FindByNameContains returns observations whose name contains fragment,
// ignoring ASCII case.
func (r *ObservationRepository) FindByNameContains(fragment string) ([]model.Observation, error) {
	pattern := "%" + escapeLike(fragment) + "%"
	return r.query(selectObservations+`WHERE o.name LIKE ? ESCAPE '\'`+newestFirst, pattern)
}

// Recent returns the latest observations.
func (r *ObservationRepository) Recent(limit int) ([]model.Observation, error) {
	if limit <= 0 {
		return nil, nil
	}
	return r.query(selectObservations+newestFirst+` LIMIT ?`, limit)
}

// GetAllNames returns every distinct observed name.
func (r *ObservationRepository) GetAllNames() ([]string, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT DISTINCT name FROM observations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteOlderThan removes observations recorded before t and returns how many
// were removed. Timestamps are stored in UTC so they compare as text.
func (r *ObservationRepository) DeleteOlderThan(t time.Time) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`DELETE FROM observations WHERE timestamp < ?`, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete observations: %w", err)
	}
	return result.RowsAffected()
}

func (r *ObservationRepository) query(query string, args ...interface{}) ([]model.Observation, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

func scanObservations(rows *sql.Rows) ([]model.Observation, error) {
	var observations []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.ID, &o.ImageID, &o.Name, &o.Location, &o.Confidence,
			&o.X1, &o.Y1, &o.X2, &o.Y2, &o.Timestamp, &o.ImagePath); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
