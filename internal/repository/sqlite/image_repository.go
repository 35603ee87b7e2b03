package sqlite

import (
	"fmt"

	"findit/internal/model"
)

// ImageRepository implements repository.ImageRepository for SQLite.
type ImageRepository struct {
	db *DB
}

// NewImageRepository creates a new SQLite image repository.
func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// InsertWithObservations adds an image record and the observations found in it
// in one transaction, so a failed upload leaves no rows behind. The image ID is
// assigned to every observation.
func (r *ImageRepository) InsertWithObservations(img *model.Image, observations []model.Observation) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO images (filename, annotated_filename, md5, filesize, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, img.Filename, img.AnnotatedFilename, img.MD5, img.FileSize, img.Timestamp.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read image id: %w", err)
	}

	if err := insertObservations(tx, id, observations); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit image %s: %w", img.Filename, err)
	}
	img.ID = id
	return id, nil
}

// Count returns the number of stored images.
func (r *ImageRepository) Count() (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM images`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}
