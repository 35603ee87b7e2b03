package repository

import (
	"time"

	"findit/internal/model"
)

// ImageRepository defines the interface for uploaded image records.
type ImageRepository interface {
	// InsertWithObservations stores an image and its observations atomically.
	InsertWithObservations(img *model.Image, observations []model.Observation) (int64, error)
	Count() (int, error)
}

// ObservationRepository defines the interface for observation records.
type ObservationRepository interface {
	// Read operations return newest first.
	FindByNames(names []string) ([]model.Observation, error)
	FindByNameContains(fragment string) ([]model.Observation, error)
	Recent(limit int) ([]model.Observation, error)
	GetAllNames() ([]string, error)

	// DeleteOlderThan removes observations recorded before t.
	DeleteOlderThan(t time.Time) (int64, error)
}
