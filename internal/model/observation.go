package model

import "time"

// Observation records that an object was seen at a location in an uploaded
// image. Rows are written once and never updated.
type Observation struct {
	ID         int64     `json:"id"`
	ImageID    int64     `json:"image_id"`
	Name       string    `json:"name"` // canonical class name
	Location   string    `json:"location"`
	Confidence float64   `json:"confidence"`
	X1         float64   `json:"x1"`
	Y1         float64   `json:"y1"`
	X2         float64   `json:"x2"`
	Y2         float64   `json:"y2"`
	Timestamp  time.Time `json:"timestamp"`

	// ImagePath is the stored filename of the image, filled in by reads.
	ImagePath string `json:"image_path"`
}
