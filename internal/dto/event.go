package dto

import "time"

// ObservationEvent is pushed to live viewers when an observation is recorded.
type ObservationEvent struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Display    string    `json:"display"`
	Location   string    `json:"location"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `json:"image_url"`
	Time       time.Time `json:"time"`
}
