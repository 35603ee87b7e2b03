package dto

import (
	"encoding/json"
	"time"
)

// QueryItem is one observation in a search or recent listing.
type QueryItem struct {
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Time     time.Time `json:"time"`
	ImageURL string    `json:"image_url"`
}

// MarshalJSON formats Time as RFC 3339 without fractional seconds.
func (q QueryItem) MarshalJSON() ([]byte, error) {
	type Alias QueryItem
	return json.Marshal(&struct {
		Time string `json:"time"`
		Alias
	}{
		Time:  q.Time.Format(time.RFC3339),
		Alias: (Alias)(q),
	})
}

// QueryResponse carries matches, or an explanatory message and an empty list.
type QueryResponse struct {
	Message string      `json:"message,omitempty"`
	Items   []QueryItem `json:"items"`
}

// NameItem is an object name that has been observed at least once.
type NameItem struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name,omitempty"`
	Display   string `json:"display"`
}

// NamesResponse lists every observed name in alphabetical order.
type NamesResponse struct {
	Names []NameItem `json:"names"`
}
