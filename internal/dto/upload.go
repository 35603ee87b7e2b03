package dto

// DetectedItem is one recorded detection in an upload response.
type DetectedItem struct {
	Name          string    `json:"name"`
	Confidence    float64   `json:"confidence"`
	LocationDesc  string    `json:"location_desc"`
	BBox          []float64 `json:"bbox"`
	AnnotatedPath string    `json:"annotated_path"`
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	Status       string         `json:"status"`
	Filename     string         `json:"filename"`
	Detected     []DetectedItem `json:"detected"`
	AnnotatedURL string         `json:"annotated_url"`
	Cached       bool           `json:"cached,omitempty"`
}
