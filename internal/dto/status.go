package dto

// Message is the body of plain informational and error responses.
type Message struct {
	Message string `json:"message"`
}

// ModelStatus reports whether the detection capability works.
type ModelStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ModelType string `json:"model_type,omitempty"`
	// ImageCount is the number of stored uploads, omitted when unknown.
	ImageCount *int `json:"image_count,omitempty"`
}
