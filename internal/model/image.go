package model

import "time"

// Image is one uploaded picture kept in the image directory.
type Image struct {
	ID                int64     `json:"id"`
	Filename          string    `json:"filename"`
	AnnotatedFilename string    `json:"annotated_filename,omitempty"`
	MD5               string    `json:"md5"`
	FileSize          int64     `json:"filesize"`
	Timestamp         time.Time `json:"timestamp"`
}
