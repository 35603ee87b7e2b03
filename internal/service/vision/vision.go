// Package vision defines the object detection capability shared by the stream
// relay and the upload analysis path.
package vision

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when no detection model could be loaded.
	ErrUnavailable = errors.New("detection capability unavailable")
	// ErrDecode is returned when the input bytes are not a decodable image.
	ErrDecode = errors.New("failed to decode image")
	// ErrEncode is returned when the annotated image cannot be re-encoded.
	ErrEncode = errors.New("failed to encode image")
)

// BBox is an axis-aligned box in source-image pixel coordinates.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Center returns the box center in pixels.
func (b BBox) Center() (float64, float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// NormalizedCenter returns the box center divided by the image size.
func (b BBox) NormalizedCenter(width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	x, y := b.Center()
	return x / float64(width), y / float64(height)
}

// Slice returns the box as [x1, y1, x2, y2].
func (b BBox) Slice() []float64 {
	return []float64{b.X1, b.Y1, b.X2, b.Y2}
}

type Detection struct {
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	Box        BBox    `json:"bbox"`
}

// Result is the output of one inference call.
type Result struct {
	Detections []Detection `json:"detections"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	// Annotated is the input re-encoded as JPEG with detections drawn on it.
	Annotated []byte `json:"-"`
}

// Capability runs object detection on encoded images. Implementations must be
// safe for concurrent use; non-reentrant backends serialize internally.
type Capability interface {
	Available() bool
	Name() string
	Infer(ctx context.Context, img []byte) (*Result, error)
}

// Nop is the capability used when no model could be loaded.
type Nop struct{}

func (Nop) Available() bool { return false }

func (Nop) Name() string { return "none" }

func (Nop) Infer(context.Context, []byte) (*Result, error) {
	return nil, ErrUnavailable
}

// IsAvailable reports whether c is non-nil and has a loaded model.
func IsAvailable(c Capability) bool {
	return c != nil && c.Available()
}
