// Package zone turns a normalized point into a human-readable location label.
package zone

import "findit/internal/service/vision"

// Horizontal band edges used when no configured zone contains the point.
const (
	LeftBandEdge  = 0.33
	RightBandEdge = 0.66
)

// Zone is a named rectangle in normalized image coordinates. Bounds are
// inclusive. XMin <= XMax and YMin <= YMax are assumed, not checked.
type Zone struct {
	Name        string
	XMin        float64
	XMax        float64
	YMin        float64
	YMax        float64
	Description string
}

// Contains reports whether (x, y) lies inside the zone, edges included.
func (z Zone) Contains(x, y float64) bool {
	return z.XMin <= x && x <= z.XMax && z.YMin <= y && y <= z.YMax
}

// Labels are the fallback band descriptions.
type Labels struct {
	Left   string
	Center string
	Right  string
}

var localeLabels = map[string]Labels{
	"zh": {Left: "左侧", Center: "中间", Right: "右侧"},
	"en": {Left: "left side", Center: "center", Right: "right side"},
}

// LabelsFor returns the band labels for locale, defaulting to zh.
func LabelsFor(locale string) Labels {
	if l, ok := localeLabels[locale]; ok {
		return l
	}
	return localeLabels["zh"]
}

// Classifier is read-only after construction and safe for concurrent use.
type Classifier struct {
	zones  []Zone
	labels Labels
}

func NewClassifier(zones []Zone, labels Labels) *Classifier {
	return &Classifier{
		zones:  append([]Zone(nil), zones...),
		labels: labels,
	}
}

// Classify returns the description of the first zone, in configuration order,
// containing (x, y). Overlaps are resolved by that order only. Points outside
// every zone fall back to a left/center/right banding on x.
func (c *Classifier) Classify(x, y float64) string {
	for _, z := range c.zones {
		if z.Contains(x, y) {
			return z.Description
		}
	}
	return c.band(x)
}

// ClassifyBox classifies the center of box in an image of the given size.
func (c *Classifier) ClassifyBox(box vision.BBox, width, height int) string {
	x, y := box.NormalizedCenter(width, height)
	return c.Classify(x, y)
}

func (c *Classifier) band(x float64) string {
	switch {
	case x < LeftBandEdge:
		return c.labels.Left
	case x > RightBandEdge:
		return c.labels.Right
	default:
		return c.labels.Center
	}
}

// Zones returns a copy of the configured zones in order.
func (c *Classifier) Zones() []Zone {
	return append([]Zone(nil), c.zones...)
}

func (c *Classifier) Labels() Labels {
	return c.labels
}
