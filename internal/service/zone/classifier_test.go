package zone

import (
	"os"
	"path/filepath"
	"testing"

	"findit/internal/logger"
	"findit/internal/service/vision"
)

var enLabels = LabelsFor("en")

func TestClassify_FallbackBands(t *testing.T) {
	c := NewClassifier(nil, enLabels)

	tests := []struct {
		x    float64
		want string
	}{
		{0, "left side"},
		{0.1, "left side"},
		{0.3299, "left side"},
		{0.33, "center"},
		{0.5, "center"},
		{0.66, "center"},
		{0.6601, "right side"},
		{0.9, "right side"},
		{1, "right side"},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.x, 0.5); got != tt.want {
			t.Errorf("Classify(%v, 0.5) = %q, expected %q", tt.x, got, tt.want)
		}
	}
}

func TestClassify_FirstZoneWins(t *testing.T) {
	zones := []Zone{
		{Name: "shelf", XMin: 0.2, XMax: 0.8, YMin: 0.2, YMax: 0.8, Description: "on the shelf"},
		{Name: "box", XMin: 0.4, XMax: 0.6, YMin: 0.4, YMax: 0.6, Description: "in the box"},
	}

	if got := NewClassifier(zones, enLabels).Classify(0.5, 0.5); got != "on the shelf" {
		t.Errorf("Expected first configured zone to win, got %q", got)
	}

	reversed := []Zone{zones[1], zones[0]}
	if got := NewClassifier(reversed, enLabels).Classify(0.5, 0.5); got != "in the box" {
		t.Errorf("Expected configuration order to decide overlap, got %q", got)
	}
}

func TestClassify_InclusiveEdges(t *testing.T) {
	z := Zone{XMin: 0.4, XMax: 0.6, YMin: 0.3, YMax: 0.5, Description: "desk"}
	c := NewClassifier([]Zone{z}, enLabels)

	for _, p := range [][2]float64{{0.4, 0.3}, {0.6, 0.5}, {0.4, 0.5}, {0.6, 0.3}} {
		if got := c.Classify(p[0], p[1]); got != "desk" {
			t.Errorf("Classify(%v, %v) = %q, expected edge to be inside", p[0], p[1], got)
		}
	}
	if got := c.Classify(0.5, 0.51); got != "center" {
		t.Errorf("Expected point just outside zone to fall back, got %q", got)
	}
}

func TestClassify_MalformedZoneNeverMatches(t *testing.T) {
	inverted := Zone{XMin: 0.8, XMax: 0.2, YMin: 0, YMax: 1, Description: "never"}
	c := NewClassifier([]Zone{inverted}, enLabels)

	if got := c.Classify(0.5, 0.5); got != "center" {
		t.Errorf("Expected inverted zone to be ignored, got %q", got)
	}
}

func TestClassifyBox_DeskExample(t *testing.T) {
	zones, _, err := Parse([]byte(`{"desk": {"x_min": 0.4, "x_max": 0.6, "y_min": 0.3, "y_max": 0.5, "description": "on the desk"}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := NewClassifier(zones, enLabels)

	// 1000x1000 image, box centered at (500, 400)
	if got := c.ClassifyBox(vision.BBox{X1: 450, Y1: 350, X2: 550, Y2: 450}, 1000, 1000); got != "on the desk" {
		t.Errorf("Expected on the desk, got %q", got)
	}
	// centered at (100, 500)
	if got := c.ClassifyBox(vision.BBox{X1: 50, Y1: 450, X2: 150, Y2: 550}, 1000, 1000); got != "left side" {
		t.Errorf("Expected left band fallback, got %q", got)
	}
}

func TestLabelsFor_DefaultsToChinese(t *testing.T) {
	l := LabelsFor("fr")
	if l.Left != "左侧" || l.Center != "中间" || l.Right != "右侧" {
		t.Errorf("Unexpected default labels: %+v", l)
	}
}

func TestParse_KeepsOrderAndSkipsIncomplete(t *testing.T) {
	data := []byte(`{
		"table": {"x_min": 0, "x_max": 0.5, "y_min": 0, "y_max": 1, "description": "on the table"},
		"broken": {"x_min": 0, "description": "no bounds"},
		"sofa": {"x_min": 0.5, "x_max": 1, "y_min": 0, "y_max": 1, "description": "on the sofa"}
	}`)

	zones, warnings, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("Expected 2 zones, got %d", len(zones))
	}
	if zones[0].Name != "table" || zones[1].Name != "sofa" {
		t.Errorf("Expected file order [table sofa], got [%s %s]", zones[0].Name, zones[1].Name)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", warnings)
	}
}

func TestLoadOrEmpty_DegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewNop()

	if zones := LoadOrEmpty(filepath.Join(dir, "missing.json"), log); len(zones) != 0 {
		t.Errorf("Expected no zones for missing file, got %d", len(zones))
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"desk": [`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if zones := LoadOrEmpty(bad, log); len(zones) != 0 {
		t.Errorf("Expected no zones for unparsable file, got %d", len(zones))
	}
}

func TestLoad_ReadsFileInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.json")
	data := `{
		"desk": {"x_min": 0.4, "x_max": 0.6, "y_min": 0.3, "y_max": 0.5, "description": "on the desk"},
		"door": {"x_min": 0, "x_max": 0.2, "y_min": 0, "y_max": 1, "description": "by the door"},
		"desk": {"x_min": 0.3, "x_max": 0.7, "y_min": 0.3, "y_max": 0.5, "description": "on the big desk"}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	zones, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("Expected 2 zones, got %d", len(zones))
	}
	if zones[0].Name != "desk" || zones[0].Description != "on the big desk" {
		t.Errorf("Expected the repeated desk to replace the first in place, got %+v", zones[0])
	}
	if zones[1].Name != "door" {
		t.Errorf("Expected door second, got %s", zones[1].Name)
	}
}
