package main

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"findit/internal/model"
	"findit/internal/repository/sqlite"

	"github.com/urfave/cli/v2"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LOG_DIR", filepath.Join(t.TempDir(), "logs"))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	if err := app.Run(append([]string{"findit"}, args...)); err != nil {
		t.Fatalf("findit %v failed: %v", args, err)
	}
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveCommand(t *testing.T) {
	aliases := writeFile(t, "aliases.json", `{"bus": ["公交车", "巴士"], "cell phone": ["手机"]}`)

	out := run(t, "resolve", "--aliases", aliases, "公交车")

	if !strings.Contains(out, "tier:  exact") {
		t.Errorf("Expected exact tier, got %q", out)
	}
	if !strings.Contains(out, "公交车 (bus)") {
		t.Errorf("Expected display name, got %q", out)
	}
}

func TestClassifyCommand(t *testing.T) {
	zones := writeFile(t, "zones.json", `{"desk": {"x_min": 0.4, "x_max": 0.6, "y_min": 0.3, "y_max": 0.5, "description": "on the desk"}}`)

	tests := []struct {
		x, y     string
		expected string
	}{
		{"0.5", "0.4", "on the desk"},
		{"0.1", "0.9", "左侧"},
		{"0.9", "0.9", "右侧"},
	}

	for _, tt := range tests {
		out := run(t, "classify", "--zones", zones, "--x", tt.x, "--y", tt.y)
		if strings.TrimSpace(out) != tt.expected {
			t.Errorf("(%s,%s): expected %q, got %q", tt.x, tt.y, tt.expected, out)
		}
	}
}

func TestRelayCommand_StopsAtFrameLimit(t *testing.T) {
	var frame bytes.Buffer
	if err := jpeg.Encode(&frame, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=cam")
		for i := 0; i < 5; i++ {
			w.Write([]byte("--cam\r\nContent-Type: image/jpeg\r\n\r\n"))
			w.Write(frame.Bytes())
			w.Write([]byte("\r\n"))
		}
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "frames")
	out := run(t, "relay", "--url", srv.URL, "--out", dir, "--frames", "3")

	if !strings.HasPrefix(out, "wrote 3 frames") {
		t.Errorf("Unexpected output %q", out)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if len(files) != 3 {
		t.Fatalf("Expected 3 frame files, got %d", len(files))
	}
	got, _ := os.ReadFile(files[0])
	if !bytes.Equal(got, frame.Bytes()) {
		t.Error("Expected frames to be written unmodified")
	}
}

func TestPruneCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findit.db")
	db, err := sqlite.New(path)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	_, err = sqlite.NewImageRepository(db).InsertWithObservations(&model.Image{Filename: "a.jpg", Timestamp: now}, []model.Observation{
		{Name: "bus", Location: "中间", Timestamp: now.Add(-48 * time.Hour)},
		{Name: "wallet", Location: "左侧", Timestamp: now},
	})
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	out := run(t, "prune", "--db", path, "--older-than", "24h")

	if strings.TrimSpace(out) != "removed 1 observations" {
		t.Errorf("Unexpected output %q", out)
	}
}
