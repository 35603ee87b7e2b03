package storage

import (
	"os"
	"regexp"
	"testing"
	"time"

	"findit/internal/logger"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	store.now = func() time.Time { return time.Date(2025, 3, 1, 9, 5, 7, 0, time.Local) }
	return store
}

func TestImageStore_SaveNaming(t *testing.T) {
	store := newTestStore(t)
	pattern := regexp.MustCompile(`^20250301_090507_[0-9a-f]{6}\.(jpg|png)$`)

	tests := []struct {
		original string
		ext      string
	}{
		{"photo.jpg", ".jpg"},
		{"PHOTO.PNG", ".png"},
		{"noext", ".jpg"},
		{"../../etc/passwd.jpg", ".jpg"},
		{"weird.j/pg", ".jpg"},
	}

	for _, tt := range tests {
		name, err := store.Save(tt.original, []byte("data"))
		if err != nil {
			t.Fatalf("Save(%q) failed: %v", tt.original, err)
		}
		if !pattern.MatchString(name) {
			t.Errorf("Save(%q) produced unexpected name %q", tt.original, name)
		}
		if got := name[len(name)-len(tt.ext):]; got != tt.ext {
			t.Errorf("Save(%q): expected extension %s, got %s", tt.original, tt.ext, got)
		}
		if !store.Exists(name) {
			t.Errorf("Expected %s to exist", name)
		}
	}
}

func TestImageStore_SaveIsUnique(t *testing.T) {
	store := newTestStore(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name, err := store.Save("a.jpg", []byte{byte(i)})
		if err != nil {
			t.Fatal(err)
		}
		if seen[name] {
			t.Fatalf("Duplicate name %s", name)
		}
		seen[name] = true
	}
}

func TestImageStore_ImageURLPrefersAnnotated(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save("x.jpg", []byte("raw"))
	if err != nil {
		t.Fatal(err)
	}
	if got := store.ImageURL(name); got != "/images/"+name {
		t.Errorf("Expected raw URL, got %s", got)
	}

	annotated, err := store.SaveAnnotated(name, []byte("boxes"))
	if err != nil {
		t.Fatal(err)
	}
	if annotated != AnnotatedName(name) {
		t.Errorf("Expected %s, got %s", AnnotatedName(name), annotated)
	}
	if got := store.ImageURL(name); got != "/images/"+annotated {
		t.Errorf("Expected annotated URL, got %s", got)
	}

	data, _ := os.ReadFile(store.Path(annotated))
	if string(data) != "boxes" {
		t.Errorf("Unexpected annotated contents %q", data)
	}
}

func TestImageStore_Remove(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save("x.jpg", []byte("raw"))
	if err != nil {
		t.Fatal(err)
	}
	annotated, err := store.SaveAnnotated(name, []byte("boxes"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(name, annotated, "", "never-written.jpg"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if store.Exists(name) || store.Exists(annotated) {
		t.Error("Expected both files to be removed")
	}
}

func TestAnnotatedName(t *testing.T) {
	tests := map[string]string{
		"20250301_090507_abc123.jpg":        "20250301_090507_abc123_annotated.jpg",
		"images/20250301_090507_abc123.png": "20250301_090507_abc123_annotated.png",
		"noext":                             "noext_annotated",
	}
	for in, want := range tests {
		if got := AnnotatedName(in); got != want {
			t.Errorf("AnnotatedName(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestChecksum(t *testing.T) {
	if got := Checksum(nil); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Unexpected MD5 of empty input: %s", got)
	}
}
