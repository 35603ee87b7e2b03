// Package storage keeps uploaded images and their annotated renderings in the
// image directory.
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"findit/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const (
	// URLPrefix is where the image directory is served.
	URLPrefix = "/images/"
	// AnnotatedSuffix is appended to the base name of an annotated rendering.
	AnnotatedSuffix = "_annotated"

	defaultExt = ".jpg"
)

// ImageStore writes images to a flat directory. File names are unique per
// upload, so concurrent saves never collide.
type ImageStore struct {
	dir    string
	now    func() time.Time
	logger *logger.Logger
}

// NewImageStore creates the store and its directory.
func NewImageStore(dir string, log *logger.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating image directory: %w", err)
	}
	return &ImageStore{dir: dir, now: time.Now, logger: log}, nil
}

// Dir returns the image directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes an uploaded image under a generated name of the form
// YYYYMMDD_HHMMSS_<6 hex>.<ext> and returns that name. The extension is
// taken from original.
func (s *ImageStore) Save(original string, data []byte) (string, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	filename := fmt.Sprintf("%s_%s%s", s.now().Format("20060102_150405"), id, extension(original))

	if err := s.write(filename, data); err != nil {
		return "", err
	}
	return filename, nil
}

// SaveAnnotated writes the annotated rendering of filename next to it and
// returns the annotated name.
func (s *ImageStore) SaveAnnotated(filename string, data []byte) (string, error) {
	annotated := AnnotatedName(filename)
	if err := s.write(annotated, data); err != nil {
		return "", err
	}
	return annotated, nil
}

func (s *ImageStore) write(filename string, data []byte) error {
	fullpath := s.Path(filename)
	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		s.logger.Error("Error saving image %s: %v", filename, err)
		return fmt.Errorf("error saving image %s: %w", filename, err)
	}
	return nil
}

// Remove deletes stored files. Missing files are ignored; other failures are
// logged and returned.
func (s *ImageStore) Remove(filenames ...string) error {
	var errs error
	for _, filename := range filenames {
		if filename == "" {
			continue
		}
		if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
			s.logger.Error("Error removing image %s: %v", filename, err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Path returns the location of a stored file. Only the base name of filename
// is used.
func (s *ImageStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Exists reports whether filename is present in the store.
func (s *ImageStore) Exists(filename string) bool {
	info, err := os.Stat(s.Path(filename))
	return err == nil && !info.IsDir()
}

// ImageURL returns the URL of the annotated rendering of filename when one
// exists on disk, else the URL of filename itself.
func (s *ImageStore) ImageURL(filename string) string {
	if annotated := AnnotatedName(filename); s.Exists(annotated) {
		return URL(annotated)
	}
	return URL(filename)
}

// URL returns the public URL of a stored file.
func URL(filename string) string {
	return URLPrefix + filepath.Base(filename)
}

// AnnotatedName maps "a/b.jpg" to "b_annotated.jpg".
func AnnotatedName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + AnnotatedSuffix + ext
}

// Checksum returns the hex MD5 of data, used as the analysis cache key.
func Checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// extension keeps a short alphanumeric extension from the uploaded name.
func extension(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) < 2 || len(ext) > 6 {
		return defaultExt
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultExt
		}
	}
	return ext
}
