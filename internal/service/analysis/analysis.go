// Package analysis implements the upload path: store the image, detect
// objects, locate them, and record observations.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"findit/internal/dto"
	"findit/internal/logger"
	"findit/internal/model"
	"findit/internal/repository"
	"findit/internal/service/alias"
	"findit/internal/service/cache"
	"findit/internal/service/storage"
	"findit/internal/service/vision"
	"findit/internal/service/zone"
)

// ErrEmptyImage is returned for uploads without content.
var ErrEmptyImage = errors.New("uploaded image is empty")

// Publisher receives an event for every recorded observation.
type Publisher interface {
	Broadcast(v interface{})
}

// Deps are the collaborators of a Service. Cache and Publisher may be nil.
type Deps struct {
	Capability vision.Capability
	Classifier *zone.Classifier
	Resolver   *alias.Resolver
	Store      *storage.ImageStore
	Images     repository.ImageRepository
	Cache      cache.AnalysisCache
	Publisher  Publisher
	Logger     *logger.Logger

	// Threshold is the confidence an observation must exceed to be recorded.
	Threshold float64
}

type Service struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Service {
	if d.Capability == nil {
		d.Capability = vision.Nop{}
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Classifier == nil {
		d.Classifier = zone.NewClassifier(nil, zone.LabelsFor(""))
	}
	return &Service{Deps: d, now: time.Now}
}

// Analyze stores an uploaded image and records what it shows. Detection
// failures degrade to an empty result pointing at the raw image; only
// storage failures are returned as errors.
func (s *Service) Analyze(ctx context.Context, original string, data []byte) (*dto.UploadResponse, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	filename, err := s.Store.Save(original, data)
	if err != nil {
		return nil, err
	}
	checksum := storage.Checksum(data)

	result, cached := s.infer(ctx, checksum, data)

	img := &model.Image{
		Filename:  filename,
		MD5:       checksum,
		FileSize:  int64(len(data)),
		Timestamp: s.now(),
	}
	annotatedPath := s.Store.Path(filename)
	if result != nil && len(result.Annotated) > 0 {
		if name, err := s.Store.SaveAnnotated(filename, result.Annotated); err == nil {
			img.AnnotatedFilename = name
			annotatedPath = s.Store.Path(name)
		}
	}

	observations, detected := s.observe(result, img.Timestamp, annotatedPath)
	if _, err := s.Images.InsertWithObservations(img, observations); err != nil {
		_ = s.Store.Remove(filename, img.AnnotatedFilename)
		return nil, fmt.Errorf("error saving %s to database: %w", filename, err)
	}
	s.publish(observations, s.Store.ImageURL(filename))

	s.Logger.Info("Analyzed %s: %d observations recorded", filename, len(observations))

	return &dto.UploadResponse{
		Status:       "success",
		Filename:     filename,
		Detected:     detected,
		AnnotatedURL: storage.URL(annotatedPath),
		Cached:       cached,
	}, nil
}

// infer returns the detection result for data, from the cache when an entry
// produced by the same model exists. A nil result means nothing was detected
// because the capability is absent or failed.
func (s *Service) infer(ctx context.Context, checksum string, data []byte) (*vision.Result, bool) {
	if !vision.IsAvailable(s.Capability) {
		return nil, false
	}
	modelName := s.Capability.Name()

	entry, err := s.Cache.Get(ctx, checksum)
	if err != nil {
		s.Logger.Warning("Analysis cache lookup failed for %s: %v", checksum, err)
	}
	if entry != nil && entry.Model == modelName {
		return &vision.Result{
			Detections: entry.Detections,
			Width:      entry.Width,
			Height:     entry.Height,
			Annotated:  entry.Annotated,
		}, true
	}

	result, err := s.Capability.Infer(ctx, data)
	if err != nil {
		s.Logger.Warning("Analysis error: %v", err)
		return nil, false
	}

	if err := s.Cache.Set(ctx, checksum, &cache.Entry{
		Model:      modelName,
		Detections: result.Detections,
		Width:      result.Width,
		Height:     result.Height,
		Annotated:  result.Annotated,
	}); err != nil {
		s.Logger.Warning("Analysis cache store failed for %s: %v", checksum, err)
	}
	return result, false
}

// observe keeps detections above the threshold, in detection order.
func (s *Service) observe(result *vision.Result, ts time.Time, annotatedPath string) ([]model.Observation, []dto.DetectedItem) {
	detected := []dto.DetectedItem{}
	if result == nil {
		return nil, detected
	}

	var observations []model.Observation
	for _, det := range result.Detections {
		if det.Confidence <= s.Threshold {
			continue
		}
		location := s.Classifier.ClassifyBox(det.Box, result.Width, result.Height)

		observations = append(observations, model.Observation{
			Name:       det.ClassName,
			Location:   location,
			Confidence: det.Confidence,
			X1:         det.Box.X1,
			Y1:         det.Box.Y1,
			X2:         det.Box.X2,
			Y2:         det.Box.Y2,
			Timestamp:  ts,
		})
		detected = append(detected, dto.DetectedItem{
			Name:          det.ClassName,
			Confidence:    det.Confidence,
			LocationDesc:  location,
			BBox:          det.Box.Slice(),
			AnnotatedPath: annotatedPath,
		})
	}
	return observations, detected
}

func (s *Service) publish(observations []model.Observation, imageURL string) {
	if s.Publisher == nil {
		return
	}
	for _, o := range observations {
		display := o.Name
		if s.Resolver != nil {
			display = s.Resolver.DisplayName(o.Name)
		}
		s.Publisher.Broadcast(dto.ObservationEvent{
			Type:       "observation",
			Name:       o.Name,
			Display:    display,
			Location:   o.Location,
			Confidence: o.Confidence,
			ImageURL:   imageURL,
			Time:       o.Timestamp,
		})
	}
}
