// Package ai provides the gocv-backed detection capability.
package ai

import (
	"findit/internal/config"
	"findit/internal/logger"
	"findit/internal/service/vision"
)

// Load builds the detection capability: the YOLOv8 export first, the SSD
// MobileNet graph when that fails, and vision.Nop when neither loads.
func Load(cfg *config.Config, log *logger.Logger) vision.Capability {
	names, err := ReadClassNames(cfg.ModelNamesPath)
	if err != nil {
		log.Warning("Could not read class names from %s, using built-in list: %v", cfg.ModelNamesPath, err)
		names = nil
	}

	score := float32(cfg.ConfidenceThreshold)
	primary, err := NewYOLODetector(cfg.ModelPath, names, cfg.ModelInputSize, score, float32(cfg.NMSThreshold), log)
	if err == nil {
		log.Info("Detection network %s loaded from %s", primary.Name(), cfg.ModelPath)
		return primary
	}
	log.Warning("Could not load primary model %s: %v", cfg.ModelPath, err)

	fallback, err := NewSSDDetector(cfg.FallbackModelPath, cfg.FallbackConfigPath, score, log)
	if err == nil {
		log.Info("Detection network %s loaded as fallback", fallback.Name())
		return fallback
	}
	log.Error("Could not load fallback model %s: %v; detection disabled", cfg.FallbackModelPath, err)

	return vision.Nop{}
}
