package handler

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http"

	"findit/internal/dto"
	"findit/internal/logger"
	"findit/internal/service/vision"
)

// blankFrame is a black 100x100 JPEG used to check the capability end to end.
var blankFrame = func() []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 100)), nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// ImageCounter reports how many uploads are stored.
type ImageCounter interface {
	Count() (int, error)
}

// ModelStatusHandler reports whether the detection capability is loaded and
// can run an inference, along with the number of stored images.
func ModelStatusHandler(capability vision.Capability, images ImageCounter, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := dto.ModelStatus{ImageCount: countImages(images, logger)}

		switch {
		case !vision.IsAvailable(capability):
			status.Status, status.Message = "error", "Model not loaded"
		default:
			if _, err := capability.Infer(r.Context(), blankFrame); err != nil {
				logger.Warning("Model check failed: %v", err)
				status.Status, status.Message = "error", "Inference failed: "+err.Error()
				break
			}
			status.Status, status.Message, status.ModelType = "ok", "Model operational", capability.Name()
		}

		writeJSON(w, http.StatusOK, status)
	}
}

func countImages(images ImageCounter, logger *logger.Logger) *int {
	if images == nil {
		return nil
	}
	n, err := images.Count()
	if err != nil {
		logger.Error("Error counting images: %v", err)
		return nil
	}
	return &n
}
