package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"findit/internal/dto"
	"findit/internal/logger"
	"findit/internal/service/analysis"
)

// Analyzer records what an uploaded image shows.
type Analyzer interface {
	Analyze(ctx context.Context, original string, data []byte) (*dto.UploadResponse, error)
}

// UploadHandler accepts one image in the multipart field "file" and returns
// the analysis result.
func UploadHandler(analyzer Analyzer, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || r.ContentLength > maxBytes {
				writeMessage(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			writeMessage(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading upload %s: %v", header.Filename, err)
			writeMessage(w, http.StatusBadRequest, "could not read file")
			return
		}

		resp, err := analyzer.Analyze(r.Context(), header.Filename, data)
		if errors.Is(err, analysis.ErrEmptyImage) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			logger.Error("Error analyzing upload %s: %v", header.Filename, err)
			writeMessage(w, http.StatusInternalServerError, "failed to store image")
			return
		}

		logger.Info("Upload %s stored as %s with %d detections", header.Filename, resp.Filename, len(resp.Detected))
		writeJSON(w, http.StatusOK, resp)
	}
}
