package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"findit/internal/logger"
	"findit/internal/service/relay"
)

// Streamer relays a camera stream frame by frame.
type Streamer interface {
	Stream(ctx context.Context, sourceURL string, annotate bool, emit func(frame []byte) error) (relay.Stats, error)
}

// ProxyStreamHandler relays the motion-JPEG stream at ?url= to the caller,
// annotated unless ?ai=false. An unreachable camera ends the response with
// an empty body; the viewer decides whether to retry.
func ProxyStreamHandler(streamer Streamer, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := r.URL.Query().Get("url")
		if source == "" {
			writeMessage(w, http.StatusBadRequest, "missing url parameter")
			return
		}
		annotate := boolDefault(r.URL.Query().Get("ai"), true)

		w.Header().Set("Content-Type", relay.ContentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "close")

		out := relay.NewMultipartWriter(w)
		stats, err := streamer.Stream(r.Context(), source, annotate, out.WriteFrame)

		switch {
		case err == nil:
			logger.Info("Stream %s ended: %d frames relayed, %d skipped", source, stats.Emitted, stats.Skipped)
		case errors.Is(err, relay.ErrUpstreamUnavailable):
			logger.Warning("Stream %s unavailable after %d frames: %v", source, stats.Emitted, err)
		case r.Context().Err() != nil:
			logger.Info("Viewer left stream %s after %d frames", source, stats.Emitted)
		default:
			logger.Error("Stream %s failed after %d frames: %v", source, stats.Emitted, err)
		}
	}
}

// boolDefault parses a query flag, falling back to def when it is absent or
// not a boolean.
func boolDefault(s string, def bool) bool {
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return def
}
