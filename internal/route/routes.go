package route

import (
	"net/http"

	"findit/internal/handler"
	"findit/internal/logger"
	"findit/internal/middleware"
	"findit/internal/service/storage"
	"findit/internal/service/vision"
)

// Services are the collaborators the routes hand requests to.
type Services struct {
	Capability vision.Capability
	Images     handler.ImageCounter
	Streamer   handler.Streamer
	Analyzer   handler.Analyzer
	Searcher   handler.Searcher
	Hub        handler.EventHub

	ImageDirectory string
	LogDirectory   string
	UploadMaxBytes int64
	RecentLimit    int
}

// SetupRoutes registers the API endpoints and image serving, and wraps the mux
// with request logging and panic recovery.
func SetupRoutes(s Services, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Stored uploads and their annotated renderings
	mux.Handle("GET "+storage.URLPrefix, http.StripPrefix(storage.URLPrefix, http.FileServer(http.Dir(s.ImageDirectory))))

	// API endpoints
	mux.HandleFunc("GET /{$}", handler.RootHandler())
	mux.HandleFunc("GET /status/model", handler.ModelStatusHandler(s.Capability, s.Images, logger))
	mux.HandleFunc("GET /proxy_stream", handler.ProxyStreamHandler(s.Streamer, logger))
	mux.HandleFunc("POST /upload", handler.UploadHandler(s.Analyzer, s.UploadMaxBytes, logger))
	mux.HandleFunc("GET /query", handler.QueryHandler(s.Searcher, logger))
	mux.HandleFunc("GET /recent", handler.RecentHandler(s.Searcher, s.RecentLimit, logger))
	mux.HandleFunc("GET /names", handler.NamesHandler(s.Searcher, logger))
	mux.HandleFunc("GET /api/events", handler.EventsWebsocketHandler(s.Hub, logger))

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(s.LogDirectory))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(logger))

	return middleware.Chain(mux, middleware.Logging(logger), middleware.Recovery(logger))
}
