package handler

import (
	"net/http"

	"findit/internal/logger"
)

// NamesHandler lists every object name observed so far.
func NamesHandler(searcher Searcher, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := searcher.Names(r.Context())
		if err != nil {
			logger.Error("Error listing observed names: %v", err)
			writeMessage(w, http.StatusInternalServerError, "query failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
