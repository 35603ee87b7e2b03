package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"findit/internal/dto"
	"findit/internal/logger"
	"findit/internal/service/search"
)

// Searcher answers item lookups.
type Searcher interface {
	Query(ctx context.Context, q string) (*dto.QueryResponse, error)
	Recent(ctx context.Context, limit int) (*dto.QueryResponse, error)
	Names(ctx context.Context) (*dto.NamesResponse, error)
}

// QueryHandler looks up where an item was last seen.
func QueryHandler(searcher Searcher, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		resp, err := searcher.Query(r.Context(), q)
		if errors.Is(err, search.ErrEmptyQuery) {
			writeMessage(w, http.StatusBadRequest, "missing q parameter")
			return
		}
		if err != nil {
			logger.Error("Error querying %q: %v", q, err)
			writeMessage(w, http.StatusInternalServerError, "query failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// RecentHandler lists the latest observations, ?limit= of them.
func RecentHandler(searcher Searcher, defaultLimit int, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), defaultLimit)

		resp, err := searcher.Recent(r.Context(), limit)
		if err != nil {
			logger.Error("Error listing recent observations: %v", err)
			writeMessage(w, http.StatusInternalServerError, "query failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// atoiDefault parses a positive integer, falling back to def.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
