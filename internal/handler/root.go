package handler

import (
	"net/http"
)

// RootMessage is returned by the root endpoint.
const RootMessage = "FindIt Backend is running"

// RootHandler answers liveness checks.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, RootMessage)
	}
}
