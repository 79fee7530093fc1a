package api

import (
	"net/http"

	"github.com/mehedi/streambox/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, status int, code httputil.Code, message string) {
	httputil.WriteError(w, status, code, message)
}

// deviceID identifies the browsing client for device-scoped state
// (favorites, tap window). Empty means the client did not identify itself.
func deviceID(r *http.Request) string {
	if id := r.Header.Get("X-Device-ID"); id != "" {
		return id
	}
	return r.URL.Query().Get("device")
}
