package handlers

import "net/http"

// Health is the liveness endpoint used by the container healthcheck.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
