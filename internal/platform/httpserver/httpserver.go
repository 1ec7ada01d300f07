// Package httpserver centralizes the http.Server defaults.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the service's HTTP server. Timeouts are deliberately tight:
// request bodies are small and verdicts are computed in memory.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
