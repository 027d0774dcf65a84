// Package httpserver builds the HTTP server fronting the pathway API.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the router in a server with bounded header reads and idle
// keep-alives. Per-request timeouts live in the feature middleware chains,
// so the server itself stays permissive about body reads.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
