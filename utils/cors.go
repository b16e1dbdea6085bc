package utils

import (
	"net/http"
	"strings"
)

// Headers used by connect clients, both for the Connect protocol and gRPC-Web.
var corsAllowedHeaders = []string{
	"Content-Type",
	"Connect-Protocol-Version",
	"Connect-Timeout-Ms",
	"Accept-Language",
	"Grpc-Timeout",
	"X-Grpc-Web",
	"X-User-Agent",
}

var corsExposedHeaders = []string{
	"Grpc-Status",
	"Grpc-Message",
	"Grpc-Status-Details-Bin",
}

// WithCORS allows browser clients served from origin to call h. An origin of
// "*" allows any origin.
func WithCORS(origin string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestOrigin := r.Header.Get("Origin")
		if requestOrigin != "" && (origin == "*" || requestOrigin == origin) {
			w.Header().Set("Access-Control-Allow-Origin", requestOrigin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(corsAllowedHeaders, ", "))
			w.Header().Set("Access-Control-Expose-Headers", strings.Join(corsExposedHeaders, ", "))
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
