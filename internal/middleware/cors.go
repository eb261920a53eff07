package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, " + RequestIDHeader
	corsMaxAge       = 30 * 60

	// fileOrigin in the allow-list admits pages opened from disk. Browsers
	// send those as the literal origin "null".
	fileOrigin = "file://"
	nullOrigin = "null"
)

// CORS answers cross-origin requests for the origins in allowed. An entry
// of "*" admits every origin. Preflight requests never reach next: allowed
// ones get 204, the rest 403.
func CORS(allowed []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if origin == "" {
				if preflight {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !originAllowed(origins, origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
			if preflight {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					w.Header().Set("Access-Control-Allow-Headers", requested)
				} else {
					w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				}
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origins map[string]struct{}, origin string) bool {
	if _, ok := origins["*"]; ok {
		return true
	}
	if _, ok := origins[origin]; ok {
		return true
	}
	if _, ok := origins[fileOrigin]; ok {
		return origin == nullOrigin || strings.HasPrefix(origin, fileOrigin)
	}
	return false
}
