package indyserver

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/didindy/resolver/internal/didindy"
)

// handleResolve serves GET /1.0/identifiers/{didUrl}. The didUrl path
// segment is percent-escaped by the caller — a did:indy DID URL may itself
// carry a "?query", and only escaping at this outer layer disambiguates it
// from the HTTP request's own query string.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	raw := mux.Vars(r)["didUrl"]
	didURL, err := url.PathUnescape(raw)
	if err != nil {
		// A path segment that cannot be unescaped is a malformed HTTP URL,
		// answered with 400 rather than the taxonomy's 404.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": didindy.KindName(didindy.ErrInvalidDidUrl)})
		return
	}

	result, err := s.pipeline.Resolve(r.Context(), didURL)
	if err != nil {
		s.logger.Warn("resolve failed", map[string]interface{}{
			"requestId": requestID, "didUrl": didURL, "kind": didindy.KindName(err),
		})
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result))
}

// handleHealth reports the number of namespaces registered at bootstrap.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"namespaces": s.registry.Len(),
	})
}

// writeError maps a resolution error to its HTTP status per the closed
// error-kind taxonomy and writes a body naming only the error's kind — never
// the underlying context, which may carry internal details.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(didindy.StatusCode(err))
	json.NewEncoder(w).Encode(map[string]string{"error": didindy.KindName(err)})
}
