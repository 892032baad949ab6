package routes

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeAppError maps a classified error to its status code. Upstream
// failures get a generic message; the detail goes to the log and the
// active span, not to the client.
func writeAppError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case apperr.KindConflict:
		writeError(w, http.StatusConflict, err.Error())
	case apperr.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.KindUnauthorized:
		writeError(w, http.StatusUnauthorized, err.Error())
	case apperr.KindUpstream:
		log.Printf("upstream failure: %v", err)
		writeError(w, http.StatusBadGateway, "a dependency is unavailable, try again shortly")
	default:
		log.Printf("unhandled error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
