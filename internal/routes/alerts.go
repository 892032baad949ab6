package routes

import (
	"net/http"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

func ListAlertsHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		unresolvedOnly := r.URL.Query().Get("unresolved") == "true"
		alerts, err := db.ListRiskAlerts(r.Context(), pool, ownerID, unresolvedOnly)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, alerts)
	}
}

func ResolveAlertHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		if err := db.ResolveRiskAlert(r.Context(), pool, ownerID, id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
	}
}
