package routes

import (
	"net/http"

	"github.com/ImpactGLX323/IntelliFlow/internal/analytics"
)

func DashboardHandler(engine *analytics.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		stats, err := engine.Dashboard(r.Context(), ownerID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func BestSellersHandler(engine *analytics.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		days := intQuery(r, "days", analytics.DefaultBestSellerDays)
		limit := intQuery(r, "limit", analytics.DefaultBestSellerLimit)
		rows, err := engine.BestSellers(r.Context(), ownerID, days, limit)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func InventoryRisksHandler(engine *analytics.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		risks, err := engine.InventoryRisks(r.Context(), ownerID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, risks)
	}
}
