package routes

import (
	"net/http"

	"github.com/ImpactGLX323/IntelliFlow/internal/roadmap"
)

type RoadmapRequest struct {
	Query string `json:"query"`
}

type InsightsResponse struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}

func RoadmapHandler(gen *roadmap.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		var req RoadmapRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		result, err := gen.Generate(r.Context(), ownerID, req.Query)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func InsightsHandler(gen *roadmap.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		summary, insights, err := gen.QuickInsights(r.Context(), ownerID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, InsightsResponse{Summary: summary, Insights: insights})
	}
}
