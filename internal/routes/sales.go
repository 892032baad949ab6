package routes

import (
	"net/http"
	"time"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

func CreateSaleHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		var in db.SaleInput
		if !decodeBody(w, r, &in) {
			return
		}
		sale, err := db.CreateSale(r.Context(), pool, ownerID, in)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sale)
	}
}

func ListSalesHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		filter := db.SaleFilter{
			Limit:  intQuery(r, "limit", 100),
			Offset: intQuery(r, "offset", 0),
		}
		if start, ok := dateQuery(w, r, "start_date"); !ok {
			return
		} else if start != nil {
			filter.StartDate = start
		}
		if end, ok := dateQuery(w, r, "end_date"); !ok {
			return
		} else if end != nil {
			filter.EndDate = end
		}
		sales, err := db.ListSales(r.Context(), pool, ownerID, filter)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sales)
	}
}

func GetSaleHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		sale, err := db.GetSale(r.Context(), pool, ownerID, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sale)
	}
}

// dateQuery parses an optional RFC 3339 date or timestamp query param.
// The bool is false only when the param was present and malformed, in
// which case the error response has already been written.
func dateQuery(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	writeError(w, http.StatusBadRequest, name+" must be an RFC 3339 date")
	return nil, false
}
