package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ImpactGLX323/IntelliFlow/internal/db"
	"github.com/ImpactGLX323/IntelliFlow/internal/middleware"
)

const defaultHistoryLimit = 50

func ownerFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
	}
	return ownerID, ok
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func CreateProductHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		var in db.ProductInput
		if !decodeBody(w, r, &in) {
			return
		}
		if in.Name == "" || in.SKU == "" {
			writeError(w, http.StatusBadRequest, "name and sku are required")
			return
		}
		product, err := db.InsertProduct(r.Context(), pool, ownerID, in)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, product)
	}
}

func ListProductsHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		limit := intQuery(r, "limit", 100)
		offset := intQuery(r, "offset", 0)
		products, err := db.ListProducts(r.Context(), pool, ownerID, limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func GetProductHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		product, err := db.GetProduct(r.Context(), pool, ownerID, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func UpdateProductHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var patch db.ProductPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		product, err := db.UpdateProduct(r.Context(), pool, ownerID, id, patch)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func DeleteProductHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		if err := db.DeleteProduct(r.Context(), pool, ownerID, id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ProductHistoryHandler returns the inventory ledger for one product,
// newest change first.
func ProductHistoryHandler(pool db.TxStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		limit := intQuery(r, "limit", defaultHistoryLimit)
		history, err := db.ListInventoryHistory(r.Context(), pool, ownerID, id, limit)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}
