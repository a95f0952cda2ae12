package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/catalog"
)

type productLister interface {
	List(ctx context.Context, page, limit int) (*catalog.Page, error)
}

type ProductsHandler struct {
	Cache *catalog.CachedRepo
	Repo  *catalog.Repo
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{prodId}", h.get)
		r.Get("/category/{catName}", h.listByCategory)
	})
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var lister productLister = h.Repo
	if h.Cache != nil {
		lister = h.Cache
	}
	page, err := lister.List(ctx, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if page.Count == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no products found"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "prodId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.Get(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no product found with id " + productID})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) listByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "catName")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	page, err := h.Repo.ListByCategory(ctx, category, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if page.Count == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no products found in category " + category})
		return
	}
	writeJSON(w, http.StatusOK, page)
}
