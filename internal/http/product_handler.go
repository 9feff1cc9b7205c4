package http

import (
	"fmt"
	"net/http"

	"github.com/Shaikat-CSE/goldennicheims/internal/service"
)

type productHandler struct {
	stockSvc service.StockService
}

func newProductHandler(stockSvc service.StockService) *productHandler {
	return &productHandler{
		stockSvc: stockSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.stockSvc.ListProducts(r.Context())
	if err != nil {
		return fmt.Errorf("stock service list products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	product, err := h.stockSvc.AddProduct(r.Context(), req.params())
	if err != nil {
		return fmt.Errorf("stock service add product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, product)
}

func (h *productHandler) BootstrapProducts(w http.ResponseWriter, r *http.Request) error {
	var req BootstrapRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	n, err := h.stockSvc.Bootstrap(r.Context(), req.Products)
	if err != nil {
		return fmt.Errorf("stock service bootstrap: %w", err)
	}

	return writeJSON(w, http.StatusOK, BootstrapResponse{Imported: n})
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	product, err := h.stockSvc.UpdateProduct(r.Context(), id, req.update())
	if err != nil {
		return fmt.Errorf("stock service update product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.stockSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("stock service delete product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) ProductHistory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	movements, err := h.stockSvc.History(r.Context(), id)
	if err != nil {
		return fmt.Errorf("stock service history: %w", err)
	}

	return writeJSON(w, http.StatusOK, movements)
}
