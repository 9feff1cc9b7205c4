package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/service"
	"github.com/Shaikat-CSE/goldennicheims/pkg/ptr"
)

type movementHandler struct {
	stockSvc service.StockService
}

func newMovementHandler(stockSvc service.StockService) *movementHandler {
	return &movementHandler{
		stockSvc: stockSvc,
	}
}

func (h *movementHandler) ListMovements(w http.ResponseWriter, r *http.Request) error {
	from, to, err := timeWindow(r)
	if err != nil {
		return err
	}

	movements, err := h.stockSvc.ListMovements(r.Context(), ptr.Deref(from, time.Time{}), ptr.Deref(to, time.Time{}))
	if err != nil {
		return fmt.Errorf("stock service list movements: %w", err)
	}

	return writeJSON(w, http.StatusOK, movements)
}

func (h *movementHandler) RecordMovement(w http.ResponseWriter, r *http.Request) error {
	var req RecordMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	movement, err := h.stockSvc.RecordMovement(r.Context(), req.params())
	if err != nil {
		return fmt.Errorf("stock service record movement: %w", err)
	}

	return writeJSON(w, http.StatusCreated, movement)
}

func (h *movementHandler) ListActivity(w http.ResponseWriter, r *http.Request) error {
	activities, err := h.stockSvc.Activities(r.Context())
	if err != nil {
		return fmt.Errorf("stock service activities: %w", err)
	}

	return writeJSON(w, http.StatusOK, activities)
}
