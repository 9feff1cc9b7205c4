package http

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/apperr"
	"github.com/Shaikat-CSE/goldennicheims/internal/http/apierr"
	"github.com/Shaikat-CSE/goldennicheims/internal/service"
	"github.com/Shaikat-CSE/goldennicheims/internal/tabular"
	"github.com/Shaikat-CSE/goldennicheims/pkg/ptr"
)

const importFileField = "file"

type stockHandler struct {
	stockSvc       service.StockService
	maxUploadBytes int64
	now            func() time.Time
}

func newStockHandler(stockSvc service.StockService, maxUploadBytes int64) *stockHandler {
	return &stockHandler{
		stockSvc:       stockSvc,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

func (h *stockHandler) GetStock(w http.ResponseWriter, r *http.Request) error {
	from, to, err := timeWindow(r)
	if err != nil {
		return err
	}

	rows, err := h.stockSvc.Snapshot(r.Context(), ptr.Deref(from, time.Time{}), ptr.Deref(to, time.Time{}))
	if err != nil {
		return fmt.Errorf("stock service snapshot: %w", err)
	}

	return writeJSON(w, http.StatusOK, StockResponse{From: from, To: to, Rows: rows})
}

func (h *stockHandler) SyncStock(w http.ResponseWriter, r *http.Request) error {
	var req StockRowsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	rec, result, err := h.stockSvc.Sync(r.Context(), req.Rows)
	if err != nil {
		return fmt.Errorf("stock service sync: %w", err)
	}

	return writeJSON(w, http.StatusOK, SyncResponse{Reconciliation: rec, Result: result})
}

func (h *stockHandler) ReconcileStock(w http.ResponseWriter, r *http.Request) error {
	var req StockRowsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	rec, err := h.stockSvc.Reconcile(r.Context(), req.Rows)
	if err != nil {
		return fmt.Errorf("stock service reconcile: %w", err)
	}

	return writeJSON(w, http.StatusOK, rec)
}

func (h *stockHandler) StockSummary(w http.ResponseWriter, r *http.Request) error {
	summary, err := h.stockSvc.Summary(r.Context())
	if err != nil {
		return fmt.Errorf("stock service summary: %w", err)
	}

	return writeJSON(w, http.StatusOK, summary)
}

func (h *stockHandler) ExportStock(w http.ResponseWriter, r *http.Request) error {
	name, err := queryString(r, "format")
	if err != nil {
		return err
	}
	if name == "" {
		name = string(tabular.FormatCSV)
	}
	format, err := tabular.ParseFormat(name)
	if err != nil {
		return err
	}

	// Render fully before writing so a failed export still gets an error body.
	var buf bytes.Buffer
	if err := h.stockSvc.Export(r.Context(), &buf, format); err != nil {
		return fmt.Errorf("stock service export: %w", err)
	}

	writeFile(w, format.ContentType(), format.Filename(h.now()), buf.Bytes())
	return nil
}

func (h *stockHandler) ImportStock(w http.ResponseWriter, r *http.Request) error {
	hasHeaders, err := queryBool(r, "has_headers", true)
	if err != nil {
		return err
	}
	name, err := queryString(r, "format")
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(importFileField)
	if err != nil {
		return fmt.Errorf("read upload: %w", &apierr.BodyError{Err: err})
	}
	defer file.Close()

	if name == "" {
		name = filepath.Ext(header.Filename)
	}
	format, err := tabular.ParseFormat(name)
	if err != nil {
		return err
	}
	if !format.Importable() {
		return apperr.UnsupportedFormatErr.WithMsg(fmt.Sprintf("cannot import %s files", format))
	}

	rows, err := h.stockSvc.Import(r.Context(), file, format, hasHeaders)
	if err != nil {
		return fmt.Errorf("stock service import: %w", err)
	}

	return writeJSON(w, http.StatusOK, ImportResponse{Rows: rows})
}

func (h *stockHandler) StockTemplate(w http.ResponseWriter, r *http.Request) error {
	var buf bytes.Buffer
	if err := h.stockSvc.Template(r.Context(), &buf); err != nil {
		return fmt.Errorf("stock service template: %w", err)
	}

	writeFile(w, tabular.FormatXLSX.ContentType(), "stock_template.xlsx", buf.Bytes())
	return nil
}

func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(body)
}
