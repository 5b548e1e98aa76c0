package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nomina/internal/domain/payroll"
	"nomina/internal/platform/xlsx"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
)

type Handler struct {
	Service     *payroll.Service
	MaxUploadMB int
	PageSizeMax int
}

func NewHandler(service *payroll.Service, maxUploadMB, pageSizeMax int) *Handler {
	return &Handler{Service: service, MaxUploadMB: maxUploadMB, PageSizeMax: pageSizeMax}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/batches", h.handleListBatches)
		r.Post("/batches/import", h.handleImportBatch)
		r.Post("/batches/derive", h.handleDeriveBatch)
		r.Get("/batches/{batchID}", h.handleGetBatch)
		r.Get("/batches/{batchID}/rows", h.handleListRows)
		r.Post("/batches/{batchID}/validate", h.handleRevalidate)
		r.Get("/batches/{batchID}/export/pdf", h.handleExportPDF)
		r.Delete("/batches/{batchID}", h.handleDeleteBatch)
	})
}

func (h *Handler) handleListBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := r.URL.Query().Get("companyId")
	if companyID == "" {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "companyId is required", middleware.GetRequestID(ctx))
		return
	}
	limit, offset := h.pagination(r)

	batches, total, err := h.Service.ListBatches(ctx, companyID, limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list batches", middleware.GetRequestID(ctx))
		return
	}
	api.Success(w, map[string]any{"items": batches, "total": total}, middleware.GetRequestID(ctx))
}

func (h *Handler) handleImportBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if err := r.ParseMultipartForm(int64(h.MaxUploadMB) << 20); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "invalid multipart form", requestID)
		return
	}

	companyID := r.FormValue("companyId")
	if companyID == "" {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "companyId is required", requestID)
		return
	}
	year, month, err := parsePeriod(r.FormValue("year"), r.FormValue("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, err.Error(), requestID)
		return
	}

	var rules payroll.MappingRules
	if err := json.Unmarshal([]byte(r.FormValue("mapping")), &rules); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "mapping must be a JSON object of field to column", requestID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "file is required", requestID)
		return
	}
	defer file.Close()

	sheetRows, err := xlsx.ReadSheet(file)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "unreadable_file", err.Error(), requestID)
		return
	}
	rawRows := make([]payroll.RawRow, len(sheetRows))
	for i, row := range sheetRows {
		rawRows[i] = row
	}

	batch, verdicts, err := h.Service.ImportRows(ctx, companyID, header.Filename, rawRows, rules, year, month, middleware.GetActorID(ctx))
	if err != nil {
		if errors.Is(err, payroll.ErrEmptyMapping) {
			api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "import failed", requestID)
		return
	}

	api.Created(w, map[string]any{"batch": batch, "verdicts": verdicts}, requestID)
}

type derivePayload struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	CompanyID string `json:"companyId"`
}

func (h *Handler) handleDeriveBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var payload derivePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "invalid JSON body", requestID)
		return
	}
	if payload.CompanyID == "" || payload.Year == 0 || payload.Month < 1 || payload.Month > 12 {
		api.Fail(w, http.StatusBadRequest, api.CodeBadRequest, "companyId, year and month are required", requestID)
		return
	}

	batch, err := h.Service.DeriveFromAttendance(ctx, payload.Year, payload.Month, payload.CompanyID, middleware.GetActorID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrBatchExists):
			api.Fail(w, http.StatusConflict, "batch_exists", err.Error(), requestID)
		case errors.Is(err, payroll.ErrNoEmployees):
			api.Fail(w, http.StatusUnprocessableEntity, "no_employees", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "derivation failed", requestID)
		}
		return
	}

	api.Created(w, batch, requestID)
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batch, err := h.Service.GetBatch(ctx, chi.URLParam(r, "batchID"))
	if err != nil {
		h.failBatchErr(w, r, err)
		return
	}
	api.Success(w, batch, middleware.GetRequestID(ctx))
}

func (h *Handler) handleListRows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID := chi.URLParam(r, "batchID")
	limit, offset := h.pagination(r)

	rows, total, err := h.Service.ListRows(ctx, batchID, limit, offset)
	if err != nil {
		h.failBatchErr(w, r, err)
		return
	}
	api.Success(w, map[string]any{"items": rows, "total": total}, middleware.GetRequestID(ctx))
}

func (h *Handler) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	verdicts, err := h.Service.Revalidate(ctx, chi.URLParam(r, "batchID"), middleware.GetActorID(ctx))
	if err != nil {
		h.failBatchErr(w, r, err)
		return
	}
	api.Success(w, verdicts, middleware.GetRequestID(ctx))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID := chi.URLParam(r, "batchID")

	var buf bytes.Buffer
	if err := h.Service.ExportBatchPDF(ctx, batchID, &buf); err != nil {
		if errors.Is(err, payroll.ErrBatchNotFound) {
			api.Fail(w, http.StatusNotFound, api.CodeNotFound, "payroll batch not found", middleware.GetRequestID(ctx))
			return
		}
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "export failed", middleware.GetRequestID(ctx))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=batch-%s.pdf", batchID))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Service.DeleteBatch(ctx, chi.URLParam(r, "batchID"), middleware.GetActorID(ctx)); err != nil {
		h.failBatchErr(w, r, err)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(ctx))
}

func (h *Handler) failBatchErr(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if errors.Is(err, payroll.ErrBatchNotFound) {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "payroll batch not found", requestID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "operation failed", requestID)
}

func (h *Handler) pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > h.PageSizeMax {
		limit = h.PageSizeMax
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func parsePeriod(rawYear, rawMonth string) (int, int, error) {
	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("year must be a four-digit year")
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	return year, month, nil
}
