package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "moviepulse/internal/errors"
	"moviepulse/internal/services"
)

const (
	ContentTypePNG  = "image/png"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// WorkbookFilename is suggested to clients downloading the summary
	WorkbookFilename = "genre_summary.xlsx"
)

// DataHandler serves the processed dataset with RFC 7807 errors
type DataHandler struct {
	service      DatasetServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", h.GetRecords)
		r.Get("/sample", h.GetSample)
		r.Get("/summary", h.GetSummary)
		r.Get("/columns", h.GetColumns)
	})
	r.Get("/summary.xlsx", h.GetWorkbook)

	return r
}

// GetRecords handles GET /data
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}

	records, err := h.service.Records(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "failed to get records", err)
		return
	}

	h.logger.DebugContext(r.Context(), "serving records",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("rows", len(records)))

	render.JSON(w, r, records)
}

// GetSample handles GET /data/sample
func (h *DataHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}

	sample, err := h.service.Sample(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "failed to get sample", err)
		return
	}
	render.JSON(w, r, sample)
}

// GetSummary handles GET /data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "failed to get summary", err)
		return
	}
	render.JSON(w, r, summary)
}

// GetColumns handles GET /data/columns
func (h *DataHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}

	columns, err := h.service.Columns(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "failed to get columns", err)
		return
	}
	render.JSON(w, r, columns)
}

// GetWorkbook handles GET /data/summary.xlsx
func (h *DataHandler) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Workbook(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "failed to get workbook", err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+WorkbookFilename+`"`)
	writeBytes(w, ContentTypeXLSX, b)
}

// GetChart handles GET /chart
func (h *DataHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Chart(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "failed to get chart", err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	writeBytes(w, ContentTypePNG, b)
}

// notModified sets the ETag and answers 304 when the client already holds
// the current representation
func (h *DataHandler) notModified(w http.ResponseWriter, r *http.Request) bool {
	etag := h.service.ETag()
	if etag == "" {
		return false
	}
	w.Header().Set("ETag", etag)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// etagMatches implements the weak comparison If-None-Match requires
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotReady)
	case errors.Is(err, services.ErrChartNotRendered):
		h.errorHandler.HandleError(w, r, apierrors.ErrChartNotFound)
	case errors.Is(err, services.ErrWorkbookNotBuilt):
		h.errorHandler.HandleError(w, r, apierrors.ErrExportNotFound)
	default:
		h.logger.ErrorContext(r.Context(), msg,
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		h.errorHandler.HandleError(w, r, err)
	}
}

func writeBytes(w http.ResponseWriter, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
