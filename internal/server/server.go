// Package server exposes the workspace over a JSON HTTP API and serves the
// landing page.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/finance-dashboard/internal/forecast"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/workspace"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/output"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	ws          *workspace.Workspace
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the API and landing page.
func NewHandler(logger *zap.Logger, ws *workspace.Workspace, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, ws: ws, maxBodySize: maxBodySize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/months", h.handleMonths)

		r.Get("/model", h.handleGetModel)
		r.Get("/model/{section}", h.handleGetSection)
		r.Put("/model/{section}", h.handlePutSection)

		r.Get("/dashboard", h.handleDashboard)
		r.Get("/views/{view}", h.handleView)
		r.Get("/export/{view}", h.handleExport)

		r.Post("/employees", h.handleAddEmployee)
		r.Put("/employees/{id}", h.handleUpdateEmployee)
		r.Delete("/employees/{id}", h.handleDeleteEmployee)

		r.Post("/contractors", h.handleAddContractor)
		r.Put("/contractors/{id}", h.handleUpdateContractor)
		r.Delete("/contractors/{id}", h.handleDeleteContractor)

		r.Post("/bonuses", h.handleAddBonus)

		r.Post("/expense-categories", h.handleAddCategory)
		r.Put("/expense-categories/order", h.handleReorderCategories)
		r.Delete("/expense-categories/{name}", h.handleDeleteCategory)
	})

	// Static assets (landing page)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.requestLogger"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// mutationResponse is returned by every edit. Warnings carry save failures
// and validation findings; the edit itself succeeded.
type mutationResponse struct {
	Record   interface{} `json:"record,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

type dashboardResponse struct {
	Summary  output.Table `json:"summary"`
	KPIs     []output.KPI `json:"kpis"`
	Views    []string     `json:"views"`
	Notices  []string     `json:"notices,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleMonths(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, datetime.MonthAxis())
}

func (h *handler) handleGetModel(w http.ResponseWriter, r *http.Request) {
	_ = h.ws.View(func(doc *model.Document, _ forecast.Results) error {
		h.writeJSON(w, http.StatusOK, doc)
		return nil
	})
}

func (h *handler) handleGetSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	err := h.ws.View(func(doc *model.Document, _ forecast.Results) error {
		section, err := doc.Section(name)
		if err != nil {
			return err
		}
		h.writeJSON(w, http.StatusOK, section)
		return nil
	})
	if err != nil {
		h.respondError(w, err, "server.handleGetSection")
	}
}

func (h *handler) handlePutSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	var raw json.RawMessage
	if !h.decodeBody(w, r, &raw, "server.handlePutSection") {
		return
	}
	h.update(w, r, "server.handlePutSection", nil, func(doc *model.Document) error {
		err := doc.SetSection(name, raw)
		if err != nil && !errors.Is(err, model.ErrUnknownSection) && !errors.Is(err, model.ErrReadOnlySection) {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return err
	})
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	resp := dashboardResponse{Views: forecast.Views(), Notices: h.ws.Notices()}
	_ = h.ws.View(func(doc *model.Document, results forecast.Results) error {
		resp.Summary, resp.KPIs = results.Summary()
		resp.Warnings = doc.Validate()
		return nil
	})
	if err := h.ws.LoadError(); err != nil {
		resp.Warnings = append([]string{"stored model could not be loaded, changes will not be saved: " + err.Error()}, resp.Warnings...)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleView(w http.ResponseWriter, r *http.Request) {
	table, err := h.table(r)
	if err != nil {
		h.respondError(w, err, "server.handleView")
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	table, err := h.table(r)
	if err != nil {
		h.respondError(w, err, "server.handleExport")
		return
	}
	view := chi.URLParam(r, "view")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view+".csv"))
	if err := output.CsvFormat(w, table); err != nil {
		h.logger.Error("failed to write CSV export",
			zap.String("op", "server.handleExport"),
			zap.String("view", view),
			zap.Error(err),
		)
	}
}

// table builds the requested view; ?annual=true rolls months up into years.
func (h *handler) table(r *http.Request) (output.Table, error) {
	view := chi.URLParam(r, "view")
	annual := false
	if raw := r.URL.Query().Get("annual"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return output.Table{}, fmt.Errorf("%w: annual must be a boolean", errBadRequest)
		}
		annual = parsed
	}

	var table output.Table
	err := h.ws.View(func(_ *model.Document, results forecast.Results) error {
		var err error
		table, err = results.Table(view, annual)
		return err
	})
	return table, err
}

func (h *handler) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	var e model.Employee
	if !h.decodeBody(w, r, &e, "server.handleAddEmployee") {
		return
	}
	var added model.Employee
	h.update(w, r, "server.handleAddEmployee", &added, func(doc *model.Document) error {
		var err error
		added, err = doc.Payroll.AddEmployee(e)
		return err
	})
}

func (h *handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var e model.Employee
	if !h.decodeBody(w, r, &e, "server.handleUpdateEmployee") {
		return
	}
	e.ID = chi.URLParam(r, "id")
	h.update(w, r, "server.handleUpdateEmployee", &e, func(doc *model.Document) error {
		return doc.Payroll.UpdateEmployee(e)
	})
}

func (h *handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.update(w, r, "server.handleDeleteEmployee", nil, func(doc *model.Document) error {
		return doc.Payroll.RemoveEmployee(id)
	})
}

func (h *handler) handleAddContractor(w http.ResponseWriter, r *http.Request) {
	var c model.Contractor
	if !h.decodeBody(w, r, &c, "server.handleAddContractor") {
		return
	}
	var added model.Contractor
	h.update(w, r, "server.handleAddContractor", &added, func(doc *model.Document) error {
		var err error
		added, err = doc.Payroll.AddContractor(c)
		return err
	})
}

func (h *handler) handleUpdateContractor(w http.ResponseWriter, r *http.Request) {
	var c model.Contractor
	if !h.decodeBody(w, r, &c, "server.handleUpdateContractor") {
		return
	}
	c.ID = chi.URLParam(r, "id")
	h.update(w, r, "server.handleUpdateContractor", &c, func(doc *model.Document) error {
		return doc.Payroll.UpdateContractor(c)
	})
}

func (h *handler) handleDeleteContractor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.update(w, r, "server.handleDeleteContractor", nil, func(doc *model.Document) error {
		return doc.Payroll.RemoveContractor(id)
	})
}

func (h *handler) handleAddBonus(w http.ResponseWriter, r *http.Request) {
	var b model.Bonus
	if !h.decodeBody(w, r, &b, "server.handleAddBonus") {
		return
	}
	h.update(w, r, "server.handleAddBonus", &b, func(doc *model.Document) error {
		return doc.Payroll.AddBonus(b)
	})
}

func (h *handler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var c model.ExpenseCategory
	if !h.decodeBody(w, r, &c, "server.handleAddCategory") {
		return
	}
	var added model.ExpenseCategory
	h.update(w, r, "server.handleAddCategory", &added, func(doc *model.Document) error {
		var err error
		added, err = doc.Liquidity.AddExpenseCategory(c)
		return err
	})
}

func (h *handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.update(w, r, "server.handleDeleteCategory", nil, func(doc *model.Document) error {
		return doc.Liquidity.RemoveExpenseCategory(name)
	})
}

func (h *handler) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var order []string
	if !h.decodeBody(w, r, &order, "server.handleReorderCategories") {
		return
	}
	h.update(w, r, "server.handleReorderCategories", nil, func(doc *model.Document) error {
		return doc.Liquidity.ReorderCategories(order)
	})
}

// update runs fn through the workspace and answers with record. A save
// failure is reported as a warning on a 200 response.
func (h *handler) update(w http.ResponseWriter, r *http.Request, op string, record interface{}, fn func(doc *model.Document) error) {
	err := h.ws.Update(r.Context(), fn)

	var resp mutationResponse
	switch {
	case err == nil:
	case errors.Is(err, workspace.ErrNotPersisted):
		h.logger.Warn("edit applied but not saved",
			zap.String("op", op),
			zap.Error(err),
		)
		resp.Warnings = append(resp.Warnings, err.Error())
	default:
		h.respondError(w, err, op)
		return
	}

	if record != nil {
		resp.Record = record
	}
	_ = h.ws.View(func(doc *model.Document, _ forecast.Results) error {
		resp.Warnings = append(resp.Warnings, doc.Validate()...)
		return nil
	})
	h.writeJSON(w, http.StatusOK, resp)
}

var errBadRequest = errors.New("bad request")

// decodeBody reads a size-limited JSON body into v, answering 400 or 413 on
// failure.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrUnknownSection),
		errors.Is(err, forecast.ErrUnknownView):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateID),
		errors.Is(err, model.ErrDuplicateCategory),
		errors.Is(err, model.ErrProtectedCategory):
		return http.StatusConflict
	case errors.Is(err, model.ErrReadOnlySection):
		return http.StatusMethodNotAllowed
	case errors.Is(err, model.ErrInvalidRecord),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondError(w http.ResponseWriter, err error, op string) {
	h.writeError(w, statusFor(err), err.Error(), op)
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
