package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/service/application"
)

const (
	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 64 << 10
	statusPath   = "/api/v1/applications/status"
)

// applicationService defines the minimal interface needed by ApplicationHandler.
type applicationService interface {
	Submit(ctx context.Context, input application.SubmitInput) (domain.Application, error)
	Lookup(ctx context.Context, reg string) (domain.Application, error)
	List(ctx context.Context) ([]domain.Application, error)
	Approve(ctx context.Context, id string) (domain.Application, error)
	Reject(ctx context.Context, id string) (domain.Application, error)
	Delete(ctx context.Context, input application.DeleteInput) (domain.Application, error)
	Clear(ctx context.Context, confirmed bool) (int, error)
	Export(ctx context.Context, format domain.ExportFormat) (application.ExportResult, error)
}

// ApplicationHandler serves the JSON application API.
type ApplicationHandler struct {
	svc applicationService
	log *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(svc applicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, log: logger.With("handler", "applications")}
}

// formValue accepts a JSON string or number and keeps its text, so income
// may be posted either way.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	if string(b) == "null" {
		*v = ""
		return nil
	}
	*v = formValue(b)
	return nil
}

type submitRequest struct {
	Name   formValue `json:"name"`
	Reg    formValue `json:"reg"`
	Dept   formValue `json:"dept"`
	Income formValue `json:"income"`
	Reason formValue `json:"reason"`
}

type applicationResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Reg       string  `json:"reg"`
	Dept      string  `json:"dept"`
	Income    float64 `json:"income"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	Submitted string  `json:"submitted"`
}

type listResponse struct {
	Items []applicationResponse `json:"items"`
	Total int                   `json:"total"`
}

type clearResponse struct {
	Deleted int `json:"deleted"`
}

// Submit handles POST /api/v1/applications.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.svc.Submit(r.Context(), application.SubmitInput{
		Name:   string(req.Name),
		Reg:    string(req.Reg),
		Dept:   string(req.Dept),
		Income: string(req.Income),
		Reason: string(req.Reason),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Location", statusPath+"?"+url.Values{"reg": {app.Reg}}.Encode())
	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// List handles GET /api/v1/applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items := make([]applicationResponse, len(apps))
	for i, app := range apps {
		items[i] = toApplicationResponse(app)
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items)})
}

// Status handles GET /api/v1/applications/status?reg=.
func (h *ApplicationHandler) Status(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.Lookup(r.Context(), r.URL.Query().Get("reg"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// Approve handles POST /api/v1/applications/{id}/approve.
func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Approve)
}

// Reject handles POST /api/v1/applications/{id}/reject.
func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Reject)
}

func (h *ApplicationHandler) review(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, string) (domain.Application, error),
) {
	app, err := fn(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// Delete handles DELETE /api/v1/applications/{id}?confirm=yes.
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Delete(r.Context(), application.DeleteInput{
		ID:        r.PathValue("id"),
		Confirmed: confirmed(r),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/v1/applications?confirm=yes.
func (h *ApplicationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Clear(r.Context(), confirmed(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Deleted: n})
}

// Export handles GET /api/v1/applications/export?format=csv|xlsx.
func (h *ApplicationHandler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Export(r.Context(), domain.ExportFormat(r.URL.Query().Get("format")))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeDownload(w, res)
}

// writeDownload serves an export as a file attachment.
func writeDownload(w http.ResponseWriter, res application.ExportResult) {
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data) //nolint:errcheck
}

// confirmed reports whether the caller explicitly confirmed a destructive
// request with confirm=yes (query string or form).
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

func toApplicationResponse(app domain.Application) applicationResponse {
	return applicationResponse{
		ID:        app.ID,
		Name:      app.Name,
		Reg:       app.Reg,
		Dept:      app.Dept,
		Income:    app.Income,
		Reason:    app.Reason,
		Status:    app.Status.String(),
		Submitted: app.SubmittedISO(),
	}
}
