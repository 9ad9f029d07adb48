// Package web serves the server-rendered application pages.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
	"github.com/heartmarshall/scholarship-backend/internal/service/application"
)

// Messages shown to the user.
const (
	msgSubmitted       = "Application submitted successfully!"
	msgMissingFields   = "Please fill name and register number."
	msgNothingToExport = "No applications to export"
	msgNotFound        = "Application not found."
	msgStorageFailure  = "Something went wrong, please try again."
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index", "apply", "status", "admin", "confirm"}

// applicationService defines the minimal interface needed by Handler.
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

// Handler renders the HTML pages.
type Handler struct {
	svc   applicationService
	pages map[string]*template.Template
	log   *slog.Logger
}

// NewHandler parses the embedded templates and creates a Handler.
func NewHandler(svc applicationService, logger *slog.Logger) (*Handler, error) {
	layout, err := template.New("").Funcs(template.FuncMap{
		"income":    formatIncome,
		"submitted": formatSubmitted,
	}).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		parsed[name] = t
	}

	return &Handler{
		svc:   svc,
		pages: parsed,
		log:   logger.With("handler", "web"),
	}, nil
}

type submitForm struct {
	Name   string
	Reg    string
	Dept   string
	Income string
	Reason string
}

type confirmPrompt struct {
	Action   string
	Question string
	Button   string
}

type pageData struct {
	Title       string
	Message     string
	MessageKind string
	Form        submitForm
	Query       string
	App         *domain.Application
	NotFound    bool
	Apps        []domain.Application
	Confirm     *confirmPrompt
}

func (d *pageData) ok(msg string)   { d.Message, d.MessageKind = msg, "ok" }
func (d *pageData) fail(msg string) { d.Message, d.MessageKind = msg, "error" }

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, "index", pageData{Title: "Scholarship Portal"})
}

// ApplyForm handles GET /apply.
func (h *Handler) ApplyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "apply", pageData{Title: "Apply"})
}

// Apply handles POST /apply. The form is reset on success and kept as typed
// when validation fails.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Apply"}
	if err := r.ParseForm(); err != nil {
		data.fail(msgMissingFields)
		h.render(w, r, http.StatusBadRequest, "apply", data)
		return
	}

	form := submitForm{
		Name:   r.PostFormValue("name"),
		Reg:    r.PostFormValue("reg"),
		Dept:   r.PostFormValue("dept"),
		Income: r.PostFormValue("income"),
		Reason: r.PostFormValue("reason"),
	}

	_, err := h.svc.Submit(r.Context(), application.SubmitInput(form))
	switch {
	case err == nil:
		data.ok(msgSubmitted)
		h.render(w, r, http.StatusOK, "apply", data)
	case errors.Is(err, domain.ErrValidation):
		data.Form = form
		data.fail(msgMissingFields)
		h.render(w, r, http.StatusUnprocessableEntity, "apply", data)
	default:
		data.Form = form
		h.failure(w, r, "apply", data, err)
	}
}

// Status handles GET /status?reg=.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Check Status"}
	if !r.URL.Query().Has("reg") {
		h.render(w, r, http.StatusOK, "status", data)
		return
	}

	data.Query = r.URL.Query().Get("reg")
	app, err := h.svc.Lookup(r.Context(), data.Query)
	switch {
	case err == nil:
		data.App = &app
		h.render(w, r, http.StatusOK, "status", data)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		data.NotFound = true
		h.render(w, r, http.StatusOK, "status", data)
	default:
		h.failure(w, r, "status", data, err)
	}
}

// Admin handles GET /admin.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	h.admin(w, r, http.StatusOK, pageData{})
}

func (h *Handler) admin(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.Title = "Admin"
	apps, err := h.svc.List(r.Context())
	if err != nil {
		h.failure(w, r, "admin", data, err)
		return
	}
	data.Apps = apps
	h.render(w, r, status, "admin", data)
}

// Approve handles POST /admin/applications/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Approve)
}

// Reject handles POST /admin/applications/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Reject)
}

func (h *Handler) review(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, string) (domain.Application, error),
) {
	if _, err := fn(r.Context(), r.PathValue("id")); err != nil {
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Delete handles GET and POST /admin/applications/{id}/delete. Without
// confirm=yes it renders a confirmation prompt.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if r.Method != http.MethodPost || r.PostFormValue("confirm") != "yes" {
		h.confirm(w, r, confirmPrompt{
			Action:   "/admin/applications/" + id + "/delete",
			Question: "Delete this application?",
			Button:   "Yes, delete",
		})
		return
	}

	if _, err := h.svc.Delete(r.Context(), application.DeleteInput{ID: id, Confirmed: true}); err != nil {
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Clear handles GET and POST /admin/clear. Without confirm=yes it renders a
// confirmation prompt.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.PostFormValue("confirm") != "yes" {
		h.confirm(w, r, confirmPrompt{
			Action:   "/admin/clear",
			Question: "Clear all applications?",
			Button:   "Yes, clear all",
		})
		return
	}

	if _, err := h.svc.Clear(r.Context(), true); err != nil {
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ExportCSV handles GET /admin/export.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, domain.ExportFormatCSV)
}

// ExportXLSX handles GET /admin/export.xlsx.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, domain.ExportFormatXLSX)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format domain.ExportFormat) {
	res, err := h.svc.Export(r.Context(), format)
	if err != nil {
		h.adminError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data) //nolint:errcheck
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request, prompt confirmPrompt) {
	h.render(w, r, http.StatusOK, "confirm", pageData{
		Title:   "Please confirm",
		Confirm: &prompt,
	})
}

// adminError re-renders the admin list with a message for err.
func (h *Handler) adminError(w http.ResponseWriter, r *http.Request, err error) {
	var data pageData
	switch {
	case errors.Is(err, domain.ErrNothingToExport):
		data.fail(msgNothingToExport)
		h.admin(w, r, http.StatusNotFound, data)
	case errors.Is(err, domain.ErrNotFound):
		data.fail(msgNotFound)
		h.admin(w, r, http.StatusNotFound, data)
	case errors.Is(err, domain.ErrConflict):
		data.fail(msgStorageFailure)
		h.admin(w, r, http.StatusConflict, data)
	default:
		h.failure(w, r, "admin", pageData{Title: "Admin"}, err)
	}
}

// failure logs an unexpected error and renders page with a generic message.
func (h *Handler) failure(w http.ResponseWriter, r *http.Request, page string, data pageData, err error) {
	h.log.ErrorContext(r.Context(), "request failed",
		slog.String("page", page),
		slog.String("error", err.Error()),
	)
	data.fail(msgStorageFailure)
	h.render(w, r, http.StatusInternalServerError, page, data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.ErrorContext(r.Context(), "render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) //nolint:errcheck
}
