package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"
	"inkwell/app/views"

	"github.com/gorilla/mux"
)

// maxUploadSize bounds multipart bodies held in memory.
const maxUploadSize = 8 << 20

// Base carries what every controller needs to answer a request.
type Base struct {
	templates     views.Templates
	logger        *slog.Logger
	secureCookies bool
}

func NewBase(templates views.Templates, logger *slog.Logger, secureCookies bool) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{templates: templates, logger: logger, secureCookies: secureCookies}
}

// render writes the named page with the session user and pending flashes.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name, title string, errs map[string]string, data any) {
	page := views.Page{
		Title:   title,
		User:    middleware.CurrentUser(r.Context()),
		Flashes: popFlashes(w, r),
		Errors:  errs,
		Data:    data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := b.templates.Render(w, name, page); err != nil {
		b.logger.Error("Template error", slog.String("template", name), slog.String("error", err.Error()))
	}
}

func (b *Base) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (b *Base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.WantsJSON(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	b.render(w, r, status, "error", http.StatusText(status), nil, message)
}

// fail answers err with the response matching its kind. Validation errors
// are handled by the caller because each form redisplays differently.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		b.sendError(w, r, what+" not found", http.StatusNotFound)
	case errors.Is(err, services.ErrNotOwner):
		middleware.Deny(w, r, middleware.ReasonNotOwner)
	case errors.As(err, &verr):
		b.sendJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": verr.Error(), "fields": verr.Fields})
	default:
		b.logger.Error("Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		b.sendError(w, r, "Something went wrong", http.StatusInternalServerError)
	}
}

// invalid answers a validation failure: JSON clients get 422, browsers get
// the form again with inline messages.
func (b *Base) invalid(w http.ResponseWriter, r *http.Request, verr *models.ValidationError, name, title string, data any) {
	if middleware.WantsJSON(r) {
		b.sendJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	b.render(w, r, http.StatusBadRequest, name, title, verr.Fields, data)
}

// redirect sends browsers to url and JSON clients the payload.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, url string, status int, payload any) {
	if middleware.WantsJSON(r) {
		b.sendJSON(w, status, payload)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// pathID reads a numeric mux variable. Routes constrain it to digits, so a
// failure means the value overflowed.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	return id, err == nil
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}

// decodeForm fills dst from a JSON body or from the parsed form.
func decodeForm(r *http.Request, dst any, fill func(get func(string) string)) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return err
		}
	} else if err := r.ParseForm(); err != nil {
		return err
	}
	fill(func(key string) string { return strings.TrimSpace(r.FormValue(key)) })
	return nil
}

// formUpload returns the uploaded file under field, or nil when none was
// sent. The caller must call the returned close function.
func formUpload(r *http.Request, field string) (*services.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if header.Filename == "" || header.Size == 0 {
		file.Close()
		return nil, noop, nil
	}
	return &services.Upload{Filename: header.Filename, Content: file}, func() { file.Close() }, nil
}
