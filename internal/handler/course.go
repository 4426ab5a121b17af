package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coursecat/coursecat/internal/model"
	"github.com/coursecat/coursecat/internal/service"
	"github.com/coursecat/coursecat/internal/telemetry"
	"github.com/coursecat/coursecat/internal/web"
)

// CourseHandler handles the course catalog pages.
type CourseHandler struct {
	svc      *service.CourseService
	renderer *web.Renderer
	reporter *telemetry.Reporter
	logger   *slog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(svc *service.CourseService, renderer *web.Renderer, reporter *telemetry.Reporter, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		svc:      svc,
		renderer: renderer,
		reporter: reporter,
		logger:   logger,
	}
}

// Index handles GET /.
func (h *CourseHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", "Home", nil)
}

// Catalog handles GET /catalog.
func (h *CourseHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "catalog", "Course Catalog", courses)
}

// Details handles GET /course/{code}.
// An unknown code is a counted domain event: it is reported to
// telemetry, flashed to the user, and the request still completes with
// a redirect to the catalog.
func (h *CourseHandler) Details(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	course, err := h.svc.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			msg := fmt.Sprintf("No course found with code '%s'.", code)
			h.reporter.Report(msg)
			web.SetFlash(w, web.FlashError, msg)
			http.Redirect(w, r, "/catalog", http.StatusSeeOther)
			return
		}
		h.logger.Error("failed to load course", "code", code, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, "course", course.Code, course)
}

// Form handles GET /form.
func (h *CourseHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "form", "Add Course", model.CourseInput{})
}

// Submit handles POST /submit_detail.
func (h *CourseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	input := model.CourseInput{
		Code:          r.PostFormValue("code"),
		Name:          r.PostFormValue("name"),
		Instructor:    r.PostFormValue("instructor"),
		Semester:      r.PostFormValue("semester"),
		Schedule:      r.PostFormValue("schedule"),
		Classroom:     r.PostFormValue("classroom"),
		Prerequisites: r.PostFormValue("prerequisites"),
		Grading:       r.PostFormValue("grading"),
		Description:   r.PostFormValue("description"),
	}

	course, err := h.svc.Create(r.Context(), input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			msg := fmt.Sprintf("Missing required fields: %s.", strings.Join(verr.Missing, ", "))
			h.reporter.Report(msg)
			web.SetFlash(w, web.FlashError, msg)
			http.Redirect(w, r, "/form", http.StatusSeeOther)
			return
		}
		h.logger.Error("failed to save course", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.logger.Info("course_added",
		"course_id", course.ID,
		"code", course.Code,
	)

	web.SetFlash(w, web.FlashSuccess, fmt.Sprintf("Course '%s' has been successfully added!", course.Name))
	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}

// render buffers the page so a template fault can still produce a 500
// instead of a half-written body.
func (h *CourseHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	page := web.Page{
		Title: title,
		Flash: web.PopFlash(w, r),
		Data:  data,
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, page); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
