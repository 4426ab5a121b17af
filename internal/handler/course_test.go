package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/coursecat/coursecat/internal/repository"
	"github.com/coursecat/coursecat/internal/service"
	"github.com/coursecat/coursecat/internal/telemetry"
	"github.com/coursecat/coursecat/internal/web"
)

type testApp struct {
	handler *CourseHandler
	router  *chi.Mux
	store   *telemetry.Store
	svc     *service.CourseService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo := repository.New(filepath.Join(t.TempDir(), "course_catalog.json"))
	svc := service.NewCourseService(repo)

	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	store := telemetry.NewStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	reporter := telemetry.NewReporter(store, nil, logger)

	h := NewCourseHandler(svc, renderer, reporter, logger)

	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/catalog", h.Catalog)
	r.Get("/course/{code}", h.Details)
	r.Get("/form", h.Form)
	r.Post("/submit_detail", h.Submit)

	return &testApp{handler: h, router: r, store: store, svc: svc}
}

func validForm() url.Values {
	return url.Values{
		"code":          {"CS203"},
		"name":          {"Software Tools"},
		"instructor":    {"A. Turing"},
		"semester":      {"Spring 2025"},
		"schedule":      {"MWF 10:00"},
		"classroom":     {"B-204"},
		"prerequisites": {"CS101"},
		"grading":       {"Relative"},
		"description":   {"Practical software tooling."},
	}
}

func postForm(app *testApp, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit_detail", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestCourseHandler_Index(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %s", ct)
	}
}

func TestCourseHandler_CatalogEmpty(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No courses yet") {
		t.Error("expected empty-catalog message")
	}
}

func TestCourseHandler_SubmitThenCatalog(t *testing.T) {
	app := newTestApp(t)

	rec := postForm(app, validForm())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/catalog" {
		t.Errorf("expected redirect to /catalog, got %s", loc)
	}

	// Success flash is set for the next page.
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Course 'Software Tools' has been successfully added!") {
		t.Error("expected success flash on catalog page")
	}
	if !strings.Contains(body, "/course/CS203") {
		t.Error("expected submitted course in catalog listing")
	}
}

func TestCourseHandler_SubmitMissingFields(t *testing.T) {
	app := newTestApp(t)

	form := validForm()
	form.Del("instructor")
	form.Del("grading")

	rec := postForm(app, form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/form" {
		t.Errorf("expected redirect back to /form, got %s", loc)
	}

	// The validation failure is a counted telemetry event.
	snap := app.store.Snapshot()
	if got := snap.Errors["Missing required fields: instructor, grading."]; got != 1 {
		t.Errorf("expected validation error counted once, got %v", snap.Errors)
	}

	// Nothing was persisted.
	courses, err := app.svc.List(t.Context())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("expected no courses persisted, got %d", len(courses))
	}
}

func TestCourseHandler_Details(t *testing.T) {
	app := newTestApp(t)

	postForm(app, validForm())

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/course/CS203", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Software Tools") {
		t.Error("expected course name on detail page")
	}
}

func TestCourseHandler_DetailsNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/course/X101", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/catalog" {
		t.Errorf("expected redirect to /catalog, got %s", loc)
	}

	// Error keyed by the exact formatted message.
	snap := app.store.Snapshot()
	if got := snap.Errors["No course found with code 'X101'."]; got != 1 {
		t.Errorf("expected not-found error counted once, got %v", snap.Errors)
	}
}

func TestCourseHandler_Form(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/submit_detail"`) {
		t.Error("expected submission form in response")
	}
}
