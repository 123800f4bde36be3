package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/core/service"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/db/sqlstore"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/http/handlers"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/storage"
)

const testSecret = "router-test-secret"

// newTestServer wires the real services over a temporary SQLite database.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:     sqlstore.DriverSQLite,
		SQLitePath: filepath.Join(dir, "rental.sqlite"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	files, err := storage.NewLocalStorage(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	log := zerolog.Nop()
	users := sqlstore.NewUserRepository(store)
	properties := sqlstore.NewPropertyRepository(store)
	availability := sqlstore.NewAvailabilityRepository(store)

	authService := service.NewAuthService(users, testSecret, time.Hour, log)
	if err := authService.SeedAdmin(ctx, "admin@example.com", "admin123", false); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Logger:              log,
		JWTSecret:           testSecret,
		FrontendURL:         "http://localhost:3000",
		AuthService:         authService,
		PropertyService:     service.NewPropertyService(properties, nil, log),
		AvailabilityService: service.NewAvailabilityService(availability, properties, log),
		UploadService:       service.NewUploadService(files, "http://localhost:3001", 0, log),
		HealthChecks:        map[string]handlers.PingFunc{"database": store.Ping},
		Registerer:          reg,
		Gatherer:            reg,
	})
}

type apiResponse struct {
	Code int
	Body []byte
}

func (r apiResponse) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %s: %v", r.Body, err)
	}
}

func call(t *testing.T, e *echo.Echo, method, target, token string, body any) apiResponse {
	t.Helper()
	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		payload = string(raw)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return apiResponse{Code: rec.Code, Body: rec.Body.Bytes()}
}

func register(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	res := call(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("register %s: %d %s", email, res.Code, res.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	res.decode(t, &out)
	return out.Token
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(t)

	if res := call(t, e, http.MethodGet, "/api/health", "", nil); res.Code != http.StatusOK {
		t.Fatalf("liveness: %d", res.Code)
	}
	if res := call(t, e, http.MethodGet, "/api/health/ready", "", nil); res.Code != http.StatusOK {
		t.Fatalf("readiness: %d %s", res.Code, res.Body)
	}
	if res := call(t, e, http.MethodGet, "/metrics", "", nil); res.Code != http.StatusOK {
		t.Fatalf("metrics: %d", res.Code)
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	e := newTestServer(t)

	token := register(t, e, "ana@example.com")

	res := call(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "other",
	})
	if res.Code != http.StatusBadRequest || !strings.Contains(string(res.Body), "user already exists") {
		t.Fatalf("duplicate register: %d %s", res.Code, res.Body)
	}

	res = call(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", res.Code)
	}
	var errBody errorResponse
	res.decode(t, &errBody)
	if errBody.Error != "invalid credentials" {
		t.Fatalf("unexpected error body %q", errBody.Error)
	}

	res = call(t, e, http.MethodGet, "/api/auth/me", token, nil)
	if res.Code != http.StatusOK || !strings.Contains(string(res.Body), "ana@example.com") {
		t.Fatalf("me: %d %s", res.Code, res.Body)
	}

	if res := call(t, e, http.MethodGet, "/api/auth/me", "", nil); res.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", res.Code)
	}

	res = call(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "admin123",
	})
	if res.Code != http.StatusOK || !strings.Contains(string(res.Body), `"role":"admin"`) {
		t.Fatalf("admin login: %d %s", res.Code, res.Body)
	}
}

func TestRouter_PropertyLifecycle(t *testing.T) {
	e := newTestServer(t)
	owner := register(t, e, "owner@example.com")
	stranger := register(t, e, "stranger@example.com")

	if res := call(t, e, http.MethodPost, "/api/properties", "", map[string]any{"title": "Casa"}); res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %d", res.Code)
	}

	res := call(t, e, http.MethodPost, "/api/properties", owner, map[string]any{
		"title":           "Cabaña del Lago",
		"location":        "Villa Carlos Paz",
		"price_per_night": 120,
		"capacity":        4,
		"amenities":       "{wifi,pileta}",
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", res.Code, res.Body)
	}
	var created struct {
		ID         int64    `json:"id"`
		OwnerEmail string   `json:"owner_email"`
		Amenities  []string `json:"amenities"`
		Images     []string `json:"images"`
	}
	res.decode(t, &created)
	if created.OwnerEmail != "owner@example.com" || len(created.Amenities) != 2 || created.Images == nil {
		t.Fatalf("unexpected property: %+v", created)
	}
	path := fmt.Sprintf("/api/properties/%d", created.ID)

	res = call(t, e, http.MethodGet, "/api/properties?location=carlos&minCapacity=3", "", nil)
	var page struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PageSize   int `json:"pageSize"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	res.decode(t, &page)
	if len(page.Data) != 1 || page.Pagination.Total != 1 || page.Pagination.PageSize != 9 || page.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected page: %s", res.Body)
	}

	res = call(t, e, http.MethodGet, "/api/properties?page=2049638230412172402&pageSize=9", "", nil)
	page.Data = nil
	res.decode(t, &page)
	if res.Code != http.StatusOK || len(page.Data) != 0 || page.Pagination.Total != 1 {
		t.Fatalf("page past the end: %d %s", res.Code, res.Body)
	}

	if res := call(t, e, http.MethodPut, path, stranger, map[string]any{"title": "Mía"}); res.Code != http.StatusForbidden {
		t.Fatalf("stranger update: %d", res.Code)
	}

	res = call(t, e, http.MethodPut, path, owner, map[string]any{"title": "Cabaña Renovada"})
	if res.Code != http.StatusOK || !strings.Contains(string(res.Body), `"price_per_night":120`) {
		t.Fatalf("owner update: %d %s", res.Code, res.Body)
	}

	if res := call(t, e, http.MethodGet, "/api/properties/abc", "", nil); res.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: %d", res.Code)
	}

	res = call(t, e, http.MethodGet, "/api/properties/filter?owner_email=owner@example.com", "", nil)
	if res.Code != http.StatusOK || !strings.HasPrefix(string(res.Body), "[") {
		t.Fatalf("filter: %d %s", res.Code, res.Body)
	}

	res = call(t, e, http.MethodPost, "/api/availability", owner, map[string]any{
		"property_id": created.ID, "date": "2026-12-24", "reason": "family",
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("block date: %d %s", res.Code, res.Body)
	}
	res = call(t, e, http.MethodPost, "/api/availability", owner, map[string]any{
		"property_id": created.ID, "date": "2026-12-24",
	})
	if res.Code != http.StatusBadRequest || !strings.Contains(string(res.Body), "date already blocked") {
		t.Fatalf("duplicate block: %d %s", res.Code, res.Body)
	}
	res = call(t, e, http.MethodPost, "/api/availability", stranger, map[string]any{
		"property_id": created.ID, "date": "2026-12-25",
	})
	if res.Code != http.StatusForbidden {
		t.Fatalf("stranger block: %d", res.Code)
	}

	if res := call(t, e, http.MethodDelete, path, stranger, nil); res.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: %d", res.Code)
	}
	res = call(t, e, http.MethodDelete, path, owner, nil)
	if res.Code != http.StatusOK || string(res.Body) != "{\"success\":true}\n" {
		t.Fatalf("owner delete: %d %s", res.Code, res.Body)
	}

	if res := call(t, e, http.MethodGet, path, "", nil); res.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", res.Code)
	}
	res = call(t, e, http.MethodGet, fmt.Sprintf("/api/availability?property_id=%d", created.ID), "", nil)
	if res.Code != http.StatusOK || string(res.Body) != "[]\n" {
		t.Fatalf("blocks after delete: %d %s", res.Code, res.Body)
	}
}

func TestRouter_UploadRoundTrip(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e, "owner@example.com")

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	body, contentType := multipartBody(t, "casa.png", png)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}

	var out struct {
		FileURL string `json:"file_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	const prefix = "http://localhost:3001/uploads/"
	if !strings.HasPrefix(out.FileURL, prefix) || !strings.HasSuffix(out.FileURL, ".png") {
		t.Fatalf("unexpected url %q", out.FileURL)
	}

	res := call(t, e, http.MethodGet, "/uploads/"+strings.TrimPrefix(out.FileURL, prefix), "", nil)
	if res.Code != http.StatusOK || string(res.Body) != string(png) {
		t.Fatalf("serve: %d", res.Code)
	}
	if res := call(t, e, http.MethodGet, "/uploads/missing.png", "", nil); res.Code != http.StatusNotFound {
		t.Fatalf("missing file: %d", res.Code)
	}
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, w.FormDataContentType()
}
