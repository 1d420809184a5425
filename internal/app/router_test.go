package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/blogsphere-api/internal/app"
	"github.com/Nazarious-ucu/blogsphere-api/internal/config"
	"github.com/Nazarious-ucu/blogsphere-api/internal/metrics"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository/sqlite"
)

type testEnv struct {
	router *gin.Engine
	store  *sqlite.FormStore
	public string
}

func serverConfig(publicDir string) config.Server {
	return config.Server{RequestTimeout: 5, PublicDir: publicDir}
}

func newPublicDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Blogsphere</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('hi')"), 0o600))
	return dir
}

func setup(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "forms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.NewMetrics("test")
	store := sqlite.NewFormStore(db, zerolog.Nop(), m)
	public := newPublicDir(t)

	return testEnv{
		router: app.NewRouter(store, zerolog.Nop(), m, serverConfig(public)),
		store:  store,
		public: public,
	}
}

func (e testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var cnt int
	require.NoError(t, e.store.DB.QueryRow(query, args...).Scan(&cnt))
	return cnt
}

func TestNewsletterFlow(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/newsletter", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email is required"}`, w.Body.String())
	assert.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM newsletters`))

	w = env.do(http.MethodPost, "/api/newsletter", `{"email":"test@gmail.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Subscription successful"}`, w.Body.String())

	var date string
	require.NoError(t, env.store.DB.QueryRow(
		`SELECT date FROM newsletters WHERE email = ?`, "test@gmail.com").Scan(&date))
	assert.NotEmpty(t, date)
}

func TestNewsletterDuplicatesAreStored(t *testing.T) {
	env := setup(t)

	for range 2 {
		w := env.do(http.MethodPost, "/api/newsletter", `{"email":"dup@gmail.com"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, env.count(t, `SELECT COUNT(*) FROM newsletters WHERE email = ?`, "dup@gmail.com"))
}

func TestContactFlow(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","subject":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message sent successfully"}`, w.Body.String())

	assert.Equal(t, 1, env.count(t,
		`SELECT COUNT(*) FROM contacts WHERE name = ? AND email = ? AND subject = ? AND message = ? AND date <> ''`,
		"A", "a@b.com", "Hi", "Hello"))
}

func TestContactMissingFieldPersistsNothing(t *testing.T) {
	bodies := map[string]string{
		"name":    `{"email":"a@b.com","subject":"Hi","message":"Hello"}`,
		"email":   `{"name":"A","subject":"Hi","message":"Hello"}`,
		"subject": `{"name":"A","email":"a@b.com","message":"Hello"}`,
		"message": `{"name":"A","email":"a@b.com","subject":"Hi"}`,
	}

	env := setup(t)
	for field, body := range bodies {
		t.Run("missing "+field, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/contact", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"All fields are required"}`, w.Body.String())
		})
	}

	assert.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM contacts`))
}

func TestStoreFailureReturnsServerError(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.store.Close(context.Background()))

	w := env.do(http.MethodPost, "/api/newsletter", `{"email":"test@gmail.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","subject":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
}

func TestHealthIgnoresStoreState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.Unavailable{Cause: errors.New("connection refused")}
	router := app.NewRouter(store, zerolog.Nop(), metrics.NewMetrics("test"), serverConfig(t.TempDir()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(`{"email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
}

func TestStaticFiles(t *testing.T) {
	env := setup(t)

	cases := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "index", method: http.MethodGet, path: "/", wantCode: http.StatusOK, wantBody: "<h1>Blogsphere</h1>"},
		{name: "asset", method: http.MethodGet, path: "/app.js", wantCode: http.StatusOK, wantBody: "console.log('hi')"},
		{name: "missing file", method: http.MethodGet, path: "/missing.css", wantCode: http.StatusNotFound},
		{name: "post to unknown path", method: http.MethodPost, path: "/app.js", wantCode: http.StatusNotFound},
		{name: "unknown api path", method: http.MethodGet, path: "/api/unknown", wantCode: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(tc.method, tc.path, "")
			assert.Equal(t, tc.wantCode, w.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	env := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsAndDocsEndpoints(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/newsletter", `{"email":"test@gmail.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_forms_submissions_total{form="newsletter"} 1`)

	w = env.do(http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/newsletter")
}
