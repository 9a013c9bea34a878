package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/choudharyperfumes/storefront/auth"
	"github.com/choudharyperfumes/storefront/cart"
	"github.com/choudharyperfumes/storefront/config"
	"github.com/choudharyperfumes/storefront/database"
	"github.com/choudharyperfumes/storefront/middleware"
	"github.com/choudharyperfumes/storefront/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "s3cret-pass"

type testEnv struct {
	app    *App
	router *gin.Engine
	store  *database.MemoryStore
	bucket *storage.Local
	carts  *cart.MemoryStore
}

func newTestEnv(t *testing.T, overrides map[string]string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := map[string]string{
		"DATABASE_DRIVER": "memory",
		"STORAGE_DRIVER":  "local",
		"UPLOAD_DIR":      t.TempDir(),
		"ADMIN_PASSWORD":  testAdminPassword,
		"SESSION_SECRET":  "controller-test-secret",
	}
	for k, v := range overrides {
		env[k] = v
	}
	cfg, err := config.FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)

	store := database.NewMemoryStore()
	hash, err := auth.HashPassword(cfg.AdminPassword)
	require.NoError(t, err)
	require.NoError(t, database.SeedAdminUser(context.Background(), store, cfg.AdminUsername, hash))

	bucket, err := storage.NewLocal(cfg.UploadDir, "/uploads")
	require.NoError(t, err)

	carts := cart.NewMemoryStore()
	sessions := auth.NewManager(store, store, cfg.SessionSecret, cfg.SessionTTL)
	app := NewApp(cfg, store, bucket, sessions, carts)

	r := gin.New()
	r.Use(middleware.AdminGate(sessions))
	app.Register(r)

	return &testEnv{app: app, router: r, store: store, bucket: bucket, carts: carts}
}

func (e *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			buf, _ := json.Marshal(b)
			rdr = bytes.NewReader(buf)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login returns the admin session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": testAdminPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := findCookie(w, auth.CookieName)
	require.NotNil(t, c)
	return c
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
