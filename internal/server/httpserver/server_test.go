package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/snapkv/internal/core/service"
	"github.com/yndnr/snapkv/internal/telemetry/logger"
	"github.com/yndnr/snapkv/internal/telemetry/metric"
)

func newTestRouter(t *testing.T) (*Router, *metric.Registry, *service.Database) {
	t.Helper()
	reg := metric.NewRegistry()
	db := service.New(service.WithRecorder(reg))
	rt := NewRouter(RouterConfig{DB: db, Metrics: reg.Handler(), Logger: logger.Discard()})
	return rt, reg, db
}

func TestRouter_RequestID(t *testing.T) {
	rt, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	id := rec.Header().Get(HeaderRequestID)
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err, id)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body["request_id"])
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	rt, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	req.Header.Set(HeaderRequestID, "trace-42")
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	assert.Equal(t, "trace-42", rec.Header().Get(HeaderRequestID))
}

func TestRouter_Metrics(t *testing.T) {
	rt, _, db := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "A", "f", "v", 1))
	_, _ = db.Get(ctx, "A", "missing", 1)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := rec.Body.String()
	assert.Contains(t, out, `snapkv_operations_total{op="set",result="ok"} 1`)
	assert.Contains(t, out, `snapkv_operations_total{op="get",result="not_found"} 1`)
}

func TestRouter_Admin(t *testing.T) {
	rt, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/backups", strings.NewReader(`{"time":5}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/backups", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rt.SetReady(false)
	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Recover(logger.Discard()), RequestID(logger.Discard()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "KV-SYS-5000", rec.Header().Get("X-Error-Code"))
	assert.JSONEq(t, `{"code":"KV-SYS-5000","message":"internal server error"}`, rec.Body.String())
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", clientIP(r))

	r.Header.Set("X-Real-IP", "10.9.9.9")
	assert.Equal(t, "10.9.9.9", clientIP(r))

	r.Header.Set("X-Forwarded-For", "192.168.0.1, 10.0.0.1")
	assert.Equal(t, "192.168.0.1", clientIP(r))
}

func TestServer_StartShutdown(t *testing.T) {
	rt, _, _ := newTestRouter(t)
	s := New("127.0.0.1:0", rt, logger.Discard())
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr().String() + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-s.Err():
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve loop did not stop")
	}
}
