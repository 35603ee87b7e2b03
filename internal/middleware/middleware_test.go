package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"findit/internal/logger"
)

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Logging(logger.NewNop()), Recovery(logger.NewNop()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/query?q=x", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message"`) {
		t.Errorf("Expected JSON message body, got %q", rec.Body.String())
	}
}

func TestLogging_PassesThroughAndFlushes(t *testing.T) {
	var flushed bool
	h := Logging(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("Expected wrapped writer to implement http.Flusher")
		}
		f.Flush()
		flushed = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot || rec.Body.String() != "hi" {
		t.Errorf("Expected 418 hi, got %d %q", rec.Code, rec.Body.String())
	}
	if !flushed || !rec.Flushed {
		t.Error("Expected flush to reach the underlying writer")
	}
}

func TestStatusRecorder_HijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := rec.Hijack(); err == nil {
		t.Error("Expected error when the underlying writer cannot hijack")
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mark("a"), mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b" {
		t.Errorf("Expected a,b, got %v", order)
	}
}
