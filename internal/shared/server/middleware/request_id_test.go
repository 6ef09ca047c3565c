package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRequestIDRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		*captured = RequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequestIDEchoesCallerHeader(t *testing.T) {
	var captured string
	router := newRequestIDRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if captured != "req-abc" {
		t.Fatalf("context id = %q, want caller's id", captured)
	}
	if got := resp.Header().Get("X-Request-Id"); got != "req-abc" {
		t.Fatalf("response header = %q, want caller's id", got)
	}
}

func TestRequestIDMintsWhenAbsent(t *testing.T) {
	var captured string
	router := newRequestIDRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if captured == "" {
		t.Fatal("no request id minted")
	}
	if got := resp.Header().Get("X-Request-Id"); got != captured {
		t.Fatalf("response header = %q, context = %q", got, captured)
	}
}

func TestRequestIDFromContextNilSafe(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
