package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Get("/api/stores/{storeId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stores/123", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if obs.route != "/api/stores/{storeId}" {
		t.Fatalf("expected route pattern, got %q", obs.route)
	}
	if obs.status != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", obs.status)
	}
}

type recordingObserver struct {
	route  string
	status int
}

func (o *recordingObserver) ObserveRequest(_ string, route string, status int, _ time.Duration) {
	o.route = route
	o.status = status
}
