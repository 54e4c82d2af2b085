package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/LicenseChain/Status/internal/status"
)

func TestClassify_Boundaries(t *testing.T) {
	threshold := 5 * time.Second

	cases := []struct {
		name    string
		code    int
		elapsed time.Duration
		want    status.Status
	}{
		{"fast_200", 200, 100 * time.Millisecond, status.Operational},
		{"slow_200_at_threshold", 200, 5 * time.Second, status.Degraded},
		{"slow_200_just_under", 200, 4999 * time.Millisecond, status.Operational},
		{"created_201", 201, time.Millisecond, status.Operational},
		{"redirect_301", 301, time.Millisecond, status.Degraded},
		{"client_404", 404, time.Millisecond, status.Degraded},
		{"client_499", 499, time.Millisecond, status.Degraded},
		{"server_500", 500, time.Millisecond, status.Outage},
		{"server_503", 503, time.Millisecond, status.Outage},
		{"server_599", 599, time.Millisecond, status.Outage},
		{"slow_500_still_outage", 500, 6 * time.Second, status.Outage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.code, tc.elapsed, threshold); got != tc.want {
				t.Fatalf("Classify(%d, %s) = %s, want %s", tc.code, tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestProbe_OperationalResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "LicenseChain-Status-Monitor/1.0" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(zerolog.Nop())
	result := p.Probe(context.Background(), Target{Name: "api", URL: srv.URL, Timeout: time.Second})

	if result.Status != status.Operational {
		t.Fatalf("expected operational, got %s", result.Status)
	}
	if result.TransportErr != nil {
		t.Fatalf("unexpected transport error: %v", result.TransportErr)
	}
}

func TestProbe_ServerErrorIsOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New(zerolog.Nop())
	result := p.Probe(context.Background(), Target{Name: "api", URL: srv.URL, Timeout: time.Second})

	if result.Status != status.Outage {
		t.Fatalf("expected outage, got %s", result.Status)
	}
	if result.TransportErr != nil {
		t.Fatalf("5xx is a received response, not a transport error: %v", result.TransportErr)
	}
}

func TestProbe_ClientErrorIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(zerolog.Nop())
	result := p.Probe(context.Background(), Target{Name: "docs", URL: srv.URL, Timeout: time.Second})

	if result.Status != status.Degraded {
		t.Fatalf("expected degraded, got %s", result.Status)
	}
}

func TestProbe_SlowSuccessIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(zerolog.Nop(), WithSlowThreshold(10*time.Millisecond))
	result := p.Probe(context.Background(), Target{Name: "web", URL: srv.URL, Timeout: time.Second})

	if result.Status != status.Degraded {
		t.Fatalf("expected degraded for slow success, got %s", result.Status)
	}
}

func TestProbe_TimeoutIsOutage(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	p := New(zerolog.Nop())
	result := p.Probe(context.Background(), Target{Name: "api", URL: srv.URL, Timeout: 50 * time.Millisecond})

	if result.Status != status.Outage {
		t.Fatalf("expected outage on timeout, got %s", result.Status)
	}
	if result.TransportErr == nil {
		t.Fatalf("expected transport error on timeout")
	}
	if result.ResponseTime < 50*time.Millisecond {
		t.Fatalf("expected elapsed time to cover the timeout, got %s", result.ResponseTime)
	}
}

func TestProbe_UnreachableIsOutage(t *testing.T) {
	p := New(zerolog.Nop())
	result := p.Probe(context.Background(), Target{
		Name:    "api",
		URL:     "http://127.0.0.1:1",
		Timeout: time.Second,
	})

	if result.Status != status.Outage {
		t.Fatalf("expected outage for unreachable target, got %s", result.Status)
	}
	if result.TransportErr == nil {
		t.Fatalf("expected transport error for unreachable target")
	}
}

func TestProbe_InvalidURLIsOutage(t *testing.T) {
	p := New(zerolog.Nop())
	result := p.Probe(context.Background(), Target{Name: "api", URL: "://bad", Timeout: time.Second})

	if result.Status != status.Outage {
		t.Fatalf("expected outage for invalid URL, got %s", result.Status)
	}
	if result.TransportErr == nil {
		t.Fatalf("expected transport error for invalid URL")
	}
}
