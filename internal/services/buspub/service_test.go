package buspub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/models"
)

func testService(candidates ...string) *Service {
	return &Service{
		cfg:        &config.Config{ServiceName: "crowdwatch-backend", BusPublishTimeout: 3 * time.Second},
		client:     &http.Client{Timeout: time.Second},
		candidates: candidates,
	}
}

func busServer(t *testing.T, status int, hits *atomic.Int64, got *models.BusMessage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != publishPath {
			t.Errorf("path = %s, want %s", r.URL.Path, publishPath)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decode bus message: %v", err)
			}
		}
		w.WriteHeader(status)
	}))
}

func TestPublishOneFirstCandidateWins(t *testing.T) {
	var hits atomic.Int64
	var msg models.BusMessage
	srv := busServer(t, http.StatusOK, &hits, &msg)
	defer srv.Close()

	var untouched atomic.Int64
	spare := busServer(t, http.StatusOK, &untouched, nil)
	defer spare.Close()

	svc := testService(srv.URL, spare.URL)
	res := svc.publishOne(models.Alert{
		Name:     "HighCPU",
		Status:   models.AlertStatusFiring,
		Severity: models.SeverityCritical,
		Instance: "homelab",
		Summary:  "CPU above 90%",
	}, map[string]string{"job": "node"})

	if !res.Published || res.Candidate != srv.URL {
		t.Fatalf("result = %+v, want publish via first candidate", res)
	}
	if untouched.Load() != 0 {
		t.Errorf("later candidate received %d requests, want 0", untouched.Load())
	}

	if msg.MessageType != "ALERT" || msg.Target != "monitoring" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Content != "[CRITICAL] CPU above 90%" {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.Metadata["alert_name"] != "HighCPU" || msg.Metadata["instance"] != "homelab" {
		t.Errorf("metadata = %+v", msg.Metadata)
	}
}

func TestPublishOneFallsBackOnFailure(t *testing.T) {
	var failHits, okHits, spareHits atomic.Int64
	failing := busServer(t, http.StatusBadGateway, &failHits, nil)
	defer failing.Close()
	working := busServer(t, http.StatusOK, &okHits, nil)
	defer working.Close()
	spare := busServer(t, http.StatusOK, &spareHits, nil)
	defer spare.Close()

	// First candidate is a dead address, second returns 502, third works
	svc := testService("http://127.0.0.1:1", failing.URL, working.URL, spare.URL)
	res := svc.publishOne(models.Alert{Name: "DiskFull", Severity: models.SeverityWarning}, nil)

	if !res.Published || res.Candidate != working.URL {
		t.Fatalf("result = %+v, want publish via third candidate", res)
	}
	if failHits.Load() != 1 {
		t.Errorf("failing candidate hits = %d, want 1", failHits.Load())
	}
	if spareHits.Load() != 0 {
		t.Errorf("candidates after the winner were tried: %d hits", spareHits.Load())
	}
}

func TestPublishOneAllCandidatesFail(t *testing.T) {
	var hits atomic.Int64
	failing := busServer(t, http.StatusInternalServerError, &hits, nil)
	defer failing.Close()

	svc := testService(failing.URL, "http://127.0.0.1:1")
	res := svc.publishOne(models.Alert{Name: "Unreachable"}, nil)

	if res.Published {
		t.Fatalf("result = %+v, want unpublished", res)
	}
}

func TestNewServiceCandidateOrder(t *testing.T) {
	svc := NewService(&config.Config{BusURL: "http://bus.internal:8503", BusPublishTimeout: 3 * time.Second})

	want := []string{"http://bus.internal:8503", "http://172.17.0.1:8503", "http://127.0.0.1:8503"}
	if len(svc.candidates) != len(want) {
		t.Fatalf("candidates = %v, want %v", svc.candidates, want)
	}
	for i := range want {
		if svc.candidates[i] != want[i] {
			t.Fatalf("candidates[%d] = %s, want %s", i, svc.candidates[i], want[i])
		}
	}

	// Without a configured endpoint only the fallbacks remain
	svc = NewService(&config.Config{BusPublishTimeout: 3 * time.Second})
	if len(svc.candidates) != 2 {
		t.Fatalf("candidates = %v, want fallbacks only", svc.candidates)
	}
}
