package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/crowd"
	"crowdwatch-go/internal/models"
	"crowdwatch-go/internal/store"
)

type fakeNotifier struct {
	calls       int
	lastEventID string
	lastCount   int
}

func (f *fakeNotifier) BroadcastEstimate(eventID string, estimate *models.CrowdEstimate) {
	f.calls++
	f.lastEventID = eventID
	f.lastCount = estimate.EstimatedCount
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st, err := store.NewWithDB(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func estimatesRouter(t *testing.T) (*gin.Engine, *store.Store, *fakeNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := testStore(t)
	model := crowd.NewModel(&config.Config{
		DensityLow:      0.5,
		DensityMedium:   1.5,
		DensityHigh:     3.0,
		DensityVeryHigh: 5.0,
	})
	notifier := &fakeNotifier{}
	h := NewEstimatesHandler(st, crowd.NewEstimator(model, st), notifier)

	r := gin.New()
	r.GET("/api/estimates/range", h.Range)
	r.GET("/api/estimates/:eventID", h.Get)
	r.POST("/api/estimates/:eventID/calculate", h.Calculate)
	r.POST("/api/estimates/:eventID/manual", h.Manual)
	return r, st, notifier
}

func seedEvent(t *testing.T, st *store.Store, area float64, checkins int) *models.Event {
	t.Helper()
	ctx := context.Background()
	event := &models.Event{Name: "Street festival", AreaSquareMeters: area}
	if err := st.CreateEvent(ctx, event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	for i := 0; i < checkins; i++ {
		if _, err := st.Checkin(ctx, event.ID, "user-"+string(rune('a'+i))); err != nil {
			t.Fatalf("seed checkin: %v", err)
		}
	}
	return event
}

func TestGetEstimates(t *testing.T) {
	r, st, _ := estimatesRouter(t)
	event := seedEvent(t, st, 1000, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/estimates/"+event.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["confirmedCheckins"] != float64(3) {
		t.Errorf("confirmedCheckins = %v, want 3", body["confirmedCheckins"])
	}
	if body["currentEstimate"] != float64(0) {
		t.Errorf("currentEstimate = %v, want 0 before any calculation", body["currentEstimate"])
	}
}

func TestGetEstimatesUnknownEvent(t *testing.T) {
	r, _, _ := estimatesRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/estimates/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCalculateEstimate(t *testing.T) {
	r, st, notifier := estimatesRouter(t)
	event := seedEvent(t, st, 0, 5)

	// Supplies the area, so the blend path runs
	req := httptest.NewRequest(http.MethodPost, "/api/estimates/"+event.ID+"/calculate",
		strings.NewReader(`{"areaSquareMeters": 1000, "densityTier": "medium"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Estimate models.CrowdEstimate `json:"estimate"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)

	// 5 check-ins, area 1000, medium: 0.3*(5*3) + 0.7*1500
	if body.Estimate.EstimatedCount != 1055 {
		t.Errorf("estimatedCount = %d, want 1055", body.Estimate.EstimatedCount)
	}
	if body.Estimate.Method != models.MethodDensityCalc {
		t.Errorf("method = %s, want density_calc", body.Estimate.Method)
	}

	if notifier.calls != 1 || notifier.lastEventID != event.ID {
		t.Errorf("notifier calls = %d eventID = %s", notifier.calls, notifier.lastEventID)
	}

	// The cached figure and area update are persisted
	updated, err := st.GetEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if updated.AreaSquareMeters != 1000 || updated.EstimatedAttendees != 1055 {
		t.Errorf("updated event = %+v", updated)
	}
}

func TestManualEstimate(t *testing.T) {
	r, st, notifier := estimatesRouter(t)
	event := seedEvent(t, st, 500, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/estimates/"+event.ID+"/manual",
		strings.NewReader(`{"estimatedCount": 750, "notes": "headcount at gate"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Estimate models.CrowdEstimate `json:"estimate"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Estimate.Method != models.MethodManual || body.Estimate.Confidence != 0.7 {
		t.Errorf("estimate = %+v", body.Estimate)
	}

	updated, _ := st.GetEvent(context.Background(), event.ID)
	if updated.EstimatedAttendees != 750 {
		t.Errorf("cached attendees = %d, want 750", updated.EstimatedAttendees)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
}

func TestManualEstimateRejectsNonPositive(t *testing.T) {
	r, st, _ := estimatesRouter(t)
	event := seedEvent(t, st, 0, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/estimates/"+event.ID+"/manual",
		strings.NewReader(`{"estimatedCount": 0}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRangeEndpoint(t *testing.T) {
	r, _, _ := estimatesRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/estimates/range?area=1000&tier=high", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var rng crowd.Range
	json.Unmarshal(w.Body.Bytes(), &rng)
	if rng.Estimate != 3000 || rng.Low != 500 || rng.High != 5000 {
		t.Errorf("range = %+v", rng)
	}

	// Missing area is a client error
	req = httptest.NewRequest(http.MethodGet, "/api/estimates/range", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status without area = %d, want 400", w.Code)
	}
}
