package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asccclass/tripmate/internal/config"
	"github.com/asccclass/tripmate/internal/history"
	"github.com/asccclass/tripmate/internal/search"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

type noopSearcher struct{}

func (noopSearcher) Text(query, region string, maxResults int) ([]search.Result, error) {
	return nil, nil
}
func (noopSearcher) Images(query string, maxResults int) ([]search.ImageResult, error) {
	return nil, nil
}

func newTestMux(t *testing.T, cfg *config.Config, withStore bool) (*http.ServeMux, *history.Store) {
	t.Helper()

	var store *history.Store
	if withStore {
		var err error
		store, err = history.NewStore(filepath.Join(t.TempDir(), "trips.db"))
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}

	mux := http.NewServeMux()
	NewTripHandler(cfg, tools.NewTravelRegistry(noopSearcher{}), store).AddRoutes(mux)
	return mux, store
}

func tripRequestFixture() trip.Request {
	return trip.Request{Origin: "台北", Destination: "大阪", Days: 5, Budget: 30000}
}

func resultFixture() *trip.Result {
	return &trip.Result{
		TripName:       "大阪五日遊",
		Activities:     []trip.Activity{},
		DailyItinerary: []trip.Day{},
	}
}

func TestHandleGenerate_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t, &config.Config{}, false)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trip", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandleGenerate_BadBody(t *testing.T) {
	mux, _ := newTestMux(t, &config.Config{}, false)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trip", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandleGenerate_MissingDestination(t *testing.T) {
	mux, _ := newTestMux(t, &config.Config{}, false)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trip",
		strings.NewReader(`{"origin":"台北","days":3}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if !strings.Contains(body["error"], "destination") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHandleGenerate_ProviderOverrideValidation(t *testing.T) {
	// 請求指定的後端不存在或缺憑證 → 400，設定檔預設不受影響
	mux, _ := newTestMux(t, &config.Config{Provider: "ollama"}, false)

	cases := []struct {
		provider string
	}{
		{"chatgpt-9000"}, // 不支援
		{"groq"},         // 缺 GROQ_API_KEY
		{"gemini"},       // 缺 GOOGLE_API_KEY
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trip",
			strings.NewReader(`{"provider":"`+c.provider+`","destination":"大阪","days":3}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("provider %q: status = %d, want 400", c.provider, rec.Code)
		}
	}
}

func TestHandleList_Empty(t *testing.T) {
	mux, _ := newTestMux(t, &config.Config{}, true)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// 空歷史必須是 []，不能是 null
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q", got)
	}
}

func TestHandleList_StoreDisabled(t *testing.T) {
	mux, _ := newTestMux(t, &config.Config{}, false)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandleList_ReturnsSavedTrips(t *testing.T) {
	mux, store := newTestMux(t, &config.Config{}, true)

	req := tripRequestFixture()
	if _, err := store.Save(httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		"groq", req, resultFixture()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var entries []history.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Destination != "大阪" {
		t.Errorf("entries = %+v", entries)
	}
}
