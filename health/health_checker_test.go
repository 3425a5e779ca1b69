package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/interfaces"
)

// stubDataStore lets tests control the corpus state and its age directly.
type stubDataStore struct {
	cases       []entities.ProcessedCase
	eventCount  int
	lastUpdated time.Time
	updating    bool
}

func (s *stubDataStore) GetCases() []entities.ProcessedCase { return s.cases }
func (s *stubDataStore) GetCasesMap() map[string]entities.ProcessedCase {
	return map[string]entities.ProcessedCase{}
}
func (s *stubDataStore) GetEventCount() int            { return s.eventCount }
func (s *stubDataStore) GetLastUpdated() time.Time     { return s.lastUpdated }
func (s *stubDataStore) IsUpdating() bool              { return s.updating }
func (s *stubDataStore) GetServerStartTime() time.Time { return time.Time{} }
func (s *stubDataStore) SetServerStartTime(time.Time)  {}
func (s *stubDataStore) UpdateData([]entities.ProcessedCase, map[string]entities.ProcessedCase, int) {
}
func (s *stubDataStore) BeginUpdate() bool { return true }
func (s *stubDataStore) EndUpdate()        {}

var _ interfaces.DataStore = (*stubDataStore)(nil)

func someCases() []entities.ProcessedCase {
	return []entities.ProcessedCase{{ID: entities.IntID(1), Text: "患者发热。"}}
}

func TestHealthCheck(t *testing.T) {
	testCases := []struct {
		name       string
		store      *stubDataStore
		wantStatus string
		wantHTTP   int
	}{
		{
			name:       "no data is unhealthy",
			store:      &stubDataStore{lastUpdated: time.Now()},
			wantStatus: "unhealthy",
			wantHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:       "fresh data is healthy",
			store:      &stubDataStore{cases: someCases(), eventCount: 2, lastUpdated: time.Now()},
			wantStatus: "healthy",
			wantHTTP:   http.StatusOK,
		},
		{
			name:       "data older than 24h is degraded",
			store:      &stubDataStore{cases: someCases(), lastUpdated: time.Now().Add(-25 * time.Hour)},
			wantStatus: "degraded",
			wantHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:       "data older than 48h is unhealthy",
			store:      &stubDataStore{cases: someCases(), lastUpdated: time.Now().Add(-49 * time.Hour)},
			wantStatus: "unhealthy",
			wantHTTP:   http.StatusServiceUnavailable,
		},
		{
			name: "long-running update is degraded",
			store: &stubDataStore{
				cases:       someCases(),
				lastUpdated: time.Now().Add(-7 * time.Hour),
				updating:    true,
			},
			wantStatus: "degraded",
			wantHTTP:   http.StatusServiceUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewHealthChecker(tc.store)

			status, details, httpStatus := checker.HealthCheck()
			if status != tc.wantStatus {
				t.Errorf("Expected status %s, got %s", tc.wantStatus, status)
			}
			if httpStatus != tc.wantHTTP {
				t.Errorf("Expected HTTP %d, got %d", tc.wantHTTP, httpStatus)
			}

			for _, key := range []string{"last_update", "data_age_hours", "cases", "events", "is_updating"} {
				if _, ok := details[key]; !ok {
					t.Errorf("Expected %s in health details", key)
				}
			}
		})
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	checker := NewHealthChecker(&stubDataStore{})

	next := checker.CalculateNextUpdate()
	if !next.After(time.Now()) {
		t.Error("Next update should be in the future")
	}
	if next.Hour() != 6 && next.Hour() != 18 {
		t.Errorf("Next update should be at 06:00 or 18:00, got hour %d", next.Hour())
	}
	if next.Sub(time.Now()) > 24*time.Hour {
		t.Error("Next update should be within 24 hours")
	}
}
