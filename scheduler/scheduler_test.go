package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/interfaces"
	"github.com/medkg/tcmcases-api/logging"
)

// mockDataStore for testing the scheduler
type mockDataStore struct {
	cases       []entities.ProcessedCase
	casesMap    map[string]entities.ProcessedCase
	eventCount  int
	lastUpdated time.Time
	updating    bool
	updateCount int
}

func (m *mockDataStore) GetCases() []entities.ProcessedCase             { return m.cases }
func (m *mockDataStore) GetCasesMap() map[string]entities.ProcessedCase { return m.casesMap }
func (m *mockDataStore) GetEventCount() int                             { return m.eventCount }
func (m *mockDataStore) GetLastUpdated() time.Time                      { return m.lastUpdated }
func (m *mockDataStore) IsUpdating() bool                               { return m.updating }
func (m *mockDataStore) GetServerStartTime() time.Time                  { return time.Time{} }
func (m *mockDataStore) SetServerStartTime(time.Time)                   {}

func (m *mockDataStore) UpdateData(cases []entities.ProcessedCase, casesMap map[string]entities.ProcessedCase, eventCount int) {
	m.cases = cases
	m.casesMap = casesMap
	m.eventCount = eventCount
	m.lastUpdated = time.Now()
	m.updateCount++
}

func (m *mockDataStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *mockDataStore) EndUpdate() { m.updating = false }

// mockParser for testing the scheduler
type mockParser struct {
	parseCount int
	shouldFail bool
}

func (m *mockParser) ParseAllCases() ([]entities.ProcessedCase, map[string]entities.ProcessedCase, int, error) {
	m.parseCount++
	if m.shouldFail {
		return nil, nil, 0, fmt.Errorf("corpus run failed")
	}

	cases := []entities.ProcessedCase{
		{ID: entities.IntID(1), Text: "患者发热。", Events: []*entities.Event{{EventID: "Event_1", Order: 1}}},
		{ID: entities.IntID(2), Text: "复诊。", Events: []*entities.Event{{EventID: "Event_1", Order: 1}}},
	}
	casesMap := map[string]entities.ProcessedCase{
		"1": cases[0],
		"2": cases[1],
	}
	return cases, casesMap, 2, nil
}

// mockValidator for testing the scheduler
type mockValidator struct {
	reportCount int
}

func (m *mockValidator) ValidateRecord(*entities.Record) error               { return nil }
func (m *mockValidator) ValidateProcessedCase(*entities.ProcessedCase) error { return nil }
func (m *mockValidator) ValidateInput(string) error                          { return nil }
func (m *mockValidator) ValidateCaseID(input string) (string, error)         { return input, nil }

func (m *mockValidator) ReportDataQuality([]entities.ProcessedCase) *interfaces.DataQualityReport {
	m.reportCount++
	return &interfaces.DataQualityReport{}
}

func TestUpdateData_Success(t *testing.T) {
	logging.InitLogger("")

	store := &mockDataStore{}
	parser := &mockParser{}
	validator := &mockValidator{}

	s := NewScheduler(store, parser, validator)

	if err := s.updateData(); err != nil {
		t.Fatalf("updateData failed: %v", err)
	}

	if parser.parseCount != 1 {
		t.Errorf("Expected 1 corpus run, got %d", parser.parseCount)
	}
	if store.updateCount != 1 {
		t.Errorf("Expected 1 data update, got %d", store.updateCount)
	}
	if validator.reportCount != 1 {
		t.Errorf("Expected 1 data quality report, got %d", validator.reportCount)
	}
	if len(store.cases) != 2 || store.eventCount != 2 {
		t.Errorf("Expected 2 cases and 2 events stored, got %d and %d",
			len(store.cases), store.eventCount)
	}
	if store.updating {
		t.Error("Updating flag should be cleared after the run")
	}
}

func TestUpdateData_ParserFailure(t *testing.T) {
	logging.InitLogger("")

	store := &mockDataStore{}
	parser := &mockParser{shouldFail: true}

	s := NewScheduler(store, parser, &mockValidator{})

	if err := s.updateData(); err == nil {
		t.Fatal("Expected an error from a failing corpus run")
	}
	if store.updateCount != 0 {
		t.Error("A failed run must not replace the current data")
	}
	if store.updating {
		t.Error("Updating flag should be cleared after a failed run")
	}
}

func TestUpdateData_SkipsConcurrentRun(t *testing.T) {
	logging.InitLogger("")

	store := &mockDataStore{updating: true}
	parser := &mockParser{}

	s := NewScheduler(store, parser, &mockValidator{})

	if err := s.updateData(); err != nil {
		t.Fatalf("A skipped run should not error: %v", err)
	}
	if parser.parseCount != 0 {
		t.Error("A run in progress should prevent a second parse")
	}
}

func TestSchedulerStartAndStop(t *testing.T) {
	logging.InitLogger("")

	store := &mockDataStore{}
	parser := &mockParser{}

	s := NewScheduler(store, parser, &mockValidator{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if store.updateCount != 1 {
		t.Errorf("Start should perform the initial corpus run, got %d updates", store.updateCount)
	}
}
