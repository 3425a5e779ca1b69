// Package data provides thread-safe data storage and management for the
// cases API. It includes the DataContainer struct with atomic operations for
// zero-downtime updates and thread-safe access methods for the processed
// corpus.
package data

import (
	"sync/atomic"
	"time"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/interfaces"
	"github.com/medkg/tcmcases-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the processed corpus with atomic pointers for
// zero-downtime updates
type DataContainer struct {
	cases           atomic.Value // []entities.ProcessedCase
	casesMap        atomic.Value // map[string]entities.ProcessedCase
	eventCount      atomic.Int64
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.cases.Store(make([]entities.ProcessedCase, 0))
	dc.casesMap.Store(make(map[string]entities.ProcessedCase))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetCases returns the list of processed cases
func (dc *DataContainer) GetCases() []entities.ProcessedCase {
	if v := dc.cases.Load(); v != nil {
		if cases, ok := v.([]entities.ProcessedCase); ok {
			return cases
		}
	}

	logging.Warn("Cases list is empty or invalid")
	return []entities.ProcessedCase{}
}

// GetCasesMap returns the case lookup map for O(1) lookups by case id
func (dc *DataContainer) GetCasesMap() map[string]entities.ProcessedCase {
	if v := dc.casesMap.Load(); v != nil {
		if casesMap, ok := v.(map[string]entities.ProcessedCase); ok {
			return casesMap
		}
	}

	logging.Warn("CasesMap is empty or invalid")
	return make(map[string]entities.ProcessedCase)
}

// GetEventCount returns the total number of events in the processed corpus
func (dc *DataContainer) GetEventCount() int {
	return int(dc.eventCount.Load())
}

// GetLastUpdated returns the timestamp of the last corpus run
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a corpus run is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically replaces the processed corpus (zero downtime)
func (dc *DataContainer) UpdateData(cases []entities.ProcessedCase, casesMap map[string]entities.ProcessedCase, eventCount int) {
	dc.cases.Store(cases)
	dc.casesMap.Store(casesMap)
	dc.eventCount.Store(int64(eventCount))
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a corpus run, preventing concurrent runs.
// Returns false if a run is already in progress.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a corpus run
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
