// Package interfaces defines core abstractions for the cases API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/medkg/tcmcases-api/casesparser/entities"
)

// DataQualityReport provides a summary of data quality issues found in a
// processed corpus.
type DataQualityReport struct {
	DuplicateCaseIDs               []string
	CasesWithoutEvents             int
	EmptyEvents                    int // events with a zero-length text range
	EventsWithoutTreatmentEntities int
	SynthesizedFormulaCount        int
}

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to the processed corpus with atomic
// operations for zero-downtime updates.
type DataStore interface {
	// Data retrieval methods
	GetCases() []entities.ProcessedCase
	GetCasesMap() map[string]entities.ProcessedCase
	GetEventCount() int
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	// Data update methods
	UpdateData(cases []entities.ProcessedCase, casesMap map[string]entities.ProcessedCase, eventCount int)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for running the corpus transformation:
// reading the annotated corpus, restructuring every record into events and
// writing the output corpus.
type Parser interface {
	// ParseAllCases processes the whole input corpus sequentially and
	// returns the processed cases, a lookup map keyed by case id and the
	// total number of events.
	ParseAllCases() ([]entities.ProcessedCase, map[string]entities.ProcessedCase, int, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated corpus reprocessing and staleness checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	ServeAllCases(w http.ResponseWriter, r *http.Request)
	ServePagedCases(w http.ResponseWriter, r *http.Request)
	FindCase(w http.ResponseWriter, r *http.Request)
	FindCaseEvents(w http.ResponseWriter, r *http.Request)
	SearchCases(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reprocessing time
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for validation operations, covering
// both user input and processed-corpus integrity.
type DataValidator interface {
	// ValidateRecord checks an input record's structure
	ValidateRecord(rec *entities.Record) error

	// ValidateProcessedCase checks the invariants of one processed case:
	// event ranges partition the text, treatment relations carry no
	// attribute-only types, synthesized identifiers are unique
	ValidateProcessedCase(c *entities.ProcessedCase) error

	// ReportDataQuality generates a data quality report for the corpus
	ReportDataQuality(cases []entities.ProcessedCase) *DataQualityReport

	// ValidateInput validates user input strings
	ValidateInput(input string) error

	// ValidateCaseID validates case identifiers from URL parameters
	ValidateCaseID(input string) (string, error)
}
