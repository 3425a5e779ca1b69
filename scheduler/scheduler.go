// Package scheduler provides automated corpus reprocessing and health
// monitoring for the cases API. It handles cron-based corpus runs,
// staleness checks, and coordinates data refresh with the data container
// using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medkg/tcmcases-api/interfaces"
	"github.com/medkg/tcmcases-api/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles corpus reprocessing and health monitoring using
// dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser,
	validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start initializes the scheduler with corpus runs and health monitoring
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial corpus run", "error", err)
		return fmt.Errorf("initial corpus run failed: %w", err)
	}

	// Schedule runs at 06:00 and 18:00 daily, picking up corpus edits
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to reprocess corpus", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule corpus runs", "error", err)
		return fmt.Errorf("failed to schedule corpus runs: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// updateData performs a complete corpus run using injected dependencies
func (s *Scheduler) updateData() error {
	// Prevent concurrent runs
	if !s.dataStore.BeginUpdate() {
		logging.Info("Corpus run already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting corpus run at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	newCases, newCasesMap, eventCount, err := s.parser.ParseAllCases()
	if err != nil {
		logging.Error("Failed to process corpus", "error", err)
		return fmt.Errorf("failed to process corpus: %w", err)
	}

	report := s.validator.ReportDataQuality(newCases)
	if report.CasesWithoutEvents > 0 || len(report.DuplicateCaseIDs) > 0 {
		logging.Warn("Data quality issues in corpus run",
			"cases_without_events", report.CasesWithoutEvents,
			"duplicate_case_ids", len(report.DuplicateCaseIDs))
	}

	// Atomic update using injected data store
	s.dataStore.UpdateData(newCases, newCasesMap, eventCount)

	elapsed := time.Since(start)
	logging.Info("Corpus run completed",
		"duration", elapsed.String(),
		"case_count", len(newCases),
		"event_count", eventCount,
		"synthesized_formulas", report.SynthesizedFormulaCount)

	return nil
}

// startHealthMonitoring monitors the freshness of the processed corpus
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Corpus hasn't been reprocessed in over 25 hours")
			}
		}
	}()
}
