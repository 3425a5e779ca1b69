// Package casesparser restructures flat, span-annotated medical-case
// records into nested per-event output. Each record goes through five
// ordered passes: drug attribute merging, patient attribute merging with
// cross-record inheritance, event segmentation by trigger-word offsets,
// per-event entity/relation resolution (formula attributes, unknown-formula
// synthesis, attribute-relation filtering, argument classification) and
// serialization. Records are strictly sequential: the resolved patient and
// the identifier counters of record N feed record N+1.
package casesparser

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/logging"
	"github.com/medkg/tcmcases-api/metrics"
)

// Counters threads identifier allocation across a corpus run. Fresh relation
// identifiers for synthesized composition relations are allocated from
// Relation, which is monotonic for the whole run and never reset per record.
// A zero-value Counters is unseeded: the first record processed with it
// seeds both counters from its own maximum integer identifiers.
type Counters struct {
	Entity   int64
	Relation int64
	seeded   bool
}

// NewCounters returns explicitly seeded counters.
func NewCounters(entity, relation int64) Counters {
	return Counters{Entity: entity, Relation: relation, seeded: true}
}

// Seeded reports whether the counters have been seeded.
func (c Counters) Seeded() bool {
	return c.seeded
}

// ProcessRecord transforms one annotated record line into its nested
// per-event form. inherited is the patient entity carried over from earlier
// records (nil on the first call). It returns the processed case, the
// patient to carry into the next record (the record's own patient when it
// has one, otherwise the inherited one) and the updated counters.
func ProcessRecord(line []byte, inherited *entities.Entity, counters Counters) (*entities.ProcessedCase, *entities.Entity, Counters, error) {
	rec, err := decodeRecord(line)
	if err != nil {
		return nil, inherited, counters, err
	}

	if !counters.seeded {
		maxEnt, maxRel := rec.MaxIntIDs()
		counters = NewCounters(maxEnt, maxRel)
	}

	byID := rec.EntityByID()
	mergeDrugAttributes(rec, byID)
	patient := mergePatientAttributes(rec, inherited)

	// Annotation offsets count characters, so all span arithmetic runs over
	// runes rather than bytes.
	runes := []rune(rec.Text)
	bounds := segmentEvents(rec.Entities, len(runes))

	events := make([]*entities.Event, 0, len(bounds))
	for i, b := range bounds {
		events = append(events, resolveEvent(rec, byID, patient, b, i+1, &counters, runes))
	}

	processed := &entities.ProcessedCase{
		ID:     rec.ID,
		Text:   rec.Text,
		Events: events,
	}
	return processed, patient, counters, nil
}

// ParseAllCases runs the whole corpus: it reads corpusPath line by line,
// processes each record sequentially while threading the patient and the
// identifier counters, and appends each processed record to outputPath as
// it is produced. The run stops at the first malformed record; lines
// already written stay on disk. It returns the processed cases, a lookup
// map keyed by case identifier and the total event count.
func ParseAllCases(corpusPath, outputPath string) ([]entities.ProcessedCase, map[string]entities.ProcessedCase, int, error) {
	start := time.Now()

	in, err := os.Open(corpusPath)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			logging.Warn("Failed to close corpus file", "error", err)
		}
	}()

	writer, err := NewCorpusWriter(outputPath)
	if err != nil {
		return nil, nil, 0, err
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logging.Warn("Failed to close output corpus", "error", err)
		}
	}()

	scanner := bufio.NewScanner(in)
	// Case texts run long; the default scanner limit is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		cases      []entities.ProcessedCase
		carried    *entities.Entity
		counters   Counters
		eventCount int
		lineNo     int
		skipped    int
	)
	casesMap := make(map[string]entities.ProcessedCase)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			skipped++
			continue
		}

		processed, patient, next, err := ProcessRecord([]byte(line), carried, counters)
		if err != nil {
			metrics.RecordsFailed.Inc()
			return nil, nil, 0, fmt.Errorf("record at line %d: %w", lineNo, err)
		}
		counters = next
		if patient != nil {
			carried = patient
		}

		if err := writer.Append(processed); err != nil {
			return nil, nil, 0, fmt.Errorf("failed to write record at line %d: %w", lineNo, err)
		}

		cases = append(cases, *processed)
		casesMap[processed.ID.String()] = *processed
		eventCount += len(processed.Events)

		metrics.RecordsProcessed.Inc()
		metrics.EventsBuilt.Add(float64(len(processed.Events)))
		metrics.FormulasSynthesized.Add(float64(countSynthesizedFormulas(processed)))
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read corpus: %w", err)
	}

	logging.Info("Corpus processing completed",
		"cases", len(cases),
		"events", eventCount,
		"empty_lines", skipped,
		"duration", time.Since(start).String())

	return cases, casesMap, eventCount, nil
}

func countSynthesizedFormulas(c *entities.ProcessedCase) int {
	n := 0
	for _, ev := range c.Events {
		for _, e := range ev.Treatment.Entities {
			if e.Synthetic {
				n++
			}
		}
	}
	return n
}
