// Package validation provides data validation functionality for the cases
// API: user input sanitation, input record checks and integrity checks over
// the processed corpus.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/interfaces"
	"github.com/medkg/tcmcases-api/logging"
)

// Pre-compiled regex patterns, compiled once at package initialization.
var (
	// Input validation: Han characters, alphanumerics and safe punctuation.
	// Covers both case-id lookups ("12", "12-2-1") and text search terms.
	inputRegex = regexp.MustCompile(`^[\p{Han}a-zA-Z0-9\s\-_\.，。、；：]+$`)

	// Case identifiers are either the integer from the annotation export or
	// a composed string like "12-2-1".
	caseIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-_]*$`)

	// Dangerous substrings; strings.Contains is much faster than regex here.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateRecord checks the structure of one input record. Tolerated quirks
// (dangling relation references, unknown labels) are not errors here; this
// guards against records the transform cannot process at all.
func (v *DataValidatorImpl) ValidateRecord(rec *entities.Record) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}

	if rec.ID.IsZero() && rec.Text == "" && len(rec.Entities) == 0 {
		return fmt.Errorf("record is empty")
	}

	for _, e := range rec.Entities {
		if e.StartOffset < 0 || e.EndOffset < 0 {
			return fmt.Errorf("entity %s has negative offsets [%d, %d]",
				e.ID.String(), e.StartOffset, e.EndOffset)
		}
		if e.EndOffset < e.StartOffset {
			return fmt.Errorf("entity %s has inverted span [%d, %d]",
				e.ID.String(), e.StartOffset, e.EndOffset)
		}
	}

	return nil
}

// ValidateProcessedCase checks the invariants every processed case must
// satisfy: event ranges partition [0, len(text)) in order and without gaps,
// treatment relations carry no attribute-only types, and synthesized formula
// identifiers are unique within the case.
func (v *DataValidatorImpl) ValidateProcessedCase(c *entities.ProcessedCase) error {
	if c == nil {
		return fmt.Errorf("processed case is nil")
	}

	textLen := len([]rune(c.Text))
	if len(c.Events) == 0 {
		return fmt.Errorf("case %s has no events", c.ID.String())
	}

	expectedStart := 0
	for i, ev := range c.Events {
		if ev.Order != i+1 {
			return fmt.Errorf("case %s: event %d has order %d", c.ID.String(), i+1, ev.Order)
		}
		if ev.TextRange[0] != expectedStart {
			return fmt.Errorf("case %s: event %d starts at %d, want %d",
				c.ID.String(), ev.Order, ev.TextRange[0], expectedStart)
		}
		if ev.TextRange[1] < ev.TextRange[0] {
			return fmt.Errorf("case %s: event %d has inverted range %v",
				c.ID.String(), ev.Order, ev.TextRange)
		}
		expectedStart = ev.TextRange[1]

		for _, rel := range ev.Treatment.Relations {
			if entities.AttributeRelationTypes[rel.Type] {
				return fmt.Errorf("case %s: event %d keeps attribute-only relation %s of type %s",
					c.ID.String(), ev.Order, rel.ID.String(), rel.Type)
			}
		}
	}
	if expectedStart != textLen {
		return fmt.Errorf("case %s: events cover [0, %d), text has %d characters",
			c.ID.String(), expectedStart, textLen)
	}

	seen := make(map[string]bool)
	for _, ev := range c.Events {
		for _, e := range ev.Treatment.Entities {
			if !e.Synthetic {
				continue
			}
			id := e.ID.String()
			if seen[id] {
				return fmt.Errorf("case %s: duplicate synthesized formula id %s", c.ID.String(), id)
			}
			seen[id] = true
		}
	}

	return nil
}

// ReportDataQuality generates a data quality report for the processed corpus
func (v *DataValidatorImpl) ReportDataQuality(cases []entities.ProcessedCase) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}

	idCount := make(map[string]int)
	for i := range cases {
		c := &cases[i]
		idCount[c.ID.String()]++

		if len(c.Events) == 0 {
			report.CasesWithoutEvents++
		}
		for _, ev := range c.Events {
			if ev.TextRange[0] == ev.TextRange[1] {
				report.EmptyEvents++
			}
			if len(ev.Treatment.Entities) == 0 {
				report.EventsWithoutTreatmentEntities++
			}
			for _, e := range ev.Treatment.Entities {
				if e.Synthetic {
					report.SynthesizedFormulaCount++
				}
			}
		}
	}

	for id, count := range idCount {
		if count > 1 {
			report.DuplicateCaseIDs = append(report.DuplicateCaseIDs, id)
		}
	}

	if len(report.DuplicateCaseIDs) > 0 {
		logging.Error("Duplicate case ids detected",
			"count", len(report.DuplicateCaseIDs),
			"duplicates", report.DuplicateCaseIDs,
		)
	}
	if report.CasesWithoutEvents > 0 {
		logging.Warn("Cases without events detected", "count", report.CasesWithoutEvents)
	}

	return report
}

// ValidateInput validates user input strings from URL parameters
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 100 {
		return fmt.Errorf("input too long: %d characters (max 100)", len(input))
	}

	if containsDangerousPattern(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ValidateCaseID validates a case identifier from a URL parameter and
// returns its canonical form.
func (v *DataValidatorImpl) ValidateCaseID(input string) (string, error) {
	id := strings.TrimSpace(input)
	if id == "" {
		return "", fmt.Errorf("case id cannot be empty")
	}

	if len(id) > 64 {
		return "", fmt.Errorf("case id too long: %d characters (max 64)", len(id))
	}

	if !caseIDRegex.MatchString(id) {
		return "", fmt.Errorf("invalid case id: %s", id)
	}

	return id, nil
}

// containsDangerousPattern checks input against known injection patterns
func containsDangerousPattern(input string) bool {
	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
