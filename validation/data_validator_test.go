package validation

import (
	"slices"
	"strings"
	"testing"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/logging"
)

func TestNewDataValidator(t *testing.T) {
	validator := NewDataValidator()

	if validator == nil {
		t.Fatal("NewDataValidator returned nil")
	}

	if _, ok := validator.(*DataValidatorImpl); !ok {
		t.Error("NewDataValidator should return *DataValidatorImpl")
	}
}

func TestValidateRecord(t *testing.T) {
	validator := NewDataValidator()

	valid := &entities.Record{
		ID:   entities.IntID(1),
		Text: "患者发热。",
		Entities: []*entities.Entity{
			{ID: entities.IntID(1), Label: entities.LabelPatient, StartOffset: 0, EndOffset: 2},
		},
	}
	if err := validator.ValidateRecord(valid); err != nil {
		t.Errorf("Expected no error for valid record, got: %v", err)
	}

	if err := validator.ValidateRecord(nil); err == nil {
		t.Error("Expected error for nil record")
	}

	if err := validator.ValidateRecord(&entities.Record{}); err == nil {
		t.Error("Expected error for empty record")
	}

	negative := &entities.Record{
		ID: entities.IntID(1),
		Entities: []*entities.Entity{
			{ID: entities.IntID(1), StartOffset: -1, EndOffset: 2},
		},
	}
	if err := validator.ValidateRecord(negative); err == nil {
		t.Error("Expected error for negative offsets")
	}

	inverted := &entities.Record{
		ID: entities.IntID(1),
		Entities: []*entities.Entity{
			{ID: entities.IntID(1), StartOffset: 5, EndOffset: 2},
		},
	}
	if err := validator.ValidateRecord(inverted); err == nil {
		t.Error("Expected error for inverted span")
	}
}

func validCase() *entities.ProcessedCase {
	return &entities.ProcessedCase{
		ID:   entities.IntID(1),
		Text: "患者发热，予银翘散。",
		Events: []*entities.Event{
			{
				EventID:     "Event_1",
				Order:       1,
				TextRange:   [2]int{0, 5},
				Diagnostic:  entities.NewArgumentGroup(),
				Treatment:   entities.NewArgumentGroup(),
				Theoretical: entities.NewArgumentGroup(),
			},
			{
				EventID:     "Event_2",
				Order:       2,
				TextRange:   [2]int{5, 10},
				Diagnostic:  entities.NewArgumentGroup(),
				Treatment:   entities.NewArgumentGroup(),
				Theoretical: entities.NewArgumentGroup(),
			},
		},
	}
}

func TestValidateProcessedCase_Valid(t *testing.T) {
	validator := NewDataValidator()

	if err := validator.ValidateProcessedCase(validCase()); err != nil {
		t.Errorf("Expected no error for valid case, got: %v", err)
	}
}

func TestValidateProcessedCase_Invalid(t *testing.T) {
	validator := NewDataValidator()

	if err := validator.ValidateProcessedCase(nil); err == nil {
		t.Error("Expected error for nil case")
	}

	noEvents := validCase()
	noEvents.Events = nil
	if err := validator.ValidateProcessedCase(noEvents); err == nil {
		t.Error("Expected error for case without events")
	}

	wrongOrder := validCase()
	wrongOrder.Events[1].Order = 3
	if err := validator.ValidateProcessedCase(wrongOrder); err == nil {
		t.Error("Expected error for non-sequential event orders")
	}

	gap := validCase()
	gap.Events[1].TextRange = [2]int{6, 10}
	if err := validator.ValidateProcessedCase(gap); err == nil {
		t.Error("Expected error for a gap between event ranges")
	}

	short := validCase()
	short.Events[1].TextRange = [2]int{5, 8}
	if err := validator.ValidateProcessedCase(short); err == nil {
		t.Error("Expected error when events do not cover the whole text")
	}

	attrRel := validCase()
	attrRel.Events[0].Treatment.Relations = append(attrRel.Events[0].Treatment.Relations,
		&entities.Relation{ID: entities.IntID(1), Type: entities.RelDosage})
	if err := validator.ValidateProcessedCase(attrRel); err == nil {
		t.Error("Expected error for attribute-only relation in treatment group")
	}

	dup := validCase()
	for _, ev := range dup.Events {
		ev.Treatment.Entities = append(ev.Treatment.Entities, &entities.Entity{
			ID:        entities.StringID("1-1-1"),
			Label:     entities.LabelFormula,
			Synthetic: true,
		})
	}
	if err := validator.ValidateProcessedCase(dup); err == nil {
		t.Error("Expected error for duplicate synthesized formula ids")
	}
}

func TestReportDataQuality(t *testing.T) {
	logging.InitLogger("")
	validator := NewDataValidator()

	cases := []entities.ProcessedCase{
		*validCase(),
		*validCase(), // duplicate id 1
		{ID: entities.IntID(2), Text: "短文。"},
	}
	cases[0].Events[0].Treatment.Entities = []*entities.Entity{
		{ID: entities.StringID("1-1-1"), Synthetic: true},
	}

	report := validator.ReportDataQuality(cases)

	if !slices.Contains(report.DuplicateCaseIDs, "1") {
		t.Errorf("Expected duplicate id 1 reported, got %v", report.DuplicateCaseIDs)
	}
	if report.CasesWithoutEvents != 1 {
		t.Errorf("Expected 1 case without events, got %d", report.CasesWithoutEvents)
	}
	if report.SynthesizedFormulaCount != 1 {
		t.Errorf("Expected 1 synthesized formula, got %d", report.SynthesizedFormulaCount)
	}
	if report.EventsWithoutTreatmentEntities == 0 {
		t.Error("Expected events without treatment entities to be counted")
	}
}

func TestValidateInput(t *testing.T) {
	validator := NewDataValidator()

	validInputs := []string{
		"发热",
		"银翘散",
		"abc123",
		"患者 发热",
		"头痛，发热。",
	}
	for _, input := range validInputs {
		if err := validator.ValidateInput(input); err != nil {
			t.Errorf("Expected input %q to be valid, got: %v", input, err)
		}
	}

	invalidInputs := []string{
		"",
		"   ",
		strings.Repeat("a", 101),
		"<script>alert(1)</script>",
		"term'; drop table cases",
		"../../etc/passwd",
		"term$(rm -rf)",
	}
	for _, input := range invalidInputs {
		if err := validator.ValidateInput(input); err == nil {
			t.Errorf("Expected input %q to be rejected", input)
		}
	}
}

func TestValidateCaseID(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"12", "12", false},
		{"12-2-1", "12-2-1", false},
		{" 12 ", "12", false},
		{"", "", true},
		{"-12", "", true},
		{"12/2", "", true},
		{strings.Repeat("1", 65), "", true},
	}

	for _, tc := range testCases {
		got, err := validator.ValidateCaseID(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Expected error for case id %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Expected case id %q to be valid, got: %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("Expected canonical id %q, got %q", tc.want, got)
		}
	}
}
