package entities

// ArgumentGroup holds the entities and relations classified into one
// argument role of a diagnostic-treatment event. Both slices serialize as
// JSON arrays, never null.
type ArgumentGroup struct {
	Entities  []*Entity   `json:"entities"`
	Relations []*Relation `json:"relations"`
}

// NewArgumentGroup returns an argument group with empty, non-nil lists.
func NewArgumentGroup() ArgumentGroup {
	return ArgumentGroup{
		Entities:  []*Entity{},
		Relations: []*Relation{},
	}
}

// Event is one diagnostic-treatment event of a case: a half-open slice of
// the case text delimited by trigger-word offsets, with its entities and
// relations classified into three argument roles.
type Event struct {
	EventID     string        `json:"event_id"`
	Order       int           `json:"order"`
	TextRange   [2]int        `json:"text_range"`
	SourceText  string        `json:"原文"`
	Diagnostic  ArgumentGroup `json:"辨证论元"`
	Treatment   ArgumentGroup `json:"论治论元"`
	Theoretical ArgumentGroup `json:"理论依据论元"`
}

// ProcessedCase is the nested per-event output for one record.
type ProcessedCase struct {
	ID     ID       `json:"id"`
	Text   string   `json:"text"`
	Events []*Event `json:"事件"`
}

// EventCount is a convenience for stats and health reporting.
func (c *ProcessedCase) EventCount() int {
	return len(c.Events)
}
