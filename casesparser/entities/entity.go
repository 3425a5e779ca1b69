package entities

import "encoding/json"

// Entity is a labeled text span from the annotation, or a formula entity
// synthesized during event resolution. Offsets are character (rune) offsets
// into the record text, not byte offsets. Attributes is populated by the
// merge passes; it maps an attribute key (用量, 制法, 用法, ...) to the
// entity that carries the attribute value.
type Entity struct {
	ID          ID
	Label       string
	StartOffset int
	EndOffset   int
	Text        string
	Synthetic   bool
	Attributes  map[string]*Entity
}

// SetAttribute attaches an attribute entity under the given key, allocating
// the attribute map on first use.
func (e *Entity) SetAttribute(key string, value *Entity) {
	if e.Attributes == nil {
		e.Attributes = make(map[string]*Entity)
	}
	e.Attributes[key] = value
}

// Contains reports whether other lies fully within this entity's span.
// Both bounds are inclusive, matching the nested-span rule used for
// unknown-formula resolution.
func (e *Entity) Contains(other *Entity) bool {
	return other.StartOffset >= e.StartOffset && other.EndOffset <= e.EndOffset
}

// spanEntityJSON is the wire shape of an annotated span.
type spanEntityJSON struct {
	ID          ID                 `json:"id"`
	Label       string             `json:"label"`
	StartOffset int                `json:"start_offset"`
	EndOffset   int                `json:"end_offset"`
	Text        string             `json:"text,omitempty"`
	Attributes  map[string]*Entity `json:"属性,omitempty"`
}

// syntheticEntityJSON is the wire shape of a synthesized formula entity:
// no span, always an attribute object (possibly empty).
type syntheticEntityJSON struct {
	ID         ID                 `json:"id"`
	Label      string             `json:"label"`
	Text       string             `json:"text"`
	Attributes map[string]*Entity `json:"属性"`
}

// MarshalJSON writes span entities and synthesized entities in their
// respective wire shapes.
func (e *Entity) MarshalJSON() ([]byte, error) {
	if e.Synthetic {
		attrs := e.Attributes
		if attrs == nil {
			attrs = map[string]*Entity{}
		}
		return json.Marshal(syntheticEntityJSON{
			ID:         e.ID,
			Label:      e.Label,
			Text:       e.Text,
			Attributes: attrs,
		})
	}
	return json.Marshal(spanEntityJSON{
		ID:          e.ID,
		Label:       e.Label,
		StartOffset: e.StartOffset,
		EndOffset:   e.EndOffset,
		Text:        e.Text,
		Attributes:  e.Attributes,
	})
}

// UnmarshalJSON reads an annotated span. Missing offsets default to zero;
// the tolerant-lookup policy handles the rest downstream.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var aux spanEntityJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ID = aux.ID
	e.Label = aux.Label
	e.StartOffset = aux.StartOffset
	e.EndOffset = aux.EndOffset
	e.Text = aux.Text
	e.Synthetic = false
	e.Attributes = aux.Attributes
	return nil
}
