package entities

import "encoding/json"

// Relation is a typed directed link between two entities.
type Relation struct {
	ID     ID     `json:"id"`
	FromID ID     `json:"from_id"`
	ToID   ID     `json:"to_id"`
	Type   string `json:"type"`
}

// Record is one medical-case record as exported by the annotation tool:
// the case text plus flat lists of span entities and relations.
type Record struct {
	ID        ID              `json:"id"`
	Text      string          `json:"text"`
	Entities  []*Entity       `json:"entities"`
	Relations []*Relation     `json:"relations"`
	Comments  json.RawMessage `json:"Comments,omitempty"` // passed through unused
}

// EntityByID builds the record-wide entity lookup used by the merge and
// resolution passes. Later entries win on duplicate identifiers.
func (r *Record) EntityByID() map[ID]*Entity {
	m := make(map[ID]*Entity, len(r.Entities))
	for _, e := range r.Entities {
		m[e.ID] = e
	}
	return m
}

// MaxIntIDs returns the largest integer entity and relation identifiers in
// the record. String identifiers are ignored.
func (r *Record) MaxIntIDs() (maxEntity, maxRelation int64) {
	for _, e := range r.Entities {
		if e.ID.IsInt() && e.ID.Int() > maxEntity {
			maxEntity = e.ID.Int()
		}
	}
	for _, rel := range r.Relations {
		if rel.ID.IsInt() && rel.ID.Int() > maxRelation {
			maxRelation = rel.ID.Int()
		}
	}
	return maxEntity, maxRelation
}
