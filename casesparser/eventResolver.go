package casesparser

import (
	"fmt"

	"github.com/medkg/tcmcases-api/casesparser/entities"
)

// resolveEvent builds one diagnostic-treatment event for the span b:
// selects the entities and relations inside it, attaches formula usage and
// dosage-form attributes, replaces unknown-formula spans with synthesized
// formula entities plus composition relations, filters out attribute-only
// relations and classifies what remains into the three argument groups.
//
// Multiple unknown-formula spans in one event are resolved independently in
// event-entity order, including the case where one unknown formula nests
// inside another. That is a known, order-dependent edge case of the
// annotation scheme, kept as-is.
func resolveEvent(rec *entities.Record, byID map[entities.ID]*entities.Entity,
	patient *entities.Entity, b eventSpan, order int, counters *Counters, runes []rune) *entities.Event {

	// An entity belongs to the event iff both offsets fall inside the span.
	var evEntities []*entities.Entity
	for _, e := range rec.Entities {
		if e.StartOffset >= b.Start && e.EndOffset <= b.End {
			evEntities = append(evEntities, e)
		}
	}

	// A relation belongs to the event iff both endpoints resolve to entities
	// inside the span. Dangling references never select.
	var evRelations []*entities.Relation
	for _, rel := range rec.Relations {
		from := byID[rel.FromID]
		to := byID[rel.ToID]
		if from == nil || to == nil {
			continue
		}
		if from.StartOffset >= b.Start && from.EndOffset <= b.End &&
			to.StartOffset >= b.Start && to.EndOffset <= b.End {
			evRelations = append(evRelations, rel)
		}
	}

	attachFormulaAttributes(rec, byID, evEntities)
	evEntities, evRelations = synthesizeFormulas(rec.ID, byID, evEntities, evRelations, order, counters)

	// Attribute-only relations served their purpose during merging and must
	// not reach the treatment argument group.
	filtered := []*entities.Relation{}
	for _, rel := range evRelations {
		if !entities.AttributeRelationTypes[rel.Type] {
			filtered = append(filtered, rel)
		}
	}

	ev := &entities.Event{
		EventID:     fmt.Sprintf("Event_%d", order),
		Order:       order,
		TextRange:   [2]int{b.Start, b.End},
		SourceText:  sliceText(runes, b),
		Diagnostic:  entities.NewArgumentGroup(),
		Treatment:   entities.NewArgumentGroup(),
		Theoretical: entities.NewArgumentGroup(),
	}

	hasPatient := false
	for _, e := range evEntities {
		switch e.Label {
		case entities.LabelPatient:
			hasPatient = true
			ev.Diagnostic.Entities = append(ev.Diagnostic.Entities, e)
		case entities.LabelSymptom, entities.LabelPathogenesis:
			ev.Diagnostic.Entities = append(ev.Diagnostic.Entities, e)
		case entities.LabelTreatmentPrinciple, entities.LabelFormula,
			entities.LabelHerb, entities.LabelExcipient:
			ev.Treatment.Entities = append(ev.Treatment.Entities, e)
		case entities.LabelCitation:
			ev.Theoretical.Entities = append(ev.Theoretical.Entities, e)
		}
	}
	if !hasPatient && patient != nil {
		ev.Diagnostic.Entities = append(ev.Diagnostic.Entities, patient)
	}
	// All surviving relations are treatment-scoped; the diagnostic and
	// theoretical groups carry none in the current annotation scheme.
	ev.Treatment.Relations = filtered

	return ev
}

// attachFormulaAttributes supplements already-labeled formula entities in
// the event with their usage and dosage-form attributes. The scan covers the
// whole record's relations, not just the event-local ones.
func attachFormulaAttributes(rec *entities.Record, byID map[entities.ID]*entities.Entity, evEntities []*entities.Entity) {
	for _, fj := range evEntities {
		if fj.Label != entities.LabelFormula {
			continue
		}
		for _, rel := range rec.Relations {
			if rel.FromID != fj.ID {
				continue
			}
			var key string
			switch rel.Type {
			case entities.RelFormulaUsage:
				key = entities.AttrUsage
			case entities.RelFormulaDosageForm:
				key = entities.AttrDosageForm
			default:
				continue
			}
			to := byID[rel.ToID]
			if to == nil {
				continue
			}
			fj.SetAttribute(key, to)
		}
	}
}

// synthesizeFormulas replaces every unknown-formula entity in the event with
// a new formula entity named after its synthesized identifier, collecting
// nested herbs, excipients and usage/dosage-form attributes from the spans
// it covers, and appends a composition relation per nested herb and an
// excipient-composition relation per nested excipient. Synthesized
// identifiers follow {record-id}-{event-order}-{seq} with seq starting at 1
// per event. New entities are registered into the record-wide lookup so
// later cross-references resolve them.
func synthesizeFormulas(recordID entities.ID, byID map[entities.ID]*entities.Entity,
	evEntities []*entities.Entity, evRelations []*entities.Relation,
	order int, counters *Counters) ([]*entities.Entity, []*entities.Relation) {

	var unknowns []*entities.Entity
	for _, e := range evEntities {
		if e.Label == entities.LabelUnknownFormula {
			unknowns = append(unknowns, e)
		}
	}

	seq := 1
	for _, unk := range unknowns {
		var herbs, excipients []*entities.Entity
		attrs := map[string]*entities.Entity{}
		for _, sub := range evEntities {
			if sub.ID == unk.ID || !unk.Contains(sub) {
				continue
			}
			switch sub.Label {
			case entities.LabelHerb:
				herbs = append(herbs, sub)
			case entities.LabelExcipient:
				excipients = append(excipients, sub)
			case entities.LabelUsage, entities.LabelDosageForm:
				attrs[sub.Label] = sub
			}
		}

		evEntities = removeEntity(evEntities, unk.ID)

		newID := entities.StringID(fmt.Sprintf("%s-%d-%d", recordID.String(), order, seq))
		seq++
		formula := &entities.Entity{
			ID:         newID,
			Label:      entities.LabelFormula,
			Text:       newID.String() + "号方",
			Synthetic:  true,
			Attributes: attrs,
		}
		evEntities = append(evEntities, formula)
		byID[newID] = formula

		for _, h := range herbs {
			if !containsEntity(evEntities, h.ID) {
				evEntities = append(evEntities, h)
			}
			counters.Relation++
			evRelations = append(evRelations, &entities.Relation{
				ID:     entities.IntID(counters.Relation),
				FromID: h.ID,
				ToID:   newID,
				Type:   entities.RelComposition,
			})
		}
		for _, x := range excipients {
			if !containsEntity(evEntities, x.ID) {
				evEntities = append(evEntities, x)
			}
			counters.Relation++
			evRelations = append(evRelations, &entities.Relation{
				ID:     entities.IntID(counters.Relation),
				FromID: x.ID,
				ToID:   newID,
				Type:   entities.RelExcipientComposition,
			})
		}
	}

	return evEntities, evRelations
}

func removeEntity(ents []*entities.Entity, id entities.ID) []*entities.Entity {
	out := ents[:0]
	for _, e := range ents {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func containsEntity(ents []*entities.Entity, id entities.ID) bool {
	for _, e := range ents {
		if e.ID == id {
			return true
		}
	}
	return false
}

// sliceText extracts the event substring, clamping degenerate or
// out-of-range boundaries to an empty string instead of failing.
func sliceText(runes []rune, b eventSpan) string {
	lo := b.Start
	if lo < 0 {
		lo = 0
	}
	if lo > len(runes) {
		lo = len(runes)
	}
	hi := b.End
	if hi < lo {
		hi = lo
	}
	if hi > len(runes) {
		hi = len(runes)
	}
	return string(runes[lo:hi])
}
