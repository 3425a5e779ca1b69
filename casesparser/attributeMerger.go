package casesparser

import (
	"github.com/medkg/tcmcases-api/casesparser/entities"
)

// mergeDrugAttributes folds dosage, preparation-method and efficacy
// relations into their source herb or excipient entity. The relations
// themselves are not removed here; attribute-only relations are filtered out
// later, after event selection. Relations whose endpoints cannot be resolved
// are skipped per the tolerant-lookup policy.
func mergeDrugAttributes(rec *entities.Record, byID map[entities.ID]*entities.Entity) {
	for _, rel := range rec.Relations {
		var key string
		switch rel.Type {
		case entities.RelDosage:
			key = entities.AttrDosage
		case entities.RelPreparation:
			key = entities.AttrPreparation
		case entities.RelEfficacy:
			key = entities.AttrEfficacy
		default:
			continue
		}

		from := byID[rel.FromID]
		to := byID[rel.ToID]
		if from == nil || to == nil {
			continue
		}
		if from.Label != entities.LabelHerb && from.Label != entities.LabelExcipient {
			continue
		}

		from.SetAttribute(key, to)
	}
}

// mergePatientAttributes resolves the record's patient entity and attaches
// every age and sex entity onto it, keyed by label. When the record has no
// patient of its own the one inherited from an earlier record is used, so a
// follow-up visit keeps the original patient. The resolved patient is
// returned for the caller to carry into the next record; a local patient
// takes precedence over the inherited one.
func mergePatientAttributes(rec *entities.Record, inherited *entities.Entity) *entities.Entity {
	var patient *entities.Entity
	for _, e := range rec.Entities {
		if e.Label == entities.LabelPatient {
			patient = e
			break
		}
	}
	if patient == nil {
		patient = inherited
	}
	if patient == nil {
		return nil
	}

	for _, e := range rec.Entities {
		if e.Label == entities.LabelAge || e.Label == entities.LabelSex {
			patient.SetAttribute(e.Label, e)
		}
	}
	return patient
}
