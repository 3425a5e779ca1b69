package casesparser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/logging"
)

// decodeRecord parses one corpus line into a Record. A line that is not a
// JSON object with the expected structure is a fatal error for the whole
// run; entity labels outside the fixed vocabulary are only warned about,
// because an unclassifiable entity is harmless downstream.
func decodeRecord(line []byte) (*entities.Record, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("case record must be a JSON object")
	}

	var rec entities.Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("invalid case record: %w", err)
	}

	for _, e := range rec.Entities {
		if e == nil {
			return nil, fmt.Errorf("case record contains a null entity")
		}
		if e.Label != "" && !entities.KnownLabels[e.Label] {
			logging.Warn("Entity label outside the annotation vocabulary",
				"record_id", rec.ID.String(),
				"entity_id", e.ID.String(),
				"label", e.Label)
		}
	}
	for _, rel := range rec.Relations {
		if rel == nil {
			return nil, fmt.Errorf("case record contains a null relation")
		}
	}

	return &rec, nil
}
