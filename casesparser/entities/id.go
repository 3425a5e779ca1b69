package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an annotation identifier. Identifiers coming from the source
// annotation tool are integers; formula entities synthesized during event
// resolution carry composed string identifiers like "12-2-1".
type ID struct {
	num  int64
	name string
	str  bool
}

// IntID returns an integer identifier.
func IntID(n int64) ID {
	return ID{num: n}
}

// StringID returns a synthesized string identifier.
func StringID(s string) ID {
	return ID{name: s, str: true}
}

// IsInt reports whether the identifier is an integer from the source
// annotation.
func (id ID) IsInt() bool {
	return !id.str
}

// Int returns the integer value. It is 0 for string identifiers.
func (id ID) Int() int64 {
	if id.str {
		return 0
	}
	return id.num
}

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool {
	return !id.str && id.num == 0
}

func (id ID) String() string {
	if id.str {
		return id.name
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON writes integer identifiers as JSON numbers and synthesized
// identifiers as JSON strings, matching the annotation wire format.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.str {
		return json.Marshal(id.name)
	}
	return strconv.AppendInt(nil, id.num, 10), nil
}

// UnmarshalJSON accepts any JSON scalar. Integers stay integers; everything
// else is kept as its textual form so odd identifiers survive a round trip
// instead of failing the record.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid string identifier: %w", err)
		}
		*id = StringID(s)
		return nil
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*id = IntID(n)
		return nil
	}
	// Non-integer scalar (float, bool). Keep the raw text.
	*id = StringID(string(data))
	return nil
}
