// internal/core/domain/sort.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts asc/desc case-insensitively.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(s) {
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return "", &InvalidArgumentError{Message: MsgSortOrderAscOrDesc}
	}
}

// SortKey is one field/direction pair of a sort descriptor.
type SortKey struct {
	Field     string
	Direction SortDirection
}

// SortSpec is an ordered composite sort key. Order is significant: earlier
// keys take priority, later keys break ties. A plain Go map cannot carry
// that, so the JSON form ({"name":"asc","quantity":"desc"}) is decoded
// token-by-token to preserve the object's key order.
type SortSpec []SortKey

// UnmarshalJSON decodes a JSON object into keys in document order.
func (s *SortSpec) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sort spec must be a JSON object")
	}

	var keys []SortKey
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		field, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sort spec key must be a string")
		}

		var raw string
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("sort direction for %q must be a string", field)
		}
		dir, err := ParseSortDirection(raw)
		if err != nil {
			return err
		}
		keys = append(keys, SortKey{Field: field, Direction: dir})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = keys
	return nil
}

// MarshalJSON renders the sort keys back as an object in key order.
func (s SortSpec) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		field, err := json.Marshal(k.Field)
		if err != nil {
			return nil, err
		}
		b.Write(field)
		b.WriteString(`:"` + string(k.Direction) + `"`)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// PageRequest is the structured form of a multi-sort page query. No page
// bounds validation happens on this path; negative numbers fall through to
// the store, unlike the flat-parameter entry points.
type PageRequest struct {
	PageNumber   int      `json:"pageNumber"`
	ItemsPerPage int      `json:"itemsPerPage"`
	Sort         SortSpec `json:"sortedProperties"`
}
