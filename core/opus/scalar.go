// Package opus models the opus detail API: the response envelope, the page
// modules and the content paragraphs with their inline text nodes.
//
// Decoding is tolerant. The upstream schema grows new paragraph and node
// kinds without notice, so anything that does not fit the known shapes
// decodes into an Unknown variant instead of failing the whole document.
package opus

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON number that also accepts numeric strings. Null, booleans,
// non-numeric strings and non-finite values decode as zero, which callers
// treat as absent.
type Number float64

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// Int truncates n towards zero, clamped to the int32 range.
func (n Number) Int() int {
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, float64(n))))
}

// ID is an identifier the API sends either as a string or as a number.
// Large numeric ids are kept verbatim rather than going through float64.
type ID string

// UnmarshalJSON implements json.Unmarshaler. Values that are neither strings
// nor numbers decode as the empty ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*id = ID(s)
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*id = ID(num.String())
	}
	return nil
}

// String returns the id text.
func (id ID) String() string { return string(id) }

// truthy reports whether a raw JSON value would be considered set by the
// upstream web client: true, non-zero numbers, non-empty strings, objects
// and arrays.
func truthy(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "false", `""`:
		return false
	case "true":
		return true
	}
	switch s[0] {
	case '{', '[', '"':
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f != 0
}

// cssValue returns a raw JSON string or number as CSS value text.
func cssValue(raw json.RawMessage) string {
	if !truthy(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}
