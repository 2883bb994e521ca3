package schemas

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp accepts RFC3339 values as well as the zone-less local date times the
// backend emits, which are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToTime returns the underlying time.Time value
func (t Timestamp) ToTime() time.Time {
	return t.Time
}

// UnmarshalJSON implements json.Unmarshaler interface
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "" || str == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, str); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", str)
}

// MarshalJSON implements json.Marshaler interface
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, t.UTC().Format(time.RFC3339Nano))), nil
}
