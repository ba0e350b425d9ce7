package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// isoMillis is the canonical wire form for timestamps: ISO-8601 UTC
// with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// FormatISO renders a time in the canonical wire form.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// FlexTime is a timestamp that accepts either of the two shapes found
// in document-store exports: a {"seconds": N, "nanoseconds": N} pair or
// an ISO-8601 string. It always marshals back to the canonical ISO
// form, so the rest of the system only ever sees one representation.
type FlexTime struct {
	time.Time
}

type secondsPair struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// UnmarshalJSON decodes a seconds/nanoseconds pair, an ISO-8601 string,
// or null.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '{' {
		var pair secondsPair
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("invalid timestamp object: %w", err)
		}
		t.Time = time.Unix(pair.Seconds, pair.Nanoseconds).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// MarshalJSON always emits the canonical ISO form, or null for the
// zero time.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.ISO())
}

// ISO returns the canonical string form.
func (t FlexTime) ISO() string {
	return FormatISO(t.Time)
}
