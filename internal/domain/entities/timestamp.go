package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Timestamp is a point in time as sent by the backend: either an ISO-8601
// string (zone offset optional) or a number of epoch milliseconds.
type Timestamp struct {
	time.Time
}

// isoLayouts are tried in order. Layouts without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date-time.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// FromEpochMillis converts epoch milliseconds to a Timestamp.
func FromEpochMillis(ms int64) Timestamp {
	return Timestamp{Time: time.UnixMilli(ms).UTC()}
}

// UnmarshalJSON accepts a string, a number or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	if ms, err := n.Int64(); err == nil {
		*t = FromEpochMillis(ms)
		return nil
	}
	f, err := n.Float64()
	if err != nil || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	*t = FromEpochMillis(int64(f))
	return nil
}

// MarshalJSON writes RFC 3339 with nanoseconds, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
