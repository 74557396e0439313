package entities

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2024-05-06T07:08:09Z"`, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
		{"offset", `"2024-05-06T09:08:09+02:00"`, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
		{"naive with micros", `"2024-05-06T07:08:09.500000"`, time.Date(2024, 5, 6, 7, 8, 9, 500000000, time.UTC)},
		{"space separated", `"2024-05-06 07:08:09"`, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
		{"date only", `"2024-05-06"`, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", `1714979289000`, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
		{"epoch float", `1714979289000.0`, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.raw), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestamp_Null(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("null should decode: %v", err)
	}
	if !ts.IsZero() {
		t.Error("null should give zero time")
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	for _, raw := range []string{`"yesterday"`, `true`, `{}`, `1e19`, `-1e19`, `1e300`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-05-06T07:08:09Z"` {
		t.Errorf("unexpected encoding: %s", data)
	}
	zero, _ := json.Marshal(Timestamp{})
	if string(zero) != "null" {
		t.Errorf("zero should encode as null, got %s", zero)
	}
}

func TestTimestamp_FloatMillis(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`1704164645000.5`), &ts); err != nil {
		t.Fatalf("fractional millis should decode: %v", err)
	}
	if ts.UnixMilli() != 1704164645000 {
		t.Errorf("unexpected time: %v", ts.Time)
	}
}
