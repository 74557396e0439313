package entities

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEffectiveProjectID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "default"},
		{"   ", "default"},
		{"\t\n", "default"},
		{"alpha", "alpha"},
		{"  beta ", "beta"},
	}
	for _, tt := range tests {
		if got := EffectiveProjectID(tt.in); got != tt.want {
			t.Errorf("EffectiveProjectID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.8765, "87.7%"},
		{0.8, "80.0%"},
		{0, "0.0%"},
		{1, "100.0%"},
		{0.12345, "12.3%"},
		{0.0005, "0.1%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAnswer_ConfidencePercent(t *testing.T) {
	a := Answer{Answer: "yes", Confidence: 0.8765}
	if a.ConfidencePercent() != "87.7%" {
		t.Errorf("unexpected percent: %s", a.ConfidencePercent())
	}
}

func TestClampConfidence(t *testing.T) {
	if ClampConfidence(-0.5) != 0 {
		t.Error("negative should clamp to 0")
	}
	if ClampConfidence(1.5) != 1 {
		t.Error("above one should clamp to 1")
	}
	if ClampConfidence(0.42) != 0.42 {
		t.Error("in-range value should be kept")
	}
}

func TestActionItem_Decode(t *testing.T) {
	raw := `[
		{"description":"fix login","mentioned_at":"2024-03-01T10:30:00","assigned_to":"bob","status":"unresolved"},
		{"description":"write docs","mentioned_at":1709289000000,"assigned_to":null}
	]`

	var items []ActionItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].AssignedTo != "bob" {
		t.Errorf("expected bob, got %q", items[0].AssignedTo)
	}
	if items[1].AssignedTo != "" {
		t.Errorf("null assignee should decode as empty, got %q", items[1].AssignedTo)
	}
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	if !items[1].MentionedAt.Equal(want) {
		t.Errorf("epoch millis decoded to %v, want %v", items[1].MentionedAt.Time, want)
	}
}

func TestContext_Decode(t *testing.T) {
	raw := `{
		"project_id":"alpha",
		"last_updated":"2024-03-01T10:30:00.123456+02:00",
		"messages":[{"content":"hello","timestamp":"2024-03-01T10:00:00Z","source":"copy_paste"}],
		"action_items":[],
		"summary":""
	}`

	var c Context
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if c.ProjectID != "alpha" || len(c.Messages) != 1 {
		t.Errorf("unexpected context: %+v", c)
	}
	if c.LastUpdated.UTC().Hour() != 8 {
		t.Errorf("offset not applied: %v", c.LastUpdated.UTC())
	}
}
