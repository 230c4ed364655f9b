package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTimeDecodesServerFormats(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"naive with micros", `"2024-01-02T03:04:05.123456"`},
		{"naive without fraction", `"2024-01-02T03:04:05"`},
		{"rfc3339", `"2024-01-02T03:04:05Z"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Time
			if err := json.Unmarshal([]byte(tc.in), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if ts.Year() != 2024 || ts.Second() != 5 {
				t.Fatalf("parsed wrong instant: %v", ts)
			}
		})
	}

	var ts Time
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected parse error for garbage timestamp")
	}
}

func TestTaskCreateValidate(t *testing.T) {
	ok := TaskCreate{Title: "Buy milk", Priority: PriorityHigh}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cases := []struct {
		name string
		in   TaskCreate
	}{
		{"empty title", TaskCreate{Priority: PriorityLow}},
		{"blank title", TaskCreate{Title: "   ", Priority: PriorityLow}},
		{"long title", TaskCreate{Title: strings.Repeat("x", MaxTitleLen+1), Priority: PriorityLow}},
		{"long description", TaskCreate{Title: "t", Description: strings.Repeat("x", MaxDescriptionLen+1), Priority: PriorityLow}},
		{"bad priority", TaskCreate{Title: "t", Priority: "urgent"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParsePriorityNormalizes(t *testing.T) {
	p, err := ParsePriority("  HIGH ")
	if err != nil {
		t.Fatalf("ParsePriority: %v", err)
	}
	if p != PriorityHigh {
		t.Fatalf("got %q", p)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestTaskUpdateOmitsUnsetFields(t *testing.T) {
	title := "new"
	b, err := json.Marshal(TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"title":"new"}` {
		t.Fatalf("payload: %s", b)
	}
}
