package records

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"draft", StatusDraft, true},
		{" Ready ", StatusReady, true},
		{"PROCESSING", StatusProcessing, true},
		{"", "", false},
		{"queued", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCanGenerate(t *testing.T) {
	cases := map[Status]bool{
		StatusDraft:      true,
		StatusError:      true,
		StatusUploading:  false,
		StatusProcessing: false,
		StatusReady:      false,
	}
	for status, want := range cases {
		record := &Record{Status: status}
		if got := record.CanGenerate(); got != want {
			t.Errorf("CanGenerate with status %s = %v, want %v", status, got, want)
		}
	}
}

func TestSetFailedKeepsOperationID(t *testing.T) {
	record := &Record{Status: StatusProcessing, OperationID: "op-7"}
	record.SetFailed("provider went away")

	if record.Status != StatusError {
		t.Fatalf("expected error status, got %s", record.Status)
	}
	if record.Error != "provider went away" {
		t.Fatalf("unexpected error message: %q", record.Error)
	}
	if record.OperationID != "op-7" {
		t.Fatal("expected operation id to be retained for diagnostics")
	}
}

func TestNewSceneEditsSerializesEmpty(t *testing.T) {
	data, err := json.Marshal(NewSceneEdits())
	if err != nil {
		t.Fatalf("marshal edits: %v", err)
	}
	if string(data) != `{"objects":[],"masks":[]}` {
		t.Fatalf("unexpected empty edits encoding: %s", data)
	}
}

func TestNewRecordAssignsIdentifier(t *testing.T) {
	a := NewRecord("A", nil, "")
	b := NewRecord("B", nil, "")
	if a.ID == "" || b.ID == "" {
		t.Fatal("expected ids to be assigned")
	}
	if a.ID == b.ID {
		t.Fatal("expected unique ids")
	}
	if a.Status != StatusDraft {
		t.Fatalf("expected new records to start as draft, got %s", a.Status)
	}
	if a.CreatedAt.IsZero() {
		t.Fatal("expected creation time to be set")
	}
}
