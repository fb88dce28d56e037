package shared

import (
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	out, err := WriteCSV([]string{"email", "status"}, [][]string{
		{"a@example.com", "active"},
		{"b@example.com", "suspended"},
	})
	if err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "email,status" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestWriteCSVRejectsRaggedRows(t *testing.T) {
	_, err := WriteCSV([]string{"a", "b"}, [][]string{{"only-one"}})
	if err == nil {
		t.Fatal("expected error for ragged row")
	}
}
