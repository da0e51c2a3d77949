package catalogue

import (
	"strings"
	"testing"
)

func TestReadAllSkipsHeader(t *testing.T) {
	input := "name,types\nSol Ring,Artifact\n"

	rows, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0] != "Sol Ring" {
		t.Errorf("expected first field 'Sol Ring', got %q", rows[0][0])
	}
}

func TestReadAllQuotedCommas(t *testing.T) {
	input := "header\n\"Krenko, Mob Boss\",Creature,4\n"

	rows, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	row := rows[0]
	if len(row) != 3 {
		t.Fatalf("expected 3 fields, got %d: %v", len(row), row)
	}
	if row[0] != "Krenko, Mob Boss" {
		t.Errorf("expected quoted comma preserved, got %q", row[0])
	}
	if row[1] != "Creature" {
		t.Errorf("expected second field 'Creature', got %q", row[1])
	}
}

func TestReadAllStripsQuotes(t *testing.T) {
	input := "header\n\"Plains\",Land\n"

	rows, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if rows[0][0] != "Plains" {
		t.Errorf("expected quotes stripped, got %q", rows[0][0])
	}
}

func TestReadAllEmptyTrailingField(t *testing.T) {
	input := "header\nSol Ring,Artifact,\n"

	rows, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	row := rows[0]
	if len(row) != 3 {
		t.Fatalf("expected empty trailing field to be emitted, got %d fields: %v", len(row), row)
	}
	if row[2] != "" {
		t.Errorf("expected empty trailing field, got %q", row[2])
	}
}

func TestReadAllEmptyInput(t *testing.T) {
	rows, err := ReadAll(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows from empty input, got %d", len(rows))
	}
}

func TestReadAllHeaderOnly(t *testing.T) {
	rows, err := ReadAll(strings.NewReader("just,a,header\n"))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestReadAllRoundTrip(t *testing.T) {
	// A quoted field containing commas survives the parse exactly, with
	// quotes stripped and embedded commas intact.
	fields := []string{"Niv-Mizzet, Parun", "Legendary", "Creature", "a, b, c"}
	line := `"Niv-Mizzet, Parun",Legendary,Creature,"a, b, c"`

	rows, err := ReadAll(strings.NewReader("header\n" + line + "\n"))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	row := rows[0]
	if len(row) != len(fields) {
		t.Fatalf("expected %d fields, got %d: %v", len(fields), len(row), row)
	}
	for i, want := range fields {
		if row[i] != want {
			t.Errorf("field %d: expected %q, got %q", i, want, row[i])
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/catalogue.csv"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
