package csvtable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead_HeaderAndRows(t *testing.T) {
	src := strings.NewReader("Cycle start time,Recovery score %\n2023-05-01 00:00:00,55\n2023-05-02 00:00:00,61\n")

	table, err := NewReader().Read(src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("rows = %d, want 2", len(table))
	}
	if table[0]["Recovery score %"] != "55" {
		t.Errorf("row 0 recovery = %q", table[0]["Recovery score %"])
	}
	if table[1]["Cycle start time"] != "2023-05-02 00:00:00" {
		t.Errorf("row 1 date = %q", table[1]["Cycle start time"])
	}
}

func TestRead_RaggedRows(t *testing.T) {
	src := strings.NewReader("a,b,c\n1,2\n4,5,6\n")

	table, err := NewReader().Read(src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if _, present := table[0]["c"]; present {
		t.Error("short row should leave trailing column absent")
	}
	if table[1]["c"] != "6" {
		t.Errorf("full row c = %q, want 6", table[1]["c"])
	}
}

func TestRead_EmptyStream(t *testing.T) {
	table, err := NewReader().Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table) != 0 {
		t.Errorf("rows = %d, want 0", len(table))
	}
}

func TestReadFile_EmptyPathIsOptional(t *testing.T) {
	table, err := NewReader().ReadFile("")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if table != nil {
		t.Error("empty path should yield a nil table")
	}
}

func TestReadFile_MissingFile(t *testing.T) {
	if _, err := NewReader().ReadFile(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("missing file should error")
	}
}

func TestReadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycles.csv")
	content := "Cycle start time,Day Strain\n2023-05-01 00:00:00,14.2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := NewReader().ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(table) != 1 || table[0]["Day Strain"] != "14.2" {
		t.Errorf("unexpected table %v", table)
	}
}
