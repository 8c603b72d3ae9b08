package generator

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()

	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: dir,
		Filename:  "sample",
		Headers:   []string{"id", "amount"},
	})
	if err != nil {
		t.Fatalf("NewCSVWriter() failed: %v", err)
	}

	rows := [][]string{
		{"txn_0000001", "12.50"},
		{"txn_0000002", "7.99"},
	}
	for _, row := range rows {
		if err := writer.WriteRow(row); err != nil {
			t.Fatalf("WriteRow() failed: %v", err)
		}
	}

	if got := writer.RowCount(); got != 2 {
		t.Errorf("RowCount() = %d, want 2", got)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	t.Run("write after close fails", func(t *testing.T) {
		if err := writer.WriteRow([]string{"txn_0000003", "1.50"}); err == nil {
			t.Error("WriteRow() succeeded on a closed writer")
		}
	})

	t.Run("double close is safe", func(t *testing.T) {
		if err := writer.Close(); err != nil {
			t.Errorf("second Close() failed: %v", err)
		}
	})

	t.Run("file round-trips", func(t *testing.T) {
		f, err := os.Open(filepath.Join(dir, "sample.csv"))
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("got %d records, want header + 2 rows", len(records))
		}
		if records[0][0] != "id" || records[0][1] != "amount" {
			t.Errorf("header = %v", records[0])
		}
		if records[1][1] != "12.50" {
			t.Errorf("first row amount = %q, want 12.50", records[1][1])
		}
	})
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.5, "12.50"},
		{7.999, "8.00"},
		{1.5, "1.50"},
		{3500, "3500.00"},
	}
	for _, tc := range tests {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
