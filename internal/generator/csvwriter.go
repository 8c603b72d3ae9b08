package generator

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// CSVWriter provides a streaming, memory-efficient CSV writer.
// It uses buffered I/O and writes rows immediately to minimize memory usage.
type CSVWriter struct {
	file     *os.File
	buffer   *bufio.Writer
	writer   *csv.Writer
	mu       sync.Mutex
	rowCount int64
	closed   bool
}

// CSVWriterConfig holds configuration for creating a CSV writer
type CSVWriterConfig struct {
	// Directory where the file will be created
	OutputDir string
	// Filename without extension (e.g., "user_profiles")
	Filename string
	// Column headers
	Headers []string
	// Buffer size in bytes (default: 64KB)
	BufferSize int
}

// NewCSVWriter creates a new streaming CSV writer.
// The file is created immediately and headers are written.
func NewCSVWriter(cfg CSVWriterConfig) (*CSVWriter, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	path := filepath.Join(cfg.OutputDir, cfg.Filename+".csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	buffer := bufio.NewWriterSize(file, bufSize)
	writer := csv.NewWriter(buffer)

	cw := &CSVWriter{
		file:   file,
		buffer: buffer,
		writer: writer,
	}

	if len(cfg.Headers) > 0 {
		if err := writer.Write(cfg.Headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return cw, nil
}

// WriteRow writes a single row to the CSV file.
// This method is thread-safe.
func (w *CSVWriter) WriteRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.rowCount++

	return nil
}

// Close flushes remaining data and closes the file.
// Always call Close when done writing.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("csv flush error: %w", err)
	}

	if err := w.buffer.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("buffer flush error: %w", err)
	}

	return w.file.Close()
}

// RowCount returns the number of data rows written (excludes header).
func (w *CSVWriter) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// formatAmount renders a dollar amount with exactly two decimal places
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
