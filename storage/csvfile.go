package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/m3rciful/stickerbot/order"
)

// FileIDSeparator joins attachment file ids into the file_ids column.
const FileIDSeparator = ";"

// csvHeader is written once when the log file is first created.
var csvHeader = []string{"user_id", "username", "quantity", "format", "total_price", "file_ids"}

// CSVSink appends completed orders to a CSV log file, one row per order. The
// header row is written only when the file does not exist yet.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink prepares the sink, creating the parent directory if needed.
func NewCSVSink(path string) (*CSVSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("csv sink: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("csv sink: create dir %s: %w", dir, err)
		}
	}
	return &CSVSink{path: path}, nil
}

// Save implements order.Sink.
func (s *CSVSink) Save(ctx context.Context, rec order.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("csv sink: open %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("csv sink: write header: %w", err)
		}
	}
	row := []string{
		strconv.FormatInt(rec.UserID, 10),
		rec.Username,
		strconv.Itoa(rec.Quantity),
		rec.Format,
		strconv.Itoa(rec.Total),
		strings.Join(rec.FileIDs, FileIDSeparator),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("csv sink: write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush: %w", err)
	}
	return nil
}
