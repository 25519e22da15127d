// Package recorder buffers per-tick rows while recording is active and writes
// them out as delimited tabular text.
package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"serial-scope/internal/channel"
)

// Row is one recorded consumer tick: a timestamp plus the latest value per
// channel. Channels with no update that tick record a blank cell.
type Row struct {
	At      time.Time
	Values  [channel.NumChannels]float64
	Present [channel.NumChannels]bool
}

// Recorder is an append-only log of rows. Appends come from the consumer
// tick; Stop may be triggered from a different logical path (signal handler,
// UI), so the buffer is guarded by a mutex.
type Recorder struct {
	mu        sync.Mutex
	rows      []Row
	recording bool
}

func New() *Recorder {
	return &Recorder{}
}

// Start clears any previous buffer and begins accepting rows.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = nil
	r.recording = true
}

// Append stores a row if recording is active.
func (r *Recorder) Append(row Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.rows = append(r.rows, row)
	}
}

// Active reports whether rows are currently being accepted.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len reports the number of buffered rows.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Stop ends recording and returns the buffered rows, clearing the buffer
// atomically so a new recording starts empty.
func (r *Recorder) Stop() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.rows
	r.rows = nil
	r.recording = false
	return rows
}

// WriteCSV writes rows as CSV with a header of "timestamp" followed by the
// channel display names. Timestamps are unix seconds with millisecond
// precision.
func WriteCSV(w *csv.Writer, names [channel.NumChannels]string, rows []Row) error {
	header := append([]string{"timestamp"}, names[:]...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, 1+channel.NumChannels)
	for _, row := range rows {
		record[0] = strconv.FormatFloat(float64(row.At.UnixMilli())/1000, 'f', 3, 64)
		for i := 0; i < channel.NumChannels; i++ {
			if row.Present[i] {
				record[i+1] = strconv.FormatFloat(row.Values[i], 'g', -1, 64)
			} else {
				record[i+1] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// SaveFile writes rows to a timestamped CSV file in dir and returns its path.
func SaveFile(dir string, names [channel.NumChannels]string, rows []Row) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("recording_%d.csv", time.Now().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(csv.NewWriter(f), names, rows); err != nil {
		return "", err
	}
	return path, nil
}
