package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FileName is the table written into every output leaf directory.
const FileName = "Results.csv"

// Header is the fixed, order-significant column schema shared by all units.
// The four Error columns are reserved: no ground truth is available at this
// layer, so their cells are always left blank.
var Header = []string{
	"Pixel Shift X (Columns)",
	"Pixel Shift Y (Rows)",
	"Confidence (%)",
	"Dist. X (mm)",
	"Dist. Y (mm)",
	"Error X (mm)",
	"Error Y (mm)",
	"Error X (%)",
	"Error Y (%)",
	"MIG",
}

// Record is one measurement row, produced per frame in processing order.
type Record struct {
	PixelShiftX int
	PixelShiftY int
	Confidence  float64
	DistXmm     float64
	DistYmm     float64

	// HasDistance is false in calibration mode, where the pixel-to-mm
	// transform is not yet trusted and the distance cells are left blank.
	HasDistance bool

	MIG float64
}

// EnsureDir creates a directory path if it is absent. It reports whether the
// directory was newly created; calling it on an existing path is not an
// error.
func EnsureDir(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	return true, nil
}

// Sink writes the Results.csv table of a single experiment unit.
type Sink struct {
	path   string
	f      *os.File
	w      *csv.Writer
	closed bool
}

// OpenSink creates (or truncates) the unit's Results.csv inside dir and
// writes the header row. The directory must already exist; see EnsureDir.
func OpenSink(dir string) (*Sink, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result table %s: %w", path, err)
	}

	s := &Sink{path: path, f: f, w: csv.NewWriter(f)}
	if err := s.w.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	return s, nil
}

// Path returns the location of the table on disk.
func (s *Sink) Path() string {
	return s.path
}

// Append writes one record as a row. Rows must be appended in frame order;
// the sink does no reordering.
func (s *Sink) Append(r Record) error {
	row := []string{
		strconv.Itoa(r.PixelShiftX),
		strconv.Itoa(r.PixelShiftY),
		formatFloat(r.Confidence),
		"",
		"",
		"", // Error X (mm), reserved
		"", // Error Y (mm), reserved
		"", // Error X (%), reserved
		"", // Error Y (%), reserved
		formatFloat(r.MIG),
	}
	if r.HasDistance {
		row[3] = formatFloat(r.DistXmm)
		row[4] = formatFloat(r.DistYmm)
	}

	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("failed to append row to %s: %w", s.path, err)
	}
	return nil
}

// Close flushes buffered rows and closes the table file. It is safe to call
// more than once.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return fmt.Errorf("failed to flush %s: %w", s.path, err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
