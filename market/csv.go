package market

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// LoadCSV reads a daily bar dataset:
//
//	datetime,open,high,low,close,volume
//
// one row per trading day, ascending. A header row is allowed. Files ending
// in .gz or .xz are decompressed transparently. The resulting series is
// validated by NewBarSeries, so ordering or price violations surface as
// DataIntegrityError.
func LoadCSV(path, symbol string) (*BarSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz %s: %w", path, err)
		}
		r = xr
	}

	bars, err := ReadBars(r)
	if err != nil {
		return nil, err
	}
	return NewBarSeries(symbol, bars)
}

// ReadBars parses bar rows from r. Rows are not validated beyond field
// syntax; callers build a BarSeries for the ordering checks.
func ReadBars(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []Bar
	sawFirst := false
	row := 0

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}

		// Allow a single header row.
		if !sawFirst {
			sawFirst = true
			if isHeader(rec[0]) {
				continue
			}
		}

		b, err := parseRow(rec)
		if err != nil {
			return nil, &DataIntegrityError{Row: row, Reason: err.Error()}
		}
		bars = append(bars, b)
		row++
	}
}

func isHeader(first string) bool {
	first = strings.TrimSpace(first)
	return strings.EqualFold(first, "datetime") || strings.EqualFold(first, "date") ||
		strings.EqualFold(first, "time")
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseRow(rec []string) (Bar, error) {
	if len(rec) < 6 {
		return Bar{}, fmt.Errorf("need 6 columns datetime,open,high,low,close,volume, got %d", len(rec))
	}

	ts := strings.TrimSpace(rec[0])
	var (
		t   time.Time
		err error
	)
	for _, layout := range timeLayouts {
		if t, err = time.Parse(layout, ts); err == nil {
			break
		}
	}
	if err != nil {
		return Bar{}, fmt.Errorf("bad datetime %q", ts)
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad numeric field %q: %w", rec[i+1], err)
		}
		vals[i] = v
	}

	return Bar{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
