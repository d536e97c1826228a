package market

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sampleCSV = `datetime,open,high,low,close,volume
2023-01-02,4.00,4.10,3.95,4.05,120000
2023-01-03,4.05,4.20,4.00,4.18,98000
2023-01-04 00:00:00,4.18,4.25,4.10,4.12,105000
`

func TestReadBars(t *testing.T) {
	bars, err := ReadBars(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, day(2023, time.January, 2), bars[0].Time)
	assert.Equal(t, 4.05, bars[0].Close)
	assert.Equal(t, 120000.0, bars[0].Volume)

	// Second layout (with time-of-day) parses too.
	assert.Equal(t, day(2023, time.January, 4), bars[2].Time)
}

func TestReadBarsNoHeader(t *testing.T) {
	raw := "2023-01-02,4.00,4.10,3.95,4.05,120000\n"
	bars, err := ReadBars(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 4.05, bars[0].Close)
}

func TestReadBarsBadRow(t *testing.T) {
	raw := "2023-01-02,4.00,4.10,3.95,not-a-number,120000\n"
	_, err := ReadBars(strings.NewReader(raw))

	var die *DataIntegrityError
	require.ErrorAs(t, err, &die)
	assert.Equal(t, 0, die.Row)
}

func TestReadBarsBadDatetime(t *testing.T) {
	raw := "02/01/2023,4.00,4.10,3.95,4.05,120000\n"
	_, err := ReadBars(strings.NewReader(raw))

	var die *DataIntegrityError
	require.ErrorAs(t, err, &die)
	assert.Contains(t, die.Reason, "bad datetime")
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	s, err := LoadCSV(path, "510300")
	require.NoError(t, err)
	assert.Equal(t, "510300", s.Symbol)
	assert.Equal(t, 3, s.Len())
}

func TestLoadCSVGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s, err := LoadCSV(path, "510300")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 4.18, s.At(1).Close)
}

func TestLoadCSVXz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv.xz")

	f, err := os.Create(path)
	require.NoError(t, err)
	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = xw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	require.NoError(t, f.Close())

	s, err := LoadCSV(path, "510300")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 4.12, s.At(2).Close)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), "510300")
	require.Error(t, err)
}
