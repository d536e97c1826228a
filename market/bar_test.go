package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func closes(start time.Time, prices ...float64) []Bar {
	bars := make([]Bar, len(prices))
	for i, p := range prices {
		bars[i] = Bar{
			Time:  start.AddDate(0, 0, i),
			Open:  p, High: p, Low: p, Close: p,
			Volume: 1000,
		}
	}
	return bars
}

func TestNewBarSeriesValid(t *testing.T) {
	bars := closes(day(2023, time.January, 2), 10, 11, 12)
	s, err := NewBarSeries("510300", bars)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, day(2023, time.January, 2), s.Start())
	assert.Equal(t, day(2023, time.January, 4), s.End())
	assert.Equal(t, 11.0, s.At(1).Close)
}

func TestNewBarSeriesOutOfOrder(t *testing.T) {
	bars := closes(day(2023, time.January, 2), 10, 11)
	bars[1].Time = bars[0].Time // duplicate timestamp

	_, err := NewBarSeries("510300", bars)
	require.Error(t, err)

	var die *DataIntegrityError
	require.ErrorAs(t, err, &die)
	assert.Equal(t, 1, die.Row)
}

func TestNewBarSeriesBadClose(t *testing.T) {
	bars := closes(day(2023, time.January, 2), 10, 11)
	bars[1].Close = 0

	_, err := NewBarSeries("510300", bars)
	var die *DataIntegrityError
	require.ErrorAs(t, err, &die)
	assert.Contains(t, die.Reason, "non-positive close")
}

func TestNewBarSeriesNonFinite(t *testing.T) {
	bars := closes(day(2023, time.January, 2), 10)
	bars[0].High = math.NaN()

	_, err := NewBarSeries("510300", bars)
	var die *DataIntegrityError
	require.ErrorAs(t, err, &die)
}

func TestBarMonth(t *testing.T) {
	jan31 := Bar{Time: day(2023, time.January, 31)}
	feb1 := Bar{Time: day(2023, time.February, 1)}
	feb28 := Bar{Time: day(2023, time.February, 28)}

	assert.NotEqual(t, jan31.Month(), feb1.Month())
	assert.Equal(t, feb1.Month(), feb28.Month())

	// Same month in different years must not collide.
	jan2024 := Bar{Time: day(2024, time.January, 15)}
	assert.NotEqual(t, jan31.Month(), jan2024.Month())
}

func TestWindow(t *testing.T) {
	bars := closes(day(2023, time.January, 2), 10, 11, 12, 13, 14)
	s, err := NewBarSeries("510300", bars)
	require.NoError(t, err)

	// [from, to): Jan 3 and Jan 4 only.
	w := s.Window(day(2023, time.January, 3), day(2023, time.January, 5))
	require.Equal(t, 2, w.Len())
	assert.Equal(t, 11.0, w.At(0).Close)
	assert.Equal(t, 12.0, w.At(1).Close)

	// Zero bounds leave that side open.
	assert.Equal(t, 5, s.Window(time.Time{}, time.Time{}).Len())
	assert.Equal(t, 3, s.Window(day(2023, time.January, 4), time.Time{}).Len())
	assert.Equal(t, 2, s.Window(time.Time{}, day(2023, time.January, 4)).Len())

	// Window outside the data is empty, not an error.
	assert.Equal(t, 0, s.Window(day(2024, time.January, 1), time.Time{}).Len())
}
