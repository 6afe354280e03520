package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykvlv/mood-bot/internal/domain"
)

func TestPrevWeekBounds(t *testing.T) {
	// Wednesday 2024-01-17 -> previous ISO week Mon 08 .. Mon 15
	now := time.Date(2024, time.January, 17, 9, 30, 0, 0, time.UTC)
	from, to := prevWeekBounds(now)
	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), to)

	// Monday itself reports the week that just ended.
	now = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	from, to = prevWeekBounds(now)
	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), to)

	// Sunday belongs to the running week.
	now = time.Date(2024, time.January, 21, 23, 0, 0, 0, time.UTC)
	from, to = prevWeekBounds(now)
	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), to)
}

func TestPrevMonthBounds(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	from, to := prevMonthBounds(now)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), to)

	// year rollover
	now = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	from, to = prevMonthBounds(now)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestLinearFit(t *testing.T) {
	// y = 2x + 1
	slope, intercept := linearFit([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)

	// single point: flat at the mean
	slope, intercept = linearFit([]float64{5}, []float64{3})
	assert.Zero(t, slope)
	assert.InDelta(t, 3.0, intercept, 1e-9)

	// identical x values: degenerate, flat at the mean
	slope, intercept = linearFit([]float64{2, 2}, []float64{1, 5})
	assert.Zero(t, slope)
	assert.InDelta(t, 3.0, intercept, 1e-9)
}

func TestChartRender(t *testing.T) {
	from := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	var marks []domain.Mark
	for day := 0; day < 7; day++ {
		marks = append(marks, domain.Mark{
			TelegramID: 1,
			Value:      day % 5,
			CreatedAt:  from.AddDate(0, 0, day).Add(14 * time.Hour),
		})
	}

	png, err := WeekChart().Render(marks, from, to)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestChartRender_NoMarks(t *testing.T) {
	from := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	_, err := MonthChart().Render(nil, from, from.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, ErrNoMarks)
}
