package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Anchor in winter so Helsinki stays at UTC+2 and the offsets below are
// stable regardless of when the tests run.
var winterAnchor = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func helsinki(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)
	return loc
}

func TestDeriveSlots_EnumeratesHours(t *testing.T) {
	loc := helsinki(t)
	u := User{TelegramID: 7, StartHour: 11, EndHour: 18, Frequency: 3, Minute: 15, Active: true}

	slots := DeriveSlots(u, loc, winterAnchor.In(loc))

	require.Len(t, slots, 3)
	assert.Equal(t, []int{11, 14, 17}, []int{slots[0].Hour, slots[1].Hour, slots[2].Hour})
	for _, s := range slots {
		assert.Equal(t, int64(7), s.TelegramID)
		assert.Equal(t, 15, s.Minute)
		// UTC+2 in January
		assert.Equal(t, s.Hour-2, s.UTCHour)
		assert.Equal(t, 15, s.UTCMinute)
	}
}

func TestDeriveSlots_SingleSlotWhenStartEqualsEnd(t *testing.T) {
	loc := helsinki(t)
	u := User{TelegramID: 1, StartHour: 9, EndHour: 9, Frequency: 1, Minute: 0}

	slots := DeriveSlots(u, loc, winterAnchor.In(loc))

	require.Len(t, slots, 1)
	assert.Equal(t, 9, slots[0].Hour)
	assert.Equal(t, 0, slots[0].Minute)
	assert.Equal(t, 7, slots[0].UTCHour)
}

func TestDeriveSlots_CountAndMonotonicity(t *testing.T) {
	loc := helsinki(t)
	for start := 0; start <= 23; start += 5 {
		for end := start; end <= 23; end += 4 {
			for freq := 1; freq <= 6; freq++ {
				u := User{StartHour: start, EndHour: end, Frequency: freq, Minute: 30}
				slots := DeriveSlots(u, loc, winterAnchor.In(loc))

				wantCount := (end-start)/freq + 1
				require.Len(t, slots, wantCount, "start=%d end=%d freq=%d", start, end, freq)
				assert.Equal(t, start, slots[0].Hour)
				for i := 1; i < len(slots); i++ {
					assert.Equal(t, slots[i-1].Hour+freq, slots[i].Hour)
				}
				assert.LessOrEqual(t, slots[len(slots)-1].Hour, end)
			}
		}
	}
}

func TestDeriveSlots_CrossesUTCDayBoundary(t *testing.T) {
	loc := helsinki(t)
	// 00:30 local is 22:30 UTC the previous day; only the time-of-day
	// survives, the slot still recurs every day.
	u := User{StartHour: 0, EndHour: 0, Frequency: 1, Minute: 30}

	slots := DeriveSlots(u, loc, winterAnchor.In(loc))

	require.Len(t, slots, 1)
	assert.Equal(t, 0, slots[0].Hour)
	assert.Equal(t, 22, slots[0].UTCHour)
	assert.Equal(t, 30, slots[0].UTCMinute)
}

func TestDeriveSlots_AnchorDateIrrelevant(t *testing.T) {
	loc := helsinki(t)
	u := User{StartHour: 10, EndHour: 16, Frequency: 2, Minute: 45}

	a := DeriveSlots(u, loc, time.Date(2024, time.January, 1, 3, 0, 0, 0, loc))
	b := DeriveSlots(u, loc, time.Date(2024, time.February, 20, 23, 59, 0, 0, loc))

	assert.Equal(t, a, b)
}

func TestSlot_Civil(t *testing.T) {
	assert.Equal(t, "09:05", Slot{Hour: 9, Minute: 5}.Civil())
	assert.Equal(t, "17:30", Slot{Hour: 17, Minute: 30}.Civil())
}
