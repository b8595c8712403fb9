// internal/domain/renewal/window_test.go
package renewal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{"mid month", date(2025, time.March, 14), "2025-04-01", "2025-04-30"},
		{"last day of month", date(2025, time.January, 31), "2025-02-01", "2025-02-28"},
		{"leap february", date(2024, time.January, 15), "2024-02-01", "2024-02-29"},
		{"december rolls into next year", date(2025, time.December, 20), "2026-01-01", "2026-01-31"},
		{"november window covers december", date(2025, time.November, 30), "2025-12-01", "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NextMonthWindow(tt.now)
			assert.Equal(t, tt.wantStart, w.StartDate())
			assert.Equal(t, tt.wantEnd, w.EndDate())
		})
	}
}

func TestNextMonthWindowAllMonths(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		now := date(2025, m, 10)
		w := NextMonthWindow(now)

		wantStart := time.Date(2025, m+1, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, wantStart, w.Start, "month %s", m)
		assert.Equal(t, 1, w.Start.Day())

		// End is the last day of the window month: the next day is the 1st.
		assert.Equal(t, w.Start.Month(), w.End.Month())
		assert.Equal(t, 1, w.End.AddDate(0, 0, 1).Day(), "month %s", m)
	}
}

func TestNextMonthWindowIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC)
	w := NextMonthWindow(late)
	assert.Equal(t, "2025-07-01", w.StartDate())
	assert.Equal(t, "2025-07-31", w.EndDate())
}

func TestIsScheduledRunDay(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"15th", date(2025, time.March, 15), true},
		{"20th", date(2025, time.March, 20), true},
		{"25th", date(2025, time.March, 25), true},
		{"last day of march", date(2025, time.March, 31), true},
		{"last day of april", date(2025, time.April, 30), true},
		{"last day of non-leap february", date(2025, time.February, 28), true},
		{"last day of leap february", date(2024, time.February, 29), true},
		{"28th of leap february", date(2024, time.February, 28), false},
		{"ordinary day", date(2025, time.March, 14), false},
		{"first of month", date(2025, time.March, 1), false},
		{"30th of a 31-day month", date(2025, time.March, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsScheduledRunDay(tt.day))
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	now := date(2025, time.March, 1)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same day", date(2025, time.March, 1), 0},
		{"tomorrow", date(2025, time.March, 2), 1},
		{"thirty days out is exactly thirty", date(2025, time.March, 31), 30},
		{"past due is negative", date(2025, time.February, 27), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.end, now))
		})
	}
}

func TestDaysRemainingIgnoresTimeOfDay(t *testing.T) {
	// 23:59 now vs midnight end date must not shave a day off.
	now := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysRemaining(end, now))

	// And an end date with a late timestamp must not add one.
	end = time.Date(2025, time.March, 31, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysRemaining(end, now))
}
