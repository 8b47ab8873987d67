package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidhya-health/appointment-service/pkg/types"
)

func mondaySchedule() *WeeklyAvailability {
	return &WeeklyAvailability{
		WorkingDays: []WorkingDay{
			{
				Day:         Monday,
				IsAvailable: true,
				Slots: []Slot{
					{StartTime: "09:00", EndTime: "09:30"},
					{StartTime: "09:30", EndTime: "10:00", IsBooked: true},
					{StartTime: "10:00", EndTime: "10:30"},
				},
			},
			{
				Day:         Tuesday,
				IsAvailable: false,
				Slots: []Slot{
					{StartTime: "09:00", EndTime: "09:30"},
				},
			},
		},
		UnavailablePeriods: []LeavePeriod{
			{
				StartDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
				Reason:    "conference",
			},
		},
	}
}

func TestSlotContains(t *testing.T) {
	slot := Slot{StartTime: "09:00", EndTime: "09:30"}

	tests := []struct {
		name string
		at   types.TimeString
		want bool
	}{
		{"at start", "09:00", true},
		{"inside", "09:15", true},
		{"at end is excluded", "09:30", false},
		{"before start", "08:59", false},
		{"after end", "09:31", false},
		{"malformed time", "9 am", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slot.Contains(tt.at))
		})
	}
}

func TestSlotAt(t *testing.T) {
	avail := mondaySchedule()

	slot, ok := avail.SlotAt(Monday, "09:15")
	require.True(t, ok)
	assert.Equal(t, types.TimeString("09:00"), slot.StartTime)

	// Занятые слоты все равно возвращаются
	booked, ok := avail.SlotAt(Monday, "09:45")
	require.True(t, ok)
	assert.True(t, booked.IsBooked)

	// Между объявленными интервалами слота нет
	_, ok = avail.SlotAt(Monday, "11:00")
	assert.False(t, ok)

	// Недоступный день не отдает слотов
	_, ok = avail.SlotAt(Tuesday, "09:15")
	assert.False(t, ok)

	// Необъявленный день
	_, ok = avail.SlotAt(Sunday, "09:15")
	assert.False(t, ok)
}

func TestFreeSlotsOn(t *testing.T) {
	avail := mondaySchedule()

	free := avail.FreeSlotsOn(Monday)
	require.Len(t, free, 2)
	assert.Equal(t, types.TimeString("09:00"), free[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), free[1].StartTime)

	assert.Empty(t, avail.FreeSlotsOn(Tuesday))
	assert.Empty(t, avail.FreeSlotsOn(Sunday))
}

func TestIsOnLeave(t *testing.T) {
	avail := mondaySchedule()

	// Границы периода включительно
	assert.True(t, avail.IsOnLeave(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, avail.IsOnLeave(time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)))
	assert.True(t, avail.IsOnLeave(time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)))

	assert.False(t, avail.IsOnLeave(time.Date(2025, 10, 14, 23, 59, 0, 0, time.UTC)))
	assert.False(t, avail.IsOnLeave(time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC)))
}

func TestMarkSlotBooked(t *testing.T) {
	avail := mondaySchedule()

	require.True(t, avail.MarkSlotBooked(Monday, "09:00", true))
	slot, ok := avail.SlotAt(Monday, "09:00")
	require.True(t, ok)
	assert.True(t, slot.IsBooked)

	// Повторная установка того же флага безвредна
	require.True(t, avail.MarkSlotBooked(Monday, "09:00", true))

	// Освобождение
	require.True(t, avail.MarkSlotBooked(Monday, "09:00", false))
	slot, _ = avail.SlotAt(Monday, "09:00")
	assert.False(t, slot.IsBooked)

	// Слот мог быть удален при замене расписания - это no-op
	assert.False(t, avail.MarkSlotBooked(Monday, "23:00", true))
	assert.False(t, avail.MarkSlotBooked(Sunday, "09:00", true))
}

func TestValidate(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		assert.NoError(t, mondaySchedule().Validate())
	})

	t.Run("invalid weekday", func(t *testing.T) {
		avail := &WeeklyAvailability{
			WorkingDays: []WorkingDay{{Day: "Someday", IsAvailable: true}},
		}
		assert.ErrorIs(t, avail.Validate(), ErrInvalidWeekday)
	})

	t.Run("start after end", func(t *testing.T) {
		avail := &WeeklyAvailability{
			WorkingDays: []WorkingDay{{
				Day:         Monday,
				IsAvailable: true,
				Slots:       []Slot{{StartTime: "10:00", EndTime: "09:00"}},
			}},
		}
		assert.ErrorIs(t, avail.Validate(), ErrInvalidSlotInterval)
	})

	t.Run("zero-length slot", func(t *testing.T) {
		avail := &WeeklyAvailability{
			WorkingDays: []WorkingDay{{
				Day:         Monday,
				IsAvailable: true,
				Slots:       []Slot{{StartTime: "09:00", EndTime: "09:00"}},
			}},
		}
		assert.ErrorIs(t, avail.Validate(), ErrInvalidSlotInterval)
	})

	t.Run("overlapping slots", func(t *testing.T) {
		avail := &WeeklyAvailability{
			WorkingDays: []WorkingDay{{
				Day:         Monday,
				IsAvailable: true,
				Slots: []Slot{
					{StartTime: "09:00", EndTime: "10:00"},
					{StartTime: "09:30", EndTime: "10:30"},
				},
			}},
		}
		assert.ErrorIs(t, avail.Validate(), ErrOverlappingSlots)
	})

	t.Run("too many slots in a day", func(t *testing.T) {
		// 15-минутная сетка: на один слот больше лимита
		slots := make([]Slot, 0, MaxSlotsPerDay+1)
		for i := 0; i <= MaxSlotsPerDay; i++ {
			start := types.TimeString(fmt.Sprintf("%02d:%02d", i*15/60, i*15%60))
			end := types.TimeString(fmt.Sprintf("%02d:%02d", (i+1)*15/60, (i+1)*15%60))
			slots = append(slots, Slot{StartTime: start, EndTime: end})
		}
		avail := &WeeklyAvailability{
			WorkingDays: []WorkingDay{{Day: Monday, IsAvailable: true, Slots: slots}},
		}
		assert.ErrorIs(t, avail.Validate(), ErrTooManySlots)
	})

	t.Run("touching slots do not overlap", func(t *testing.T) {
		avail := &WeeklyAvailability{
			WorkingDays: []WorkingDay{{
				Day:         Monday,
				IsAvailable: true,
				Slots: []Slot{
					{StartTime: "09:00", EndTime: "09:30"},
					{StartTime: "09:30", EndTime: "10:00"},
				},
			}},
		}
		assert.NoError(t, avail.Validate())
	})

	t.Run("leave period start after end", func(t *testing.T) {
		avail := &WeeklyAvailability{
			UnavailablePeriods: []LeavePeriod{{
				StartDate: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			}},
		}
		assert.ErrorIs(t, avail.Validate(), ErrInvalidLeavePeriod)
	})
}

func TestWeekdayOf(t *testing.T) {
	// 2025-10-13 это понедельник
	assert.Equal(t, Monday, WeekdayOf(time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC)))
}
