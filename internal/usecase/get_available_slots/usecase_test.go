package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
)

// --- Фейки ---

type fakeAvailabilityRepo struct {
	availability *domain.WeeklyAvailability
	err          error
}

func (f *fakeAvailabilityRepo) GetByProvider(_ context.Context, _ int64) (*domain.WeeklyAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.availability, nil
}

type fakeUserRepo struct {
	err error
}

func (f *fakeUserRepo) GetDoctor(_ context.Context, id int64) (*domain.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Doctor{ProviderProfile: domain.ProviderProfile{User: domain.User{ID: id}}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

// 2025-10-13 это понедельник
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

func mondayOnlySchedule() *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		WorkingDays: []domain.WorkingDay{
			{
				Day:         domain.Monday,
				IsAvailable: true,
				Slots: []domain.Slot{
					{StartTime: "09:00", EndTime: "09:30"},
					{StartTime: "09:30", EndTime: "10:00", IsBooked: true},
					{StartTime: "10:00", EndTime: "10:30"},
				},
			},
			{Day: domain.Tuesday, IsAvailable: false},
		},
	}
}

func newTestUseCase(availRepo *fakeAvailabilityRepo, users *fakeUserRepo) *UseCase {
	return NewUseCase(availRepo, users, nopLogger{})
}

// --- Тесты ---

func TestExecute_ReturnsOnlyFreeSlots(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{availability: mondayOnlySchedule()}, &fakeUserRepo{})

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 2, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, "2025-10-13", resp.Date)
	assert.Equal(t, string(domain.Monday), resp.Day)
	assert.True(t, resp.IsAvailable)
	assert.False(t, resp.OnLeave)

	// Занятый слот 09:30 не выдается
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, SlotInfo{StartTime: "09:00", EndTime: "09:30"}, resp.Slots[0])
	assert.Equal(t, SlotInfo{StartTime: "10:00", EndTime: "10:30"}, resp.Slots[1])
}

func TestExecute_ClosedDayIsEmptyNotError(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{availability: mondayOnlySchedule()}, &fakeUserRepo{})

	tuesday := monday.AddDate(0, 0, 1)
	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 2, Date: tuesday})
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
}

func TestExecute_UndeclaredDayIsEmpty(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{availability: mondayOnlySchedule()}, &fakeUserRepo{})

	sunday := monday.AddDate(0, 0, 6)
	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 2, Date: sunday})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	assert.Empty(t, resp.Slots)
}

func TestExecute_LeaveHidesSlots(t *testing.T) {
	avail := mondayOnlySchedule()
	avail.UnavailablePeriods = []domain.LeavePeriod{
		{StartDate: monday.AddDate(0, 0, -2), EndDate: monday, Reason: "Conference"},
	}

	uc := newTestUseCase(&fakeAvailabilityRepo{availability: avail}, &fakeUserRepo{})

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 2, Date: monday})
	require.NoError(t, err)

	assert.True(t, resp.OnLeave)
	assert.False(t, resp.IsAvailable)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DoctorNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeUserRepo{err: userRepo.ErrUserNotFound})

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 42, Date: monday})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_NonDoctorUser(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeUserRepo{err: userRepo.ErrRoleMismatch})

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: monday})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeUserRepo{})

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProviderID: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
