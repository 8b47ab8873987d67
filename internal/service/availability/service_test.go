package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
	"github.com/vaidhya-health/appointment-service/internal/service/availability/models"
)

// --- Фейки ---

type fakeAvailabilityRepo struct {
	availability *domain.WeeklyAvailability

	replaced     *domain.WeeklyAvailability
	replaceCalls int
}

func (f *fakeAvailabilityRepo) GetByProvider(_ context.Context, _ int64) (*domain.WeeklyAvailability, error) {
	return f.availability, nil
}

func (f *fakeAvailabilityRepo) Replace(_ context.Context, _ int64, avail *domain.WeeklyAvailability) error {
	f.replaceCalls++
	f.replaced = avail
	return nil
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

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

func validUpdateRequest() *models.UpdateAvailabilityRequest {
	return &models.UpdateAvailabilityRequest{
		ProviderID: 2,
		WorkingDays: []models.WorkingDayRequest{
			{
				Day:         "Monday",
				IsAvailable: true,
				Slots: []models.SlotRequest{
					{StartTime: "09:00", EndTime: "09:30"},
					{StartTime: "09:30", EndTime: "10:00"},
				},
			},
			{Day: "Sunday", IsAvailable: false},
		},
		UnavailablePeriods: []models.LeavePeriodRequest{
			{StartDate: "2025-11-01", EndDate: "2025-11-07", Reason: "Vacation"},
		},
	}
}

func newTestService(availRepo *fakeAvailabilityRepo, users *fakeUserRepo) *Service {
	return NewService(availRepo, users, passthroughTxManager{}, nopLogger{})
}

// --- Тесты ---

func TestUpdate_ReplacesSchedule(t *testing.T) {
	availRepo := &fakeAvailabilityRepo{}
	svc := newTestService(availRepo, &fakeUserRepo{})

	resp, err := svc.Update(context.Background(), validUpdateRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, availRepo.replaceCalls)
	assert.Equal(t, int64(2), resp.ProviderID)
	require.Len(t, resp.WorkingDays, 2)
	assert.Equal(t, "Monday", resp.WorkingDays[0].Day)
	require.Len(t, resp.WorkingDays[0].Slots, 2)
	require.Len(t, resp.UnavailablePeriods, 1)
	assert.Equal(t, "2025-11-01", resp.UnavailablePeriods[0].StartDate)

	// Замена всегда сбрасывает флаги занятости
	for _, slot := range availRepo.replaced.WorkingDays[0].Slots {
		assert.False(t, slot.IsBooked)
	}
}

func TestUpdate_DoctorNotFound(t *testing.T) {
	svc := newTestService(&fakeAvailabilityRepo{}, &fakeUserRepo{err: userRepo.ErrUserNotFound})

	_, err := svc.Update(context.Background(), validUpdateRequest())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpdate_NonDoctorCannotOwnSchedule(t *testing.T) {
	svc := newTestService(&fakeAvailabilityRepo{}, &fakeUserRepo{err: userRepo.ErrRoleMismatch})

	_, err := svc.Update(context.Background(), validUpdateRequest())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpdate_BadLeaveDate(t *testing.T) {
	req := validUpdateRequest()
	req.UnavailablePeriods[0].StartDate = "01-11-2025"

	availRepo := &fakeAvailabilityRepo{}
	svc := newTestService(availRepo, &fakeUserRepo{})

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, availRepo.replaceCalls)
}

func TestUpdate_RejectsInvalidSchedule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.UpdateAvailabilityRequest)
	}{
		{
			"unknown weekday",
			func(req *models.UpdateAvailabilityRequest) { req.WorkingDays[0].Day = "Mondayy" },
		},
		{
			"start after end",
			func(req *models.UpdateAvailabilityRequest) {
				req.WorkingDays[0].Slots[0] = models.SlotRequest{StartTime: "10:00", EndTime: "09:30"}
			},
		},
		{
			"overlapping slots",
			func(req *models.UpdateAvailabilityRequest) {
				req.WorkingDays[0].Slots[1] = models.SlotRequest{StartTime: "09:15", EndTime: "09:45"}
			},
		},
		{
			"leave start after end",
			func(req *models.UpdateAvailabilityRequest) {
				req.UnavailablePeriods[0].StartDate = "2025-11-08"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdateRequest()
			tt.mutate(req)

			availRepo := &fakeAvailabilityRepo{}
			svc := newTestService(availRepo, &fakeUserRepo{})

			_, err := svc.Update(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
			assert.Zero(t, availRepo.replaceCalls)
		})
	}
}

func TestGet_ReturnsSchedule(t *testing.T) {
	availRepo := &fakeAvailabilityRepo{
		availability: &domain.WeeklyAvailability{
			WorkingDays: []domain.WorkingDay{
				{
					Day:         domain.Monday,
					IsAvailable: true,
					Slots:       []domain.Slot{{StartTime: "09:00", EndTime: "09:30", IsBooked: true}},
				},
			},
		},
	}

	svc := newTestService(availRepo, &fakeUserRepo{})

	resp, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, resp.WorkingDays, 1)
	require.Len(t, resp.WorkingDays[0].Slots, 1)

	// Занятость слотов видна в расписании
	assert.True(t, resp.WorkingDays[0].Slots[0].IsBooked)
}

func TestGet_DoctorNotFound(t *testing.T) {
	svc := newTestService(&fakeAvailabilityRepo{}, &fakeUserRepo{err: userRepo.ErrUserNotFound})

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}
