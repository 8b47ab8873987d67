package cancel_appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	"github.com/vaidhya-health/appointment-service/pkg/ptr"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// --- Фейки ---

type fakeAppointmentRepo struct {
	appointment *domain.Appointment

	cancelErr    error
	cancelReason string
	cancelCalls  int
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.appointment == nil {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *f.appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, _ int64, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelCalls++
	f.cancelReason = reason
	now := time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC)
	f.appointment.Status = domain.StatusCancelled
	f.appointment.CancellationReason = &reason
	f.appointment.CancelledAt = &now
	return nil
}

type fakeAvailabilityRepo struct {
	releaseErr    error
	releasedDay   domain.Weekday
	releasedTime  types.TimeString
	releasedCalls int
}

func (f *fakeAvailabilityRepo) ReleaseSlot(_ context.Context, _ int64, weekday domain.Weekday, timeOfDay types.TimeString) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.releasedCalls++
	f.releasedDay = weekday
	f.releasedTime = timeOfDay
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, MobileNumber: "9000000001"}, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, _, message string) error {
	f.sent = append(f.sent, message)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

// 2025-10-13 это понедельник, 09:00
var testDateTime = time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

func upcomingDoctorAppointment() *domain.Appointment {
	video := domain.ConsultationVideo
	return &domain.Appointment{
		ID:               101,
		Type:             domain.TypeDoctor,
		CustomerID:       1,
		DoctorID:         ptr.Ptr(int64(2)),
		DateTime:         testDateTime,
		ConsultationType: &video,
		Amount:           500,
		Currency:         "INR",
		Status:           domain.StatusUpcoming,
	}
}

func newTestUseCase(apptRepo *fakeAppointmentRepo, availRepo *fakeAvailabilityRepo, notifier *fakeNotifier) *UseCase {
	return NewUseCase(apptRepo, availRepo, fakeUserRepo{}, notifier, passthroughTxManager{}, nopLogger{})
}

// --- Тесты ---

func TestExecute_CustomerCancelReleasesSlot(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appointment: upcomingDoctorAppointment()}
	availRepo := &fakeAvailabilityRepo{}
	notifier := &fakeNotifier{}

	uc := newTestUseCase(apptRepo, availRepo, notifier)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.True(t, resp.SlotReleased)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "Cancelled by customer", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)

	// Слот освобожден по оригинальному моменту записи
	assert.Equal(t, 1, availRepo.releasedCalls)
	assert.Equal(t, domain.Monday, availRepo.releasedDay)
	assert.Equal(t, types.TimeString("09:00"), availRepo.releasedTime)

	// Клиенту ушло уведомление с причиной
	require.Len(t, notifier.sent, 1)
	assert.True(t, strings.Contains(notifier.sent[0], "Cancelled by customer"))
}

func TestExecute_ProviderCancelUsesProviderReason(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appointment: upcomingDoctorAppointment()}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{}, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 2})
	require.NoError(t, err)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "Cancelled by provider", *resp.CancellationReason)
}

func TestExecute_ExplicitReasonWins(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{appointment: upcomingDoctorAppointment()}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{}, &fakeNotifier{})

	reason := "Patient feels better"
	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 1, Reason: &reason})
	require.NoError(t, err)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, reason, *resp.CancellationReason)
}

func TestExecute_HospitalAppointmentSkipsSlotRelease(t *testing.T) {
	appt := &domain.Appointment{
		ID:         102,
		Type:       domain.TypeHospital,
		CustomerID: 1,
		HospitalID: ptr.Ptr(int64(3)),
		DateTime:   testDateTime,
		Status:     domain.StatusUpcoming,
	}

	availRepo := &fakeAvailabilityRepo{}

	uc := newTestUseCase(&fakeAppointmentRepo{appointment: appt}, availRepo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 102, UserID: 1})
	require.NoError(t, err)
	assert.False(t, resp.SlotReleased)
	assert.Zero(t, availRepo.releasedCalls)
}

func TestExecute_AccessDeniedForStranger(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{appointment: upcomingDoctorAppointment()}, &fakeAvailabilityRepo{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_FinalizedAppointmentCannotBeCancelled(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			appt := upcomingDoctorAppointment()
			appt.Status = status

			uc := newTestUseCase(&fakeAppointmentRepo{appointment: appt}, &fakeAvailabilityRepo{}, &fakeNotifier{})

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 1})
			assert.ErrorIs(t, err, ErrAlreadyFinalized)
		})
	}
}

func TestExecute_StatusConflictInsideTransaction(t *testing.T) {
	// Конкурентная отмена: запись финализировалась между чтением и UPDATE
	apptRepo := &fakeAppointmentRepo{
		appointment: upcomingDoctorAppointment(),
		cancelErr:   appointmentRepo.ErrStatusConflict,
	}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 1})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 101, UserID: 1})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestValidateRequest(t *testing.T) {
	longReason := strings.Repeat("x", domain.MaxCancellationReasonLength+1)

	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{"valid", &Request{AppointmentID: 1, UserID: 1}, false},
		{"valid with reason", &Request{AppointmentID: 1, UserID: 1, Reason: ptr.Ptr("no longer needed")}, false},
		{"zero appointment id", &Request{UserID: 1}, true},
		{"zero user id", &Request{AppointmentID: 1}, true},
		{"reason too long", &Request{AppointmentID: 1, UserID: 1, Reason: &longReason}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
