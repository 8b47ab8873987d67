package book_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
	"github.com/vaidhya-health/appointment-service/internal/integrations/razorpay"
	"github.com/vaidhya-health/appointment-service/pkg/ptr"
)

// --- Фейки ---

type fakeAppointmentRepo struct {
	created *domain.Appointment
	err     error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	created := *a
	created.ID = 101
	created.BookedAt = time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	created.CreatedAt = created.BookedAt
	f.created = &created
	return &created, nil
}

type fakeAvailabilityRepo struct {
	avail *domain.WeeklyAvailability
	err   error
}

func (f *fakeAvailabilityRepo) GetByProvider(_ context.Context, _ int64) (*domain.WeeklyAvailability, error) {
	return f.avail, f.err
}

type fakeUserRepo struct {
	user     *domain.User
	userErr  error
	doctor   *domain.Doctor
	docErr   error
	hospital *domain.Hospital
	hospErr  error
	vendor   *domain.Vendor
	vendErr  error
}

func (f *fakeUserRepo) GetUser(_ context.Context, _ int64) (*domain.User, error) {
	return f.user, f.userErr
}

func (f *fakeUserRepo) GetDoctor(_ context.Context, _ int64) (*domain.Doctor, error) {
	return f.doctor, f.docErr
}

func (f *fakeUserRepo) GetHospital(_ context.Context, _ int64) (*domain.Hospital, error) {
	return f.hospital, f.hospErr
}

func (f *fakeUserRepo) GetVendor(_ context.Context, _ int64) (*domain.Vendor, error) {
	return f.vendor, f.vendErr
}

type fakeGateway struct {
	order  *razorpay.Order
	err    error
	amount int64
	calls  int
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int64, _, _ string) (*razorpay.Order, error) {
	f.calls++
	f.amount = amount
	return f.order, f.err
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

// 2025-10-13 это понедельник
var (
	testNow      = time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	testDateTime = time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
)

func activeDoctor() *domain.Doctor {
	expiry := testDateTime.AddDate(0, 6, 0)
	return &domain.Doctor{
		ProviderProfile: domain.ProviderProfile{
			User: domain.User{
				ID:      2,
				Role:    domain.RoleDoctor,
				Name:    "Dr. Asha Rao",
				Address: ptr.Ptr("12 MG Road, Bengaluru"),
			},
			Services: []domain.CatalogService{
				{ID: 1, ProviderID: 2, ServiceType: domain.ServiceVideoConsultation, Name: "Video Consultation", Price: 500, Currency: "INR", IsActive: true},
				{ID: 2, ProviderID: 2, ServiceType: domain.ServiceClinicalVisit, Name: "Clinical Visit", Price: 700, Currency: "INR", IsActive: true},
			},
			SubscriptionActive: true,
			SubscriptionExpiry: &expiry,
		},
		Specialty:  "Cardiology",
		ClinicName: ptr.Ptr("HeartCare Clinic"),
	}
}

func openMonday() *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		WorkingDays: []domain.WorkingDay{
			{
				Day:         domain.Monday,
				IsAvailable: true,
				Slots: []domain.Slot{
					{StartTime: "09:00", EndTime: "09:30"},
					{StartTime: "09:30", EndTime: "10:00"},
				},
			},
		},
	}
}

func doctorRequest() *Request {
	return &Request{
		CustomerID:       1,
		Type:             "doctor",
		ProviderID:       2,
		DateTime:         testDateTime,
		ConsultationType: ptr.Ptr("video"),
		PatientDetails:   &PatientDetails{Name: "Ravi"},
	}
}

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	availRepo *fakeAvailabilityRepo,
	users *fakeUserRepo,
	gateway *fakeGateway,
) *UseCase {
	uc := NewUseCase(apptRepo, availRepo, users, gateway, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

// --- Тесты ---

func TestExecute_DoctorVideoBooking(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	availRepo := &fakeAvailabilityRepo{avail: openMonday()}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer, MobileNumber: "9000000001"},
		doctor: activeDoctor(),
	}
	gateway := &fakeGateway{order: &razorpay.Order{ID: "order_abc", Amount: 50000, Currency: "INR"}}

	uc := newTestUseCase(apptRepo, availRepo, users, gateway)

	resp, err := uc.Execute(context.Background(), doctorRequest())
	require.NoError(t, err)

	// Цена зафиксирована из каталога и сконвертирована в пайсы для заказа
	assert.Equal(t, float64(500), resp.Amount)
	assert.Equal(t, int64(50000), resp.AmountPaise)
	assert.Equal(t, int64(50000), gateway.amount)
	assert.Equal(t, "order_abc", resp.PaymentOrderID)

	// Видео-консультация ждет оплату
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "appt_000101", resp.DisplayID)

	// Снапшот витринных полей врача
	require.NotNil(t, apptRepo.created)
	assert.Equal(t, ptr.Ptr("Cardiology"), apptRepo.created.Specialty)
	assert.Equal(t, ptr.Ptr("HeartCare Clinic"), apptRepo.created.ClinicName)
	require.NotNil(t, apptRepo.created.PaymentOrderID)
	assert.Equal(t, "order_abc", *apptRepo.created.PaymentOrderID)
	require.NotNil(t, apptRepo.created.PatientDetails)
	assert.Equal(t, "self", apptRepo.created.PatientDetails.RelationshipToCustomer)
}

func TestExecute_InPersonAutoConfirms(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	availRepo := &fakeAvailabilityRepo{avail: openMonday()}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: activeDoctor(),
	}
	gateway := &fakeGateway{order: &razorpay.Order{ID: "order_abc"}}

	uc := newTestUseCase(apptRepo, availRepo, users, gateway)

	req := doctorRequest()
	req.ConsultationType = ptr.Ptr("in-person")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, float64(700), resp.Amount)
}

func TestExecute_SlotUnavailableReportsFreeSlots(t *testing.T) {
	avail := openMonday()
	avail.WorkingDays[0].Slots[0].IsBooked = true

	apptRepo := &fakeAppointmentRepo{}
	availRepo := &fakeAvailabilityRepo{avail: avail}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: activeDoctor(),
	}
	gateway := &fakeGateway{}

	uc := newTestUseCase(apptRepo, availRepo, users, gateway)

	_, err := uc.Execute(context.Background(), doctorRequest())
	require.ErrorIs(t, err, ErrSlotUnavailable)

	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.Monday, slotErr.Day)
	require.Len(t, slotErr.FreeSlots, 1)
	assert.Equal(t, "09:30", slotErr.FreeSlots[0].StartTime.String())

	// Ничего не создано, платежный заказ не запрашивался
	assert.Nil(t, apptRepo.created)
	assert.Zero(t, gateway.calls)
}

func TestExecute_SlotOutsideSchedule(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	availRepo := &fakeAvailabilityRepo{avail: openMonday()}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: activeDoctor(),
	}

	uc := newTestUseCase(apptRepo, availRepo, users, &fakeGateway{})

	req := doctorRequest()
	req.DateTime = time.Date(2025, 10, 13, 15, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Nil(t, apptRepo.created)
}

func TestExecute_ClosedWeekdayDuringLeave(t *testing.T) {
	// Понедельник не объявлен в расписании, а дата попадает в отпуск.
	// Расписание проверяется раньше отпуска, поэтому ответ - недоступный слот
	avail := &domain.WeeklyAvailability{
		WorkingDays: []domain.WorkingDay{
			{Day: domain.Tuesday, IsAvailable: true, Slots: []domain.Slot{{StartTime: "09:00", EndTime: "09:30"}}},
		},
		UnavailablePeriods: []domain.LeavePeriod{{
			StartDate: testDateTime.AddDate(0, 0, -1),
			EndDate:   testDateTime.AddDate(0, 0, 1),
		}},
	}

	apptRepo := &fakeAppointmentRepo{}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: activeDoctor(),
	}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{avail: avail}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	require.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NotErrorIs(t, err, ErrProviderOnLeave)
	assert.Nil(t, apptRepo.created)
}

func TestExecute_ProviderOnLeave(t *testing.T) {
	avail := openMonday()
	avail.UnavailablePeriods = []domain.LeavePeriod{{
		StartDate: testDateTime.AddDate(0, 0, -1),
		EndDate:   testDateTime.AddDate(0, 0, 1),
	}}

	apptRepo := &fakeAppointmentRepo{}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: activeDoctor(),
	}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{avail: avail}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrProviderOnLeave)
	assert.Nil(t, apptRepo.created)
}

func TestExecute_InactiveSubscription(t *testing.T) {
	doctor := activeDoctor()
	doctor.SubscriptionActive = false

	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: doctor,
	}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{avail: openMonday()}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrSubscriptionInactive)
}

func TestExecute_SubscriptionExpiredByAppointmentDate(t *testing.T) {
	// Подписка активна сейчас, но истекает до момента приема
	doctor := activeDoctor()
	expiry := testDateTime.AddDate(0, 0, -1)
	doctor.SubscriptionExpiry = &expiry

	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: doctor,
	}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{avail: openMonday()}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrSubscriptionInactive)
}

func TestExecute_ServiceNotOffered(t *testing.T) {
	doctor := activeDoctor()
	doctor.Services = doctor.Services[1:] // только очный прием

	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: doctor,
	}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{avail: openMonday()}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrServiceNotOffered)
}

func TestExecute_PriceNotConfigured(t *testing.T) {
	doctor := activeDoctor()
	doctor.Services[0].Price = 0

	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: doctor,
	}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{avail: openMonday()}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrPriceNotConfigured)
}

func TestExecute_DateTimeInPast(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{}, &fakeUserRepo{}, &fakeGateway{})

	req := doctorRequest()
	req.DateTime = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	users := &fakeUserRepo{userErr: userRepo.ErrUserNotFound}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_NonCustomerCannotBook(t *testing.T) {
	users := &fakeUserRepo{user: &domain.User{ID: 1, Role: domain.RoleDoctor}}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		docErr: userRepo.ErrUserNotFound,
	}

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeAvailabilityRepo{}, users, &fakeGateway{})

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_PaymentOrderFailure(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	users := &fakeUserRepo{
		user:   &domain.User{ID: 1, Role: domain.RoleCustomer},
		doctor: activeDoctor(),
	}
	gateway := &fakeGateway{err: razorpay.ErrOrderCreateFailed}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{avail: openMonday()}, users, gateway)

	_, err := uc.Execute(context.Background(), doctorRequest())
	assert.ErrorIs(t, err, ErrPaymentOrderFailed)

	// Запись без платежного заказа не создается
	assert.Nil(t, apptRepo.created)
}

func TestExecute_HospitalBooking(t *testing.T) {
	expiry := testDateTime.AddDate(1, 0, 0)
	hospital := &domain.Hospital{
		ProviderProfile: domain.ProviderProfile{
			User: domain.User{ID: 3, Role: domain.RoleHospital, Address: ptr.Ptr("Fort Road, Kochi")},
			Services: []domain.CatalogService{
				{ID: 5, ProviderID: 3, Name: "MRI Scan", Price: 4500, Currency: "INR", IsActive: true},
			},
			SubscriptionActive: true,
			SubscriptionExpiry: &expiry,
		},
	}

	apptRepo := &fakeAppointmentRepo{}
	users := &fakeUserRepo{
		user:     &domain.User{ID: 1, Role: domain.RoleCustomer},
		hospital: hospital,
	}
	gateway := &fakeGateway{order: &razorpay.Order{ID: "order_mri"}}

	uc := newTestUseCase(apptRepo, &fakeAvailabilityRepo{}, users, gateway)

	req := &Request{
		CustomerID:  1,
		Type:        "hospital",
		ProviderID:  3,
		DateTime:    testDateTime,
		ServiceName: ptr.Ptr("MRI Scan"),
		Department:  ptr.Ptr("Radiology"),
	}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, float64(4500), resp.Amount)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	require.NotNil(t, apptRepo.created)
	assert.Equal(t, ptr.Ptr("MRI Scan"), apptRepo.created.HospitalService)
	assert.Equal(t, ptr.Ptr("Radiology"), apptRepo.created.Department)
	require.NotNil(t, apptRepo.created.HospitalID)
	assert.Equal(t, int64(3), *apptRepo.created.HospitalID)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{"valid doctor request", func(r *Request) {}, false},
		{"zero customer", func(r *Request) { r.CustomerID = 0 }, true},
		{"zero provider", func(r *Request) { r.ProviderID = 0 }, true},
		{"unknown type", func(r *Request) { r.Type = "astrologer" }, true},
		{"doctor without consultation type", func(r *Request) { r.ConsultationType = nil }, true},
		{"doctor with unknown modality", func(r *Request) { r.ConsultationType = ptr.Ptr("telepathy") }, true},
		{"doctor without patient details", func(r *Request) { r.PatientDetails = nil }, true},
		{"doctor with empty patient name", func(r *Request) { r.PatientDetails = &PatientDetails{} }, true},
		{"zero dateTime", func(r *Request) { r.DateTime = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := doctorRequest()
			tt.mutate(req)
			err := validateRequest(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("hospital without service name", func(t *testing.T) {
		req := &Request{CustomerID: 1, Type: "hospital", ProviderID: 3, DateTime: testDateTime}
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})
}
