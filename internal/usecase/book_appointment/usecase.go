package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
	"github.com/vaidhya-health/appointment-service/pkg/ptr"
)

// UseCase use case инициации бронирования: резолвинг слота, платежный
// заказ и запись в статусе ожидания оплаты. Слот на этом шаге НЕ
// занимается - занятость фиксируется только после подтверждения оплаты.
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	userRepo         UserRepository
	gateway          PaymentGateway
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	userRepo UserRepository,
	gateway PaymentGateway,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case инициации бронирования.
// Любая ошибка резолвинга не оставляет следов: запись создается только
// после того, как слот, услуга, цена и платежный заказ разрешены.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: customer=%d, type=%s, provider=%d, dateTime=%s",
		req.CustomerID, req.Type, req.ProviderID, req.DateTime.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Момент приема должен быть в будущем
	now := uc.timeProvider.Now()
	if err := validateDateTime(req.DateTime, now); err != nil {
		uc.logger.Warn("BookAppointment: dateTime validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем клиента
	customer, err := uc.userRepo.GetUser(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("BookAppointment: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("BookAppointment: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}
	if customer.Role != domain.RoleCustomer {
		uc.logger.Warn("BookAppointment: user id=%d has role=%s, cannot book", req.CustomerID, customer.Role)
		return nil, fmt.Errorf("%w: only customers can book appointments", ErrInvalidInput)
	}

	// 4. Резолвим провайдера, слот и услугу по типу записи
	appointment, err := uc.resolveAppointment(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Создаем платежный заказ на зафиксированную цену в пайсах
	receipt := fmt.Sprintf("appt_%d_%d", req.CustomerID, now.Unix())
	order, err := uc.gateway.CreateOrder(ctx, appointment.AmountMinorUnits(), appointment.Currency, receipt)
	if err != nil {
		uc.logger.Error("BookAppointment: failed to create payment order: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentOrderFailed, err)
	}
	appointment.PaymentOrderID = &order.ID

	// 6. Сохраняем запись
	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("BookAppointment: created appointment id=%d status=%s order=%s amount=%d paise",
		created.ID, created.Status, order.ID, created.AmountMinorUnits())

	return buildResponse(created, order.ID), nil
}

// resolveAppointment собирает доменную модель записи: провайдер, слот
// (для врачей), запись каталога с ценой и витринные снапшоты
func (uc *UseCase) resolveAppointment(ctx context.Context, req *Request) (*domain.Appointment, error) {
	appointment := &domain.Appointment{
		Type:       domain.AppointmentType(req.Type),
		CustomerID: req.CustomerID,
		DateTime:   req.DateTime,
		Currency:   domain.DefaultCurrency,
		Notes:      req.Notes,
	}
	if req.PatientDetails != nil {
		appointment.PatientDetails = toDomainPatientDetails(req.PatientDetails)
	}

	switch appointment.Type {
	case domain.TypeDoctor:
		doctor, err := uc.userRepo.GetDoctor(ctx, req.ProviderID)
		if err != nil {
			return nil, uc.providerError(err, req.ProviderID)
		}
		if !doctor.HasActiveSubscription(req.DateTime) {
			uc.logger.Warn("BookAppointment: doctor id=%d has no active subscription", req.ProviderID)
			return nil, ErrSubscriptionInactive
		}

		avail, err := uc.availabilityRepo.GetByProvider(ctx, req.ProviderID)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get availability for doctor id=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
		}
		if err := resolveSlot(avail, req.DateTime); err != nil {
			uc.logger.Warn("BookAppointment: slot resolution failed for doctor id=%d: %v", req.ProviderID, err)
			return nil, err
		}

		consultationType := domain.ConsultationType(*req.ConsultationType)
		service, err := resolveDoctorService(doctor.Services, consultationType)
		if err != nil {
			uc.logger.Warn("BookAppointment: service resolution failed for doctor id=%d: %v", req.ProviderID, err)
			return nil, err
		}

		appointment.DoctorID = &req.ProviderID
		appointment.ConsultationType = &consultationType
		appointment.Amount = service.Price
		if service.Currency != "" {
			appointment.Currency = service.Currency
		}
		appointment.Specialty = ptr.Ptr(doctor.Specialty)
		appointment.ClinicName = doctor.ClinicName
		appointment.ClinicAddress = doctor.Address

	case domain.TypeHospital:
		hospital, err := uc.userRepo.GetHospital(ctx, req.ProviderID)
		if err != nil {
			return nil, uc.providerError(err, req.ProviderID)
		}
		if !hospital.HasActiveSubscription(req.DateTime) {
			uc.logger.Warn("BookAppointment: hospital id=%d has no active subscription", req.ProviderID)
			return nil, ErrSubscriptionInactive
		}

		service, err := resolveNamedService(hospital.Services, *req.ServiceName)
		if err != nil {
			uc.logger.Warn("BookAppointment: service resolution failed for hospital id=%d: %v", req.ProviderID, err)
			return nil, err
		}

		appointment.HospitalID = &req.ProviderID
		appointment.Amount = service.Price
		if service.Currency != "" {
			appointment.Currency = service.Currency
		}
		appointment.Department = req.Department
		appointment.HospitalService = ptr.Ptr(service.Name)
		appointment.HospitalAddress = hospital.Address

	case domain.TypeService:
		vendor, err := uc.userRepo.GetVendor(ctx, req.ProviderID)
		if err != nil {
			return nil, uc.providerError(err, req.ProviderID)
		}
		if !vendor.HasActiveSubscription(req.DateTime) {
			uc.logger.Warn("BookAppointment: vendor id=%d has no active subscription", req.ProviderID)
			return nil, ErrSubscriptionInactive
		}

		service, err := resolveNamedService(vendor.Services, *req.ServiceName)
		if err != nil {
			uc.logger.Warn("BookAppointment: service resolution failed for vendor id=%d: %v", req.ProviderID, err)
			return nil, err
		}

		appointment.VendorID = &req.ProviderID
		appointment.Amount = service.Price
		if service.Currency != "" {
			appointment.Currency = service.Currency
		}
		appointment.ServiceType = ptr.Ptr(string(service.ServiceType))
		appointment.ServiceName = ptr.Ptr(service.Name)
		appointment.VendorAddress = vendor.Address
	}

	if err := appointment.ValidateProviderRef(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Очные приемы у врача подтверждаются сразу, остальное ждет оплату
	appointment.Status = appointment.InitialStatus()

	return appointment, nil
}

// providerError сводит ошибки загрузки провайдера к ошибкам usecase
func (uc *UseCase) providerError(err error, providerID int64) error {
	if errors.Is(err, userRepo.ErrUserNotFound) || errors.Is(err, userRepo.ErrRoleMismatch) {
		uc.logger.Warn("BookAppointment: provider id=%d not found", providerID)
		return ErrProviderNotFound
	}
	uc.logger.Error("BookAppointment: failed to get provider id=%d: %v", providerID, err)
	return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
}

// toDomainPatientDetails конвертирует данные пациента в domain модель
func toDomainPatientDetails(pd *PatientDetails) *domain.PatientDetails {
	relationship := pd.RelationshipToCustomer
	if relationship == "" {
		relationship = "self"
	}
	return &domain.PatientDetails{
		Name:                   pd.Name,
		Age:                    pd.Age,
		Gender:                 pd.Gender,
		Phone:                  pd.Phone,
		Email:                  pd.Email,
		RelationshipToCustomer: relationship,
		MedicalHistory:         pd.MedicalHistory,
		Allergies:              pd.Allergies,
		CurrentMedications:     pd.CurrentMedications,
	}
}
