package book_appointment

import (
	"fmt"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	appointmentType := domain.AppointmentType(req.Type)
	if !appointmentType.IsValid() {
		return fmt.Errorf("%w: type must be doctor, hospital or service", ErrInvalidInput)
	}

	if req.DateTime.IsZero() {
		return fmt.Errorf("%w: dateTime is required", ErrInvalidInput)
	}

	switch appointmentType {
	case domain.TypeDoctor:
		if req.ConsultationType == nil {
			return fmt.Errorf("%w: consultationType is required for doctor appointments", ErrInvalidInput)
		}
		if _, ok := domain.ServiceTypeForConsultation(domain.ConsultationType(*req.ConsultationType)); !ok {
			return fmt.Errorf("%w: unknown consultationType %q", ErrInvalidInput, *req.ConsultationType)
		}
		if req.PatientDetails == nil || req.PatientDetails.Name == "" {
			return fmt.Errorf("%w: patientDetails.name is required for doctor appointments", ErrInvalidInput)
		}
	case domain.TypeHospital, domain.TypeService:
		if req.ServiceName == nil || *req.ServiceName == "" {
			return fmt.Errorf("%w: serviceName is required", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDateTime проверяет, что момент приема в будущем
func validateDateTime(at time.Time, now time.Time) error {
	if !at.After(now) {
		return fmt.Errorf("%w: dateTime must be in the future", ErrInvalidInput)
	}
	return nil
}

// resolveSlot находит свободный слот расписания, содержащий момент приема.
// Ничего не мутирует: занятость фиксируется только после оплаты.
// Расписание проверяется раньше отпуска: закрытый день или занятый слот
// отклоняются как недоступный слот, даже если дата попадает в отпуск.
func resolveSlot(avail *domain.WeeklyAvailability, at time.Time) error {
	day := domain.WeekdayOf(at)
	timeOfDay := types.NewTimeString(at)

	slot, ok := avail.SlotAt(day, timeOfDay)
	if !ok || slot.IsBooked {
		return &SlotUnavailableError{
			Day:       day,
			FreeSlots: avail.FreeSlotsOn(day),
		}
	}

	if avail.IsOnLeave(at) {
		return ErrProviderOnLeave
	}

	return nil
}

// resolveDoctorService находит запись каталога, которая оценивает
// запрошенную модальность консультации
func resolveDoctorService(services []domain.CatalogService, consultationType domain.ConsultationType) (*domain.CatalogService, error) {
	serviceType, ok := domain.ServiceTypeForConsultation(consultationType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown consultationType %q", ErrInvalidInput, consultationType)
	}

	service, found := domain.FindActiveByType(services, serviceType)
	if !found {
		return nil, ErrServiceNotOffered
	}
	if service.Price <= 0 {
		return nil, ErrPriceNotConfigured
	}
	return service, nil
}

// resolveNamedService находит активную запись каталога по названию услуги
func resolveNamedService(services []domain.CatalogService, name string) (*domain.CatalogService, error) {
	service, found := domain.FindActiveByName(services, name)
	if !found {
		return nil, ErrServiceNotOffered
	}
	if service.Price <= 0 {
		return nil, ErrPriceNotConfigured
	}
	return service, nil
}
