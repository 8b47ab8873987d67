package book_appointment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("book_appointment: customer not found")

	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("book_appointment: provider not found")

	// ErrSubscriptionInactive возвращается, когда у провайдера нет активной подписки
	ErrSubscriptionInactive = errors.New("book_appointment: provider has no active subscription")

	// ErrSlotUnavailable возвращается, когда запрошенное время не попадает
	// в свободный слот расписания
	ErrSlotUnavailable = errors.New("book_appointment: slot is not available")

	// ErrProviderOnLeave возвращается, когда дата попадает в период отпуска
	ErrProviderOnLeave = errors.New("book_appointment: provider is on leave")

	// ErrServiceNotOffered возвращается, когда провайдер не предлагает услугу
	ErrServiceNotOffered = errors.New("book_appointment: service is not offered by this provider")

	// ErrPriceNotConfigured возвращается, когда у услуги нет положительной цены
	ErrPriceNotConfigured = errors.New("book_appointment: service price is not configured")

	// ErrPaymentOrderFailed возвращается при ошибке создания платежного заказа
	ErrPaymentOrderFailed = errors.New("book_appointment: failed to create payment order")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)

// SlotUnavailableError несет список свободных слотов дня, чтобы клиент
// мог сразу предложить альтернативу
type SlotUnavailableError struct {
	Day       domain.Weekday
	FreeSlots []domain.Slot
}

func (e *SlotUnavailableError) Error() string {
	if len(e.FreeSlots) == 0 {
		return fmt.Sprintf("slot is not available, no free slots on %s", e.Day)
	}
	slots := make([]string, 0, len(e.FreeSlots))
	for _, s := range e.FreeSlots {
		slots = append(slots, fmt.Sprintf("%s-%s", s.StartTime, s.EndTime))
	}
	return fmt.Sprintf("slot is not available, free slots on %s: %s", e.Day, strings.Join(slots, ", "))
}

// Unwrap позволяет errors.Is(err, ErrSlotUnavailable)
func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}
