package get_available_slots

import (
	"context"

	availableSlots "github.com/vaidhya-health/appointment-service/internal/usecase/get_available_slots"
)

// GetAvailableSlotsUseCase use case расчета свободных слотов
type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *availableSlots.Request) (*availableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
