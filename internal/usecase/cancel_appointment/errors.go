package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда отменяет не сторона записи
	ErrAccessDenied = errors.New("cancel_appointment: access denied")

	// ErrAlreadyFinalized возвращается для завершенных и отмененных записей
	ErrAlreadyFinalized = errors.New("cancel_appointment: appointment is already finalized")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
