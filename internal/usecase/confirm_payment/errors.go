package confirm_payment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("confirm_payment: appointment not found")

	// ErrAccessDenied возвращается, когда оплату подтверждает не владелец записи
	ErrAccessDenied = errors.New("confirm_payment: access denied")

	// ErrOrderMismatch возвращается, когда платежный заказ не относится к записи
	ErrOrderMismatch = errors.New("confirm_payment: payment order does not belong to this appointment")

	// ErrPaymentVerificationFailed возвращается при неверной подписи платежа.
	// Запись при этом отменяется.
	ErrPaymentVerificationFailed = errors.New("confirm_payment: payment verification failed")

	// ErrSlotNoLongerAvailable возвращается, когда слот успел занять
	// конкурирующий платеж. Запись отменяется компенсирующей отменой.
	ErrSlotNoLongerAvailable = errors.New("confirm_payment: slot is no longer available")

	// ErrAlreadyFinalized возвращается для завершенных и отмененных записей
	ErrAlreadyFinalized = errors.New("confirm_payment: appointment is already finalized")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
