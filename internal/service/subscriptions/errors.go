package subscriptions

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAProvider возвращается, когда подписку покупает не провайдер
	ErrNotAProvider = errors.New("only providers can purchase a subscription")

	// ErrPaymentVerificationFailed возвращается при неверной подписи платежа
	ErrPaymentVerificationFailed = errors.New("payment verification failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
