package razorpay

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("razorpay client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе платежного шлюза
	ErrInvalidResponse = errors.New("razorpay client: invalid response")

	// ErrOrderCreateFailed возвращается, когда шлюз отклонил создание заказа
	ErrOrderCreateFailed = errors.New("razorpay client: order creation failed")
)
