package fast2sms

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("fast2sms client: internal error")

	// ErrSendFailed возвращается, когда шлюз отклонил отправку сообщения
	ErrSendFailed = errors.New("fast2sms client: message send failed")
)
