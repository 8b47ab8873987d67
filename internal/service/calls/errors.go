package calls

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrNotACallAppointment возвращается для записей без видео/аудио модальности
	ErrNotACallAppointment = errors.New("appointment is not a video or audio consultation")

	// ErrNotJoinable возвращается, когда статус записи не позволяет звонок
	ErrNotJoinable = errors.New("appointment status does not allow a call")

	// ErrCallNotStarted возвращается при завершении незапущенного звонка
	ErrCallNotStarted = errors.New("call has not been started")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
