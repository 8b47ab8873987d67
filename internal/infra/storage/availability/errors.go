package availability

import "errors"

var (
	// ErrSlotAlreadyBooked возвращается, когда условное обновление слота
	// не прошло из-за того, что слот уже занят другим бронированием
	ErrSlotAlreadyBooked = errors.New("availability.repository: slot already booked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
