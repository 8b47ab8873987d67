package agora

import "errors"

var (
	// ErrNotConfigured возвращается, когда appID или сертификат не заданы
	ErrNotConfigured = errors.New("agora: app credentials are not configured")

	// ErrInvalidChannel возвращается при пустом имени канала
	ErrInvalidChannel = errors.New("agora: channel name must not be empty")
)
