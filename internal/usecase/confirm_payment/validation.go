package confirm_payment

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.OrderID == "" {
		return fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	if req.PaymentID == "" {
		return fmt.Errorf("%w: paymentID is required", ErrInvalidInput)
	}

	if req.Signature == "" {
		return fmt.Errorf("%w: signature is required", ErrInvalidInput)
	}

	return nil
}
