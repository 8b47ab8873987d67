package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	availabilityRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/availability"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// UseCase use case подтверждения оплаты: проверка подписи платежа,
// переход статуса и фиксация занятости слота - все в одной
// сериализуемой транзакции. Слот коммитится условным обновлением;
// проигравший гонку платеж получает компенсирующую отмену.
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	transactionRepo  TransactionRepository
	userRepo         UserRepository
	gateway          PaymentGateway
	notifier         Notifier
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	transactionRepo TransactionRepository,
	userRepo UserRepository,
	gateway PaymentGateway,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		transactionRepo:  transactionRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		notifier:         notifier,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute выполняет use case подтверждения оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: appointment=%d, customer=%d, order=%s, payment=%s",
		req.AppointmentID, req.CustomerID, req.OrderID, req.PaymentID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем запись и проверяем принадлежность заказа
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ConfirmPayment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmPayment: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appointment.CustomerID != req.CustomerID {
		uc.logger.Warn("ConfirmPayment: access denied for customer=%d to appointment id=%d",
			req.CustomerID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	if appointment.PaymentOrderID == nil || *appointment.PaymentOrderID != req.OrderID {
		uc.logger.Warn("ConfirmPayment: order=%s does not match appointment id=%d", req.OrderID, req.AppointmentID)
		return nil, ErrOrderMismatch
	}

	// Повторное подтверждение того же платежа идемпотентно
	if appointment.IsPaid {
		if appointment.PaymentID != nil && *appointment.PaymentID == req.PaymentID {
			uc.logger.Info("ConfirmPayment: appointment id=%d already paid by payment=%s", req.AppointmentID, req.PaymentID)
			return buildResponse(appointment), nil
		}
		uc.logger.Warn("ConfirmPayment: appointment id=%d already paid by a different payment", req.AppointmentID)
		return nil, ErrAlreadyFinalized
	}

	if appointment.Status.IsFinalized() {
		uc.logger.Warn("ConfirmPayment: appointment id=%d is already %s", req.AppointmentID, appointment.Status)
		return nil, ErrAlreadyFinalized
	}

	// 3. Проверяем подпись платежа. Неверная подпись отменяет запись.
	if !uc.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		uc.logger.Warn("ConfirmPayment: invalid payment signature for appointment id=%d", req.AppointmentID)
		if cancelErr := uc.appointmentRepo.Cancel(ctx, req.AppointmentID, "Payment verification failed"); cancelErr != nil {
			uc.logger.Error("ConfirmPayment: failed to cancel appointment id=%d after bad signature: %v",
				req.AppointmentID, cancelErr)
		}
		return nil, ErrPaymentVerificationFailed
	}

	// 4. Переход статуса и фиксация слота - атомарно
	paidStatus := appointment.PaidStatus()
	expected := domain.ActiveAppointmentStatuses

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.MarkPaid(txCtx, req.AppointmentID, req.PaymentID, expected, paidStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) {
				return ErrAlreadyFinalized
			}
			return fmt.Errorf("%w: failed to mark paid: %v", ErrInternal, err)
		}

		// Слот существует только у врачей; фиксируем занятость условным
		// обновлением - здесь проигрывает вторая из гонящихся оплат
		if appointment.Type == domain.TypeDoctor {
			weekday := domain.WeekdayOf(appointment.DateTime)
			timeOfDay := types.NewTimeString(appointment.DateTime)

			err := uc.availabilityRepo.CommitSlot(txCtx, appointment.ProviderID(), weekday, timeOfDay)
			if err != nil {
				if errors.Is(err, availabilityRepo.ErrSlotAlreadyBooked) {
					return ErrSlotNoLongerAvailable
				}
				return fmt.Errorf("%w: failed to commit slot: %v", ErrInternal, err)
			}
		}

		// Строка финансового журнала с разбивкой комиссии
		ledger := domain.NewTransaction(
			appointment.ID,
			appointment.ProviderID(),
			appointment.Amount,
			req.PaymentID,
			domain.DefaultCommissionPercent,
		)
		if _, err := uc.transactionRepo.Create(txCtx, ledger); err != nil {
			return fmt.Errorf("%w: failed to create transaction: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		// Проигравший гонку платеж: запись отменяется, деньги возвращает
		// вышестоящий процесс по строке журнала
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			uc.logger.Warn("ConfirmPayment: slot already taken for appointment id=%d, cancelling", req.AppointmentID)
			if cancelErr := uc.appointmentRepo.Cancel(ctx, req.AppointmentID, "Slot no longer available"); cancelErr != nil {
				uc.logger.Error("ConfirmPayment: compensating cancellation failed for appointment id=%d: %v",
					req.AppointmentID, cancelErr)
			}
			return nil, ErrSlotNoLongerAvailable
		}
		return nil, err
	}

	// 5. Уведомляем клиента, ошибки уведомления не влияют на результат
	uc.notifyCustomer(ctx, appointment, paidStatus)

	updated, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		uc.logger.Error("ConfirmPayment: failed to reload appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("ConfirmPayment: appointment id=%d is now %s, paid by %s",
		updated.ID, updated.Status, req.PaymentID)

	return buildResponse(updated), nil
}

// notifyCustomer отправляет клиенту SMS о подтверждении записи
func (uc *UseCase) notifyCustomer(ctx context.Context, appointment *domain.Appointment, status domain.AppointmentStatus) {
	customer, err := uc.userRepo.GetUser(ctx, appointment.CustomerID)
	if err != nil {
		uc.logger.Warn("ConfirmPayment: failed to load customer=%d for notification: %v", appointment.CustomerID, err)
		return
	}

	message := fmt.Sprintf("Payment received. Your appointment %s is %s for %s",
		appointment.DisplayID(), status, appointment.DateTime.Format("02 Jan 2006 15:04"))
	if err := uc.notifier.Send(ctx, customer.MobileNumber, message); err != nil {
		uc.logger.Warn("ConfirmPayment: failed to send SMS for appointment id=%d: %v", appointment.ID, err)
	}
}

// buildResponse конвертирует domain модель в ответ usecase
func buildResponse(a *domain.Appointment) *Response {
	resp := &Response{
		ID:        a.ID,
		DisplayID: a.DisplayID(),
		Status:    string(a.Status),
		IsPaid:    a.IsPaid,
		DateTime:  a.DateTime,
		Amount:    a.Amount,
		Currency:  a.Currency,
	}
	if a.PaymentID != nil {
		resp.PaymentID = *a.PaymentID
	}
	return resp
}
