package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
	"github.com/vaidhya-health/appointment-service/internal/service/subscriptions/models"
)

// Service сервис подписок провайдеров.
// Подписка открывает провайдеру прием бронирований и управление
// собственными листингами на год вперед.
type Service struct {
	subscriptionRepo SubscriptionRepository
	userRepo         UserRepository
	gateway          PaymentGateway
	txManager        TransactionManager
	timeProvider     TimeProvider
	keyID            string
	logger           Logger
}

// NewService создает новый экземпляр сервиса подписок
func NewService(
	subscriptionRepo SubscriptionRepository,
	userRepo UserRepository,
	gateway PaymentGateway,
	txManager TransactionManager,
	timeProvider TimeProvider,
	keyID string,
	logger Logger,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		txManager:        txManager,
		timeProvider:     timeProvider,
		keyID:            keyID,
		logger:           logger,
	}
}

// CreateOrder создает платежный заказ на годовую подписку
func (s *Service) CreateOrder(ctx context.Context, userID int64) (*models.SubscriptionOrderResponse, error) {
	s.logger.Info("CreateOrder: creating subscription order for user=%d", userID)

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("CreateOrder: user=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("CreateOrder: failed to load user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: CreateOrder - failed to load user: %v", ErrInternal, err)
	}

	if !user.Role.IsProvider() {
		s.logger.Warn("CreateOrder: user=%d has role=%s, not a provider", userID, user.Role)
		return nil, ErrNotAProvider
	}

	receipt := fmt.Sprintf("sub_%d", userID)
	amountPaise := int64(domain.SubscriptionAmount * domain.PaisePerRupee)

	order, err := s.gateway.CreateOrder(ctx, amountPaise, domain.DefaultCurrency, receipt)
	if err != nil {
		s.logger.Error("CreateOrder: gateway error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: CreateOrder - gateway error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOrder: created order=%s for user=%d", order.ID, userID)
	return &models.SubscriptionOrderResponse{
		OrderID:  order.ID,
		Amount:   domain.SubscriptionAmount,
		Currency: order.Currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyAndActivate проверяет подпись платежа и активирует подписку на год
func (s *Service) VerifyAndActivate(ctx context.Context, req *models.VerifySubscriptionRequest) (*models.SubscriptionResponse, error) {
	s.logger.Info("VerifyAndActivate: verifying subscription payment for user=%d, order=%s", req.UserID, req.OrderID)

	user, err := s.userRepo.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("VerifyAndActivate: user=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("VerifyAndActivate: failed to load user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: VerifyAndActivate - failed to load user: %v", ErrInternal, err)
	}
	if !user.Role.IsProvider() {
		s.logger.Warn("VerifyAndActivate: user=%d has role=%s, not a provider", req.UserID, user.Role)
		return nil, ErrNotAProvider
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.logger.Warn("VerifyAndActivate: invalid payment signature for user=%d, order=%s", req.UserID, req.OrderID)
		return nil, ErrPaymentVerificationFailed
	}

	now := s.timeProvider.Now()
	subscription := &domain.Subscription{
		UserID:    req.UserID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Amount:    domain.SubscriptionAmount,
		Status:    domain.SubscriptionCompleted,
		StartDate: now,
		EndDate:   now.AddDate(domain.SubscriptionYears, 0, 0),
	}

	// Запись покупки и активация флага на пользователе - атомарно
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
			return err
		}
		return s.userRepo.ActivateSubscription(ctx, req.UserID, subscription.EndDate)
	})
	if err != nil {
		s.logger.Error("VerifyAndActivate: failed to activate subscription for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: VerifyAndActivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("VerifyAndActivate: subscription active for user=%d until %s",
		req.UserID, subscription.EndDate.Format(domain.DateFormat))
	return models.FromDomainSubscription(subscription), nil
}
