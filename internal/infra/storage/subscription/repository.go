package subscription

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/dbmetrics"
	"github.com/vaidhya-health/appointment-service/pkg/psqlbuilder"
)

// Repository репозиторий покупок подписки провайдеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет покупку подписки
func (r *Repository) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("subscriptions").
		Columns(
			"user_id",
			"order_id",
			"payment_id",
			"amount",
			"status",
			"start_date",
			"end_date",
		).
		Values(
			s.UserID,
			s.OrderID,
			s.PaymentID,
			s.Amount,
			s.Status,
			s.StartDate,
			s.EndDate,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetLatestByUser получает последнюю покупку подписки пользователя
func (r *Repository) GetLatestByUser(ctx context.Context, userID int64) (*domain.Subscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"order_id",
		"payment_id",
		"amount",
		"status",
		"start_date",
		"end_date",
		"created_at",
	).
		From("subscriptions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestByUser - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Subscription
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.UserID,
		&s.OrderID,
		&s.PaymentID,
		&s.Amount,
		&s.Status,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestByUser - scan row: %v", ErrScanRow, err)
	}

	return &s, nil
}
