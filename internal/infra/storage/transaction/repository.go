package transaction

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/dbmetrics"
	"github.com/vaidhya-health/appointment-service/pkg/psqlbuilder"
)

// Repository репозиторий финансового журнала.
// Записи создаются при успешной оплате и больше не изменяются.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория транзакций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись журнала
func (r *Repository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transactions").
		Columns(
			"appointment_id",
			"provider_id",
			"amount",
			"commission_amount",
			"provider_earnings",
			"payment_id",
			"status",
		).
		Values(
			t.AppointmentID,
			t.ProviderID,
			t.Amount,
			t.CommissionAmount,
			t.ProviderEarnings,
			t.PaymentID,
			t.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return t, nil
}

// ListByProvider получает транзакции провайдера от новых к старым
func (r *Repository) ListByProvider(ctx context.Context, providerID int64) ([]*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"provider_id",
		"amount",
		"commission_amount",
		"provider_earnings",
		"payment_id",
		"status",
		"created_at",
	).
		From("transactions").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.ID,
			&t.AppointmentID,
			&t.ProviderID,
			&t.Amount,
			&t.CommissionAmount,
			&t.ProviderEarnings,
			&t.PaymentID,
			&t.Status,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProvider - scan row: %v", ErrScanRow, err)
		}
		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - rows error: %v", ErrScanRow, err)
	}

	return transactions, nil
}
