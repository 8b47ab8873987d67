package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/dbmetrics"
	"github.com/vaidhya-health/appointment-service/pkg/psqlbuilder"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// Repository репозиторий расписания провайдеров.
// Расписание нормализовано в три таблицы: рабочие дни, слоты и отпуска.
// Флаг is_booked слота меняется условным UPDATE - это точка сериализации
// конкурентных бронирований (compare-and-swap на уровне БД).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProvider загружает недельное расписание и отпуска провайдера.
// Провайдер без расписания получает пустую модель, а не ошибку.
func (r *Repository) GetByProvider(ctx context.Context, providerID int64) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayQuery, dayArgs, err := psqlbuilder.Select("weekday", "is_available").
		From("provider_working_days").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build days query: %v", ErrBuildQuery, err)
	}

	dayRows, err := executor.QueryContext(ctx, dayQuery, dayArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute days query: %v", ErrExecQuery, err)
	}
	defer dayRows.Close()

	avail := &domain.WeeklyAvailability{
		WorkingDays:        make([]domain.WorkingDay, 0),
		UnavailablePeriods: make([]domain.LeavePeriod, 0),
	}
	dayIndex := make(map[domain.Weekday]int)

	for dayRows.Next() {
		var wd domain.WorkingDay
		if err := dayRows.Scan(&wd.Day, &wd.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: GetByProvider - scan working day: %v", ErrScanRow, err)
		}
		wd.Slots = make([]domain.Slot, 0)
		dayIndex[wd.Day] = len(avail.WorkingDays)
		avail.WorkingDays = append(avail.WorkingDays, wd)
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - days rows error: %v", ErrScanRow, err)
	}

	slotQuery, slotArgs, err := psqlbuilder.Select("weekday", "start_time", "end_time", "is_booked").
		From("provider_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build slots query: %v", ErrBuildQuery, err)
	}

	slotRows, err := executor.QueryContext(ctx, slotQuery, slotArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute slots query: %v", ErrExecQuery, err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var day domain.Weekday
		var slot domain.Slot
		if err := slotRows.Scan(&day, &slot.StartTime, &slot.EndTime, &slot.IsBooked); err != nil {
			return nil, fmt.Errorf("%w: GetByProvider - scan slot: %v", ErrScanRow, err)
		}
		if idx, ok := dayIndex[day]; ok {
			avail.WorkingDays[idx].Slots = append(avail.WorkingDays[idx].Slots, slot)
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - slots rows error: %v", ErrScanRow, err)
	}

	leaveQuery, leaveArgs, err := psqlbuilder.Select("start_date", "end_date", "reason").
		From("provider_leave_periods").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build leave query: %v", ErrBuildQuery, err)
	}

	leaveRows, err := executor.QueryContext(ctx, leaveQuery, leaveArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute leave query: %v", ErrExecQuery, err)
	}
	defer leaveRows.Close()

	for leaveRows.Next() {
		var p domain.LeavePeriod
		if err := leaveRows.Scan(&p.StartDate, &p.EndDate, &p.Reason); err != nil {
			return nil, fmt.Errorf("%w: GetByProvider - scan leave period: %v", ErrScanRow, err)
		}
		avail.UnavailablePeriods = append(avail.UnavailablePeriods, p)
	}
	if err := leaveRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - leave rows error: %v", ErrScanRow, err)
	}

	return avail, nil
}

// CommitSlot помечает занятым слот, интервал которого содержит указанное
// время. Условие is_booked = false делает обновление атомарной проверкой:
// проигравший конкурентного подтверждения получает ErrSlotAlreadyBooked.
// Если подходящего слота нет вовсе (провайдер перекроил расписание после
// бронирования), операция считается no-op и ошибкой не является.
func (r *Repository) CommitSlot(ctx context.Context, providerID int64, weekday domain.Weekday, timeOfDay types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("provider_slots").
		Set("is_booked", true).
		Where(squirrel.Eq{"provider_id": providerID, "weekday": weekday}).
		Where(squirrel.LtOrEq{"start_time": timeOfDay}).
		Where(squirrel.Gt{"end_time": timeOfDay}).
		Where(squirrel.Eq{"is_booked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CommitSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CommitSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CommitSlot - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// CAS не прошел: выясняем, занят слот или его больше не существует
	existsQuery, existsArgs, err := psqlbuilder.Select("COUNT(*)").
		From("provider_slots").
		Where(squirrel.Eq{"provider_id": providerID, "weekday": weekday}).
		Where(squirrel.LtOrEq{"start_time": timeOfDay}).
		Where(squirrel.Gt{"end_time": timeOfDay}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CommitSlot - build exists query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, existsQuery, existsArgs...).Scan(&count); err != nil {
		return fmt.Errorf("%w: CommitSlot - scan exists: %v", ErrScanRow, err)
	}

	if count > 0 {
		return ErrSlotAlreadyBooked
	}

	// Слот исчез из расписания - фиксировать нечего
	return nil
}

// ReleaseSlot снимает отметку занятости со слота, содержащего указанное
// время. Идемпотентна: отсутствие подходящего слота - no-op.
func (r *Repository) ReleaseSlot(ctx context.Context, providerID int64, weekday domain.Weekday, timeOfDay types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("provider_slots").
		Set("is_booked", false).
		Where(squirrel.Eq{"provider_id": providerID, "weekday": weekday}).
		Where(squirrel.LtOrEq{"start_time": timeOfDay}).
		Where(squirrel.Gt{"end_time": timeOfDay}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseSlot - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseSlot - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Replace полностью заменяет расписание провайдера.
// Вызывающая сторона отвечает за транзакцию и за валидацию пересечений.
func (r *Repository) Replace(ctx context.Context, providerID int64, avail *domain.WeeklyAvailability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"provider_slots", "provider_working_days", "provider_leave_periods"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"provider_id": providerID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build delete query for %s: %v", ErrBuildQuery, table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute delete for %s: %v", ErrExecQuery, table, err)
		}
	}

	if len(avail.WorkingDays) > 0 {
		dayInsert := psqlbuilder.Insert("provider_working_days").
			Columns("provider_id", "weekday", "is_available")
		slotInsert := psqlbuilder.Insert("provider_slots").
			Columns("provider_id", "weekday", "start_time", "end_time", "is_booked")
		hasSlots := false

		for _, wd := range avail.WorkingDays {
			dayInsert = dayInsert.Values(providerID, wd.Day, wd.IsAvailable)
			for _, s := range wd.Slots {
				slotInsert = slotInsert.Values(providerID, wd.Day, s.StartTime, s.EndTime, s.IsBooked)
				hasSlots = true
			}
		}

		query, args, err := dayInsert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build days insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute days insert: %v", ErrExecQuery, err)
		}

		if hasSlots {
			query, args, err = slotInsert.ToSql()
			if err != nil {
				return fmt.Errorf("%w: Replace - build slots insert: %v", ErrBuildQuery, err)
			}
			if _, err := executor.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: Replace - execute slots insert: %v", ErrExecQuery, err)
			}
		}
	}

	if len(avail.UnavailablePeriods) > 0 {
		leaveInsert := psqlbuilder.Insert("provider_leave_periods").
			Columns("provider_id", "start_date", "end_date", "reason")
		for _, p := range avail.UnavailablePeriods {
			leaveInsert = leaveInsert.Values(providerID, p.StartDate, p.EndDate, p.Reason)
		}

		query, args, err := leaveInsert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Replace - build leave insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Replace - execute leave insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}
