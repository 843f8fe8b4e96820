package series

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/psqlbuilder"
)

const (
	seriesTable      = "recurring_series"
	occurrencesTable = "series_occurrences"
)

var seriesColumns = []string{
	"id",
	"resource_id",
	"duration_option_id",
	"weekday",
	"start_time",
	"horizon_weeks",
	"series_start",
	"series_end",
	"is_active",
	"last_generated_date",
	"customer_name",
	"customer_phone",
	"customer_email",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил повторяющихся серий и журнала их вхождений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория серий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет правило серии
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, s *domain.RecurringSeries) (*domain.RecurringSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(seriesTable).
		Columns(
			"resource_id",
			"duration_option_id",
			"weekday",
			"start_time",
			"horizon_weeks",
			"series_start",
			"series_end",
			"is_active",
			"customer_name",
			"customer_phone",
			"customer_email",
		).
		Values(
			s.ResourceID,
			s.DurationOptionID,
			int(s.Weekday),
			s.StartTime,
			s.HorizonWeeks,
			s.SeriesStart,
			s.SeriesEnd,
			s.IsActive,
			s.Customer.Name,
			s.Customer.Phone,
			s.Customer.Email,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает серию по ID. Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurringSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(seriesColumns...).
		From(seriesTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSeries(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan series: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListActive активные серии для продления горизонта
func (r *Repository) ListActive(ctx context.Context) ([]*domain.RecurringSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(seriesColumns...).
		From(seriesTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.RecurringSeries, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan series: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Deactivate логическое удаление серии
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	return r.update(ctx, "Deactivate", id, map[string]interface{}{
		"is_active": false,
	})
}

// UpdateSeriesEnd меняет дату окончания серии
func (r *Repository) UpdateSeriesEnd(ctx context.Context, id int64, seriesEnd time.Time) error {
	return r.update(ctx, "UpdateSeriesEnd", id, map[string]interface{}{
		"series_end": seriesEnd,
	})
}

// MarkGenerated запоминает последнюю обработанную дату серии
func (r *Repository) MarkGenerated(ctx context.Context, id int64, date time.Time) error {
	return r.update(ctx, "MarkGenerated", id, map[string]interface{}{
		"last_generated_date": date,
	})
}

// RecordOccurrence записывает результат генерации даты. Повторная запись той же даты игнорируется.
func (r *Repository) RecordOccurrence(ctx context.Context, o domain.SeriesOccurrence) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(occurrencesTable).
		Columns("series_id", "occurrence_date", "outcome", "reservation_id", "reason").
		Values(o.SeriesID, o.Date, string(o.Outcome), o.ReservationID, o.Reason).
		Suffix("ON CONFLICT (series_id, occurrence_date) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordOccurrence - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RecordOccurrence - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListOccurrences журнал вхождений серии по возрастанию даты
func (r *Repository) ListOccurrences(ctx context.Context, seriesID int64) ([]domain.SeriesOccurrence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("series_id", "occurrence_date", "outcome", "reservation_id", "reason").
		From(occurrencesTable).
		Where(squirrel.Eq{"series_id": seriesID}).
		OrderBy("occurrence_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOccurrences - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccurrences - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.SeriesOccurrence, 0)
	for rows.Next() {
		var (
			o             domain.SeriesOccurrence
			outcome       string
			reservationID sql.NullInt64
		)
		if err := rows.Scan(&o.SeriesID, &o.Date, &outcome, &reservationID, &o.Reason); err != nil {
			return nil, fmt.Errorf("%w: ListOccurrences - scan occurrence: %v", ErrScanRow, err)
		}
		o.Outcome = domain.OccurrenceOutcome(outcome)
		if reservationID.Valid {
			id := reservationID.Int64
			o.ReservationID = &id
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOccurrences - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) update(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(seriesTable).
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSeriesNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeries(row rowScanner) (*domain.RecurringSeries, error) {
	var (
		s             domain.RecurringSeries
		weekday       int
		seriesEnd     sql.NullTime
		lastGenerated sql.NullTime
		email         sql.NullString
	)

	err := row.Scan(
		&s.ID,
		&s.ResourceID,
		&s.DurationOptionID,
		&weekday,
		&s.StartTime,
		&s.HorizonWeeks,
		&s.SeriesStart,
		&seriesEnd,
		&s.IsActive,
		&lastGenerated,
		&s.Customer.Name,
		&s.Customer.Phone,
		&email,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Weekday = time.Weekday(weekday)
	s.Customer.Email = email.String
	if seriesEnd.Valid {
		end := seriesEnd.Time
		s.SeriesEnd = &end
	}
	if lastGenerated.Valid {
		last := lastGenerated.Time
		s.LastGeneratedDate = &last
	}

	return &s, nil
}
