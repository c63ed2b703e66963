package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
	"github.com/sharetours/booking-service/pkg/dbmetrics"
	"github.com/sharetours/booking-service/pkg/psqlbuilder"
)

// Repository storage for bookings
type Repository struct {
	db DBExecutor
}

// NewRepository creates a booking repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"tour_instance_id",
	"user_id",
	"participant_count",
	"currency",
	"price_per_person",
	"total_price",
	"status",
	"hold_token",
	"created_at",
	"confirmation_deadline",
	"confirmed_at",
	"cancelled_at",
}

// Create persists a new booking (normally in HELD state)
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"tour_instance_id",
			"user_id",
			"participant_count",
			"currency",
			"price_per_person",
			"total_price",
			"status",
			"hold_token",
			"confirmation_deadline",
		).
		Values(
			b.ID,
			b.TourInstanceID,
			b.UserID,
			b.ParticipantCount,
			b.Currency,
			b.PricePerPerson,
			b.TotalPrice,
			b.Status,
			b.HoldToken,
			b.ConfirmationDeadline,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time

	return b, nil
}

// GetByID fetches a booking by id
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByUserID returns a user's bookings, newest first.
// Optionally filters by status.
func (r *Repository) GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC, id ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListExpiredHeld returns held bookings whose confirmation deadline has
// passed. Limit bounds the batch the sweeper processes per tick.
func (r *Repository) ListExpiredHeld(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusHeld}).
		Where(squirrel.Lt{"confirmation_deadline": now}).
		OrderBy("confirmation_deadline ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHeld - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHeld - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListHeld returns all bookings currently in HELD state, used to restore
// ledger holds after a restart
func (r *Repository) ListHeld(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusHeld}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHeld - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHeld - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ConfirmedSeatsByInstance sums confirmed participant counts per tour
// instance, used to seed the ledger from storage at startup
func (r *Repository) ConfirmedSeatsByInstance(ctx context.Context) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("tour_instance_id", "COALESCE(SUM(participant_count), 0)").
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		GroupBy("tour_instance_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ConfirmedSeatsByInstance - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ConfirmedSeatsByInstance - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var instanceID int64
		var seats int
		if err := rows.Scan(&instanceID, &seats); err != nil {
			return nil, fmt.Errorf("%w: ConfirmedSeatsByInstance - scan row: %v", ErrScanRow, err)
		}
		out[instanceID] = seats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ConfirmedSeatsByInstance - iterate rows: %v", ErrExecQuery, err)
	}

	return out, nil
}

// MarkConfirmed transitions a held booking to CONFIRMED.
// The status guard makes racing confirmations settle on one winner.
func (r *Repository) MarkConfirmed(ctx context.Context, id uuid.UUID, confirmedAt time.Time) error {
	return r.transition(ctx, "MarkConfirmed", id, domain.StatusHeld, squirrel.Eq{
		"status":       domain.StatusConfirmed,
		"confirmed_at": confirmedAt,
	})
}

// MarkExpired transitions a held booking to EXPIRED
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, "MarkExpired", id, domain.StatusHeld, squirrel.Eq{
		"status": domain.StatusExpired,
	})
}

// MarkCancelled transitions a booking to CANCELLED from the given state
func (r *Repository) MarkCancelled(ctx context.Context, id uuid.UUID, from domain.BookingStatus, cancelledAt time.Time) error {
	return r.transition(ctx, "MarkCancelled", id, from, squirrel.Eq{
		"status":       domain.StatusCancelled,
		"cancelled_at": cancelledAt,
	})
}

// transition performs a guarded status update: the row must currently be in
// the expected state or the update affects no rows.
func (r *Repository) transition(ctx context.Context, op string, id uuid.UUID, from domain.BookingStatus, set squirrel.Eq) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Where(squirrel.Eq{"id": id, "status": from})
	for column, value := range set {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
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
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt sql.NullTime
	var confirmedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.TourInstanceID,
		&b.UserID,
		&b.ParticipantCount,
		&b.Currency,
		&b.PricePerPerson,
		&b.TotalPrice,
		&b.Status,
		&b.HoldToken,
		&createdAt,
		&b.ConfirmationDeadline,
		&confirmedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
