package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetours/booking-service/internal/domain"
)

func newBooking() *domain.Booking {
	return &domain.Booking{
		ID:                   uuid.New(),
		TourInstanceID:       42,
		UserID:               "user-1",
		ParticipantCount:     2,
		Currency:             "EUR",
		PricePerPerson:       7000,
		TotalPrice:           14000,
		Status:               domain.StatusHeld,
		HoldToken:            uuid.New(),
		ConfirmationDeadline: time.Now().Add(15 * time.Minute),
	}
}

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := newBooking()
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(
				b.ID, b.TourInstanceID, b.UserID, b.ParticipantCount,
				b.Currency, b.PricePerPerson, b.TotalPrice, string(b.Status),
				b.HoldToken, b.ConfirmationDeadline,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		created, err := repo.Create(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, now, created.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		b := newBooking()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		_, err := repo.Create(ctx, b)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecQuery)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := newBooking()
		now := time.Now()

		mock.ExpectQuery(`SELECT .+ FROM bookings`).
			WithArgs(b.ID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				b.ID, b.TourInstanceID, b.UserID, b.ParticipantCount,
				b.Currency, b.PricePerPerson, b.TotalPrice, string(b.Status),
				b.HoldToken, now, b.ConfirmationDeadline, nil, nil,
			))

		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, int64(7000), got.PricePerPerson)
		assert.Equal(t, domain.StatusHeld, got.Status)
		assert.Nil(t, got.ConfirmedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectQuery(`SELECT .+ FROM bookings`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(bookingColumns))

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrBookingNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListExpiredHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	b := newBooking()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM bookings`).
		WithArgs(string(domain.StatusHeld), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
			b.ID, b.TourInstanceID, b.UserID, b.ParticipantCount,
			b.Currency, b.PricePerPerson, b.TotalPrice, string(b.Status),
			b.HoldToken, now, b.ConfirmationDeadline, nil, nil,
		))

	expired, err := repo.ListExpiredHeld(ctx, now, 100)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, b.ID, expired[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkConfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE bookings`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkConfirmed(ctx, id, time.Now())
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Transitioned", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE bookings`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkConfirmed(ctx, id, time.Now())
		assert.ErrorIs(t, err, ErrBookingNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	b := newBooking()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE status = \$1 ORDER BY created_at ASC`).
		WithArgs(string(domain.StatusHeld)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
			b.ID, b.TourInstanceID, b.UserID, b.ParticipantCount,
			b.Currency, b.PricePerPerson, b.TotalPrice, string(b.Status),
			b.HoldToken, now, b.ConfirmationDeadline, nil, nil,
		))

	held, err := repo.ListHeld(ctx)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, b.ID, held[0].ID)
	assert.Equal(t, b.HoldToken, held[0].HoldToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmedSeatsByInstance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT tour_instance_id, COALESCE\(SUM\(participant_count\), 0\) FROM bookings WHERE status = \$1 GROUP BY tour_instance_id`).
		WithArgs(string(domain.StatusConfirmed)).
		WillReturnRows(sqlmock.NewRows([]string{"tour_instance_id", "sum"}).
			AddRow(int64(100), 6).
			AddRow(int64(101), 2))

	seats, err := repo.ConfirmedSeatsByInstance(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{100: 6, 101: 2}, seats)

	assert.NoError(t, mock.ExpectationsWereMet())
}
