package request_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetours/booking-service/internal/domain"
	tourRepo "github.com/sharetours/booking-service/internal/infra/storage/tour"
	ledgerPkg "github.com/sharetours/booking-service/internal/ledger"
)

type fakeTours struct {
	instances map[int64]*domain.TourInstance
	templates map[int64]*domain.TourTemplate
}

func (f *fakeTours) GetInstance(_ context.Context, id int64) (*domain.TourInstance, error) {
	inst, ok := f.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: id = %d", tourRepo.ErrInstanceNotFound, id)
	}
	return inst, nil
}

func (f *fakeTours) GetTemplate(_ context.Context, id int64) (*domain.TourTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: id = %d", tourRepo.ErrTemplateNotFound, id)
	}
	return t, nil
}

type fakeBookings struct {
	mu      sync.Mutex
	created []*domain.Booking
	failing bool
}

func (f *fakeBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errors.New("db down")
	}
	out := *b
	out.CreatedAt = time.Now()
	f.created = append(f.created, &out)
	return &out, nil
}

// conflictLedger always reports a version conflict on TryHold
type conflictLedger struct {
	inner *ledgerPkg.Ledger
	tries int
}

func (c *conflictLedger) Snapshot(id int64) (ledgerPkg.Snapshot, error) {
	return c.inner.Snapshot(id)
}

func (c *conflictLedger) TryHold(int64, int, int64, time.Duration) (ledgerPkg.HoldToken, error) {
	c.tries++
	return ledgerPkg.HoldToken{}, ledgerPkg.ErrVersionConflict
}

func (c *conflictLedger) Release(tokenID uuid.UUID) error {
	return c.inner.Release(tokenID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

func linearTemplate() *domain.TourTemplate {
	return &domain.TourTemplate{
		ID:         1,
		Title:      "Old town walk",
		MinGroup:   4,
		MaxGroup:   10,
		Currency:   "EUR",
		BasePrice:  10000,
		FloorPrice: 4000,
		Curve:      domain.CurveLinear,
	}
}

type env struct {
	uc       *UseCase
	tours    *fakeTours
	bookings *fakeBookings
	ledger   *ledgerPkg.Ledger
	now      time.Time
}

func newEnv(t *testing.T, template *domain.TourTemplate, confirmed int) *env {
	t.Helper()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tours := &fakeTours{
		instances: map[int64]*domain.TourInstance{
			100: {ID: 100, TemplateID: template.ID, StartTime: now.Add(72 * time.Hour), Status: domain.InstanceOpen},
		},
		templates: map[int64]*domain.TourTemplate{template.ID: template},
	}
	bookings := &fakeBookings{}
	led := ledgerPkg.New()
	led.Register(100, template.MaxGroup, confirmed)

	uc := NewUseCase(tours, bookings, led, nopLogger{}, nil, 15*time.Minute, 3)
	uc.SetTimeProvider(&fixedTime{t: now})

	return &env{uc: uc, tours: tours, bookings: bookings, ledger: led, now: now}
}

func TestExecute_Success(t *testing.T) {
	e := newEnv(t, linearTemplate(), 5)

	resp, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 2,
	})
	require.NoError(t, err)

	// priced at the pre-booking confirmed count of 5
	assert.Equal(t, int64(7000), resp.PricePerPerson)
	assert.Equal(t, int64(14000), resp.TotalPrice)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, string(domain.StatusHeld), resp.Status)
	assert.Equal(t, e.now.Add(15*time.Minute), resp.ConfirmationDeadline)
	assert.Equal(t, 3, resp.SpotsLeft)

	require.Len(t, e.bookings.created, 1)
	b := e.bookings.created[0]
	assert.Equal(t, "user-1", b.UserID)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.NotEqual(t, uuid.Nil, b.HoldToken)

	snap, err := e.ledger.Snapshot(100)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.ConfirmedCount)
	assert.Equal(t, 2, snap.HeldCount)
}

func TestExecute_ValidationErrors(t *testing.T) {
	e := newEnv(t, linearTemplate(), 0)

	tests := []struct {
		name string
		req  *Request
	}{
		{"missing user", &Request{TourInstanceID: 100, ParticipantCount: 1}},
		{"bad instance id", &Request{UserID: "u", TourInstanceID: 0, ParticipantCount: 1}},
		{"zero participants", &Request{UserID: "u", TourInstanceID: 100, ParticipantCount: 0}},
		{"too many participants", &Request{UserID: "u", TourInstanceID: 100, ParticipantCount: domain.MaxParticipantsPerBooking + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_InstanceNotFound(t *testing.T) {
	e := newEnv(t, linearTemplate(), 0)

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   999,
		ParticipantCount: 1,
	})
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestExecute_InstanceNotOpen(t *testing.T) {
	e := newEnv(t, linearTemplate(), 0)
	e.tours.instances[100].Status = domain.InstanceCancelled

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 1,
	})
	assert.ErrorIs(t, err, ErrInstanceNotOpen)
}

func TestExecute_ClosedFullMapsToSoldOut(t *testing.T) {
	e := newEnv(t, linearTemplate(), 10)
	e.tours.instances[100].Status = domain.InstanceClosedFull

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 1,
	})
	require.ErrorIs(t, err, ErrSoldOut)

	var soldOut *SoldOutError
	require.ErrorAs(t, err, &soldOut)
	assert.Equal(t, 0, soldOut.SpotsLeft)
}

func TestExecute_SoldOutCarriesSpotsLeft(t *testing.T) {
	e := newEnv(t, linearTemplate(), 8)

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 4,
	})
	require.ErrorIs(t, err, ErrSoldOut)

	var soldOut *SoldOutError
	require.ErrorAs(t, err, &soldOut)
	assert.Equal(t, 2, soldOut.SpotsLeft)
	assert.Equal(t, 4, soldOut.Requested)
}

func TestExecute_ContentionExhaustsRetries(t *testing.T) {
	e := newEnv(t, linearTemplate(), 0)
	conflicting := &conflictLedger{inner: e.ledger}
	uc := NewUseCase(e.tours, e.bookings, conflicting, nopLogger{}, nil, 15*time.Minute, 3)
	uc.SetTimeProvider(&fixedTime{t: e.now})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 1,
	})
	assert.ErrorIs(t, err, ErrContention)
	assert.Equal(t, 3, conflicting.tries)
}

func TestExecute_PayWhatYouWant(t *testing.T) {
	template := linearTemplate()
	template.PayWhatYouWant = true
	template.PWYWMinPrice = 1500

	t.Run("missing amount", func(t *testing.T) {
		e := newEnv(t, template, 0)
		_, err := e.uc.Execute(context.Background(), &Request{
			UserID:           "user-1",
			TourInstanceID:   100,
			ParticipantCount: 1,
		})
		assert.ErrorIs(t, err, ErrPriceRequired)
	})

	t.Run("below minimum", func(t *testing.T) {
		e := newEnv(t, template, 0)
		amount := int64(1000)
		_, err := e.uc.Execute(context.Background(), &Request{
			UserID:               "user-1",
			TourInstanceID:       100,
			ParticipantCount:     1,
			PayWhatYouWantAmount: &amount,
		})
		assert.ErrorIs(t, err, ErrPriceBelowMinimum)
	})

	t.Run("accepted amount bypasses the curve", func(t *testing.T) {
		e := newEnv(t, template, 5)
		amount := int64(2500)
		resp, err := e.uc.Execute(context.Background(), &Request{
			UserID:               "user-1",
			TourInstanceID:       100,
			ParticipantCount:     2,
			PayWhatYouWantAmount: &amount,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2500), resp.PricePerPerson)
		assert.Equal(t, int64(5000), resp.TotalPrice)
	})
}

func TestExecute_EarlyBirdDiscountApplied(t *testing.T) {
	template := linearTemplate()
	template.EarlyBirdNoticeHours = 48
	template.EarlyBirdDiscountType = domain.DiscountPercent
	template.EarlyBirdDiscount = 10

	e := newEnv(t, template, 5) // curve price 7000, instance starts in 72h

	resp, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6300), resp.PricePerPerson)
}

func TestExecute_PersistFailureReleasesHold(t *testing.T) {
	e := newEnv(t, linearTemplate(), 0)
	e.bookings.failing = true

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:           "user-1",
		TourInstanceID:   100,
		ParticipantCount: 3,
	})
	require.ErrorIs(t, err, ErrInternal)

	snap, err := e.ledger.Snapshot(100)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.HeldCount, "failed persistence must not leak held seats")
}

func TestExecute_NoOversellUnderConcurrency(t *testing.T) {
	e := newEnv(t, linearTemplate(), 0) // maxGroup 10
	workers := 18

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.uc.Execute(context.Background(), &Request{
				UserID:           fmt.Sprintf("user-%d", i),
				TourInstanceID:   100,
				ParticipantCount: 1,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, ErrSoldOut) && !errors.Is(err, ErrContention) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap, err := e.ledger.Snapshot(100)
	require.NoError(t, err)
	assert.Equal(t, succeeded, snap.HeldCount)
	assert.LessOrEqual(t, snap.ConfirmedCount+snap.HeldCount, 10, "held seats must never exceed capacity")
	assert.Len(t, e.bookings.created, succeeded)
}

func TestExecute_SingleSeatRace(t *testing.T) {
	template := linearTemplate()
	template.MinGroup = 1
	template.MaxGroup = 1

	for round := 0; round < 20; round++ {
		e := newEnv(t, template, 0)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = e.uc.Execute(context.Background(), &Request{
					UserID:           fmt.Sprintf("user-%d", i),
					TourInstanceID:   100,
					ParticipantCount: 1,
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
			} else if !errors.Is(err, ErrSoldOut) && !errors.Is(err, ErrContention) {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.LessOrEqual(t, succeeded, 1, "at most one booking may win the last seat")
		assert.Len(t, e.bookings.created, succeeded)
	}
}
