package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetours/booking-service/internal/domain"
)

func linearTemplate() *domain.TourTemplate {
	return &domain.TourTemplate{
		ID:         1,
		Currency:   "EUR",
		BasePrice:  10000, // 100.00
		FloorPrice: 4000,  // 40.00
		MinGroup:   2,
		MaxGroup:   10,
		Curve:      domain.CurveLinear,
	}
}

func TestPrice_Linear(t *testing.T) {
	tmpl := linearTemplate()

	tests := []struct {
		name      string
		confirmed int
		want      int64
	}{
		{"empty group pays base price", 0, 10000},
		{"half-full group", 5, 7000},
		{"full group pays floor price", 10, 4000},
		{"one seat taken", 1, 9400},
		{"nine seats taken", 9, 4600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tmpl, tt.confirmed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrice_Linear_RoundsHalfUp(t *testing.T) {
	tmpl := &domain.TourTemplate{
		Currency:   "EUR",
		BasePrice:  100,
		FloorPrice: 0,
		MinGroup:   1,
		MaxGroup:   8,
		Curve:      domain.CurveLinear,
	}

	// 100 - 100*3/8 = 62.5 -> rounds up to 63
	got, err := Price(tmpl, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(63), got)
}

func TestPrice_Linear_Monotonic(t *testing.T) {
	tmpl := linearTemplate()

	prev, err := Price(tmpl, 0)
	require.NoError(t, err)
	assert.Equal(t, tmpl.BasePrice, prev)

	for c := 1; c <= tmpl.MaxGroup; c++ {
		price, err := Price(tmpl, c)
		require.NoError(t, err)
		assert.LessOrEqual(t, price, prev, "price must not increase as the group fills (count=%d)", c)
		prev = price
	}
	assert.Equal(t, tmpl.FloorPrice, prev)
}

func TestPrice_Linear_ClampsCount(t *testing.T) {
	tmpl := linearTemplate()

	below, err := Price(tmpl, -3)
	require.NoError(t, err)
	assert.Equal(t, tmpl.BasePrice, below)

	above, err := Price(tmpl, 99)
	require.NoError(t, err)
	assert.Equal(t, tmpl.FloorPrice, above)
}

func TestPrice_Stepped(t *testing.T) {
	tmpl := &domain.TourTemplate{
		Currency:   "EUR",
		BasePrice:  10000,
		FloorPrice: 5000,
		MinGroup:   1,
		MaxGroup:   12,
		Curve:      domain.CurveStepped,
		PriceTiers: []domain.PriceTier{
			{ThresholdCount: 0, Price: 10000},
			{ThresholdCount: 4, Price: 8000},
			{ThresholdCount: 8, Price: 6000},
			{ThresholdCount: 12, Price: 5000},
		},
	}

	tests := []struct {
		confirmed int
		want      int64
	}{
		{0, 10000},
		{3, 10000},
		{4, 8000},
		{7, 8000},
		{8, 6000},
		{11, 6000},
		{12, 5000},
	}

	for _, tt := range tests {
		got, err := Price(tmpl, tt.confirmed)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "confirmed=%d", tt.confirmed)
	}
}

func TestPrice_InvalidTemplate(t *testing.T) {
	tmpl := linearTemplate()
	tmpl.MaxGroup = 0

	_, err := Price(tmpl, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
}

func TestPriceWithEarlyBird_Percent(t *testing.T) {
	tmpl := linearTemplate()
	tmpl.EarlyBirdNoticeHours = 48
	tmpl.EarlyBirdDiscountType = domain.DiscountPercent
	tmpl.EarlyBirdDiscount = 10

	// curve price at 5 confirmed is 7000; minus 10% = 6300
	got, err := PriceWithEarlyBird(tmpl, 5, true)
	require.NoError(t, err)
	assert.Equal(t, int64(6300), got)

	// not early bird: plain curve price
	got, err = PriceWithEarlyBird(tmpl, 5, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), got)
}

func TestPriceWithEarlyBird_NeverBelowFloor(t *testing.T) {
	tmpl := linearTemplate()
	tmpl.EarlyBirdNoticeHours = 48
	tmpl.EarlyBirdDiscountType = domain.DiscountFixed
	tmpl.EarlyBirdDiscount = 5000

	// curve price at 9 confirmed is 4600; fixed 50.00 discount would go
	// below the floor, so the floor wins
	got, err := PriceWithEarlyBird(tmpl, 9, true)
	require.NoError(t, err)
	assert.Equal(t, tmpl.FloorPrice, got)
}

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		confirmed int
		maxGroup  int
		want      float64
	}{
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{15, 10, 100}, // clamped
	}

	for _, tt := range tests {
		got, err := ProgressPercentage(tt.confirmed, tt.maxGroup)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 0.001, "confirmed=%d max=%d", tt.confirmed, tt.maxGroup)
	}
}

func TestProgressPercentage_ZeroMaxGroup(t *testing.T) {
	_, err := ProgressPercentage(0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
}

func TestEvaluate(t *testing.T) {
	tmpl := linearTemplate()
	tmpl.EarlyBirdNoticeHours = 48
	tmpl.EarlyBirdDiscountType = domain.DiscountPercent
	tmpl.EarlyBirdDiscount = 10

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("early-bird window applies the discount", func(t *testing.T) {
		start := now.Add(72 * time.Hour)
		quote, err := Evaluate(tmpl, 5, start, now)
		require.NoError(t, err)

		assert.Equal(t, int64(6300), quote.CurrentPrice)
		assert.Equal(t, int64(4000), quote.AtFullPrice) // floor already below discount clamp
		assert.Equal(t, int64(10000), quote.BasePrice)
		assert.InDelta(t, 50.0, quote.ProgressPct, 0.001)
		assert.Equal(t, "EUR", quote.Currency)
	})

	t.Run("inside the notice window: plain curve price", func(t *testing.T) {
		start := now.Add(12 * time.Hour)
		quote, err := Evaluate(tmpl, 5, start, now)
		require.NoError(t, err)

		assert.Equal(t, int64(7000), quote.CurrentPrice)
	})
}
