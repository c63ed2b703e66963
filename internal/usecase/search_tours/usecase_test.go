package search_tours

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetours/booking-service/internal/domain"
)

type fakeCatalog struct {
	entries []domain.CatalogIndexEntry
}

func (f *fakeCatalog) SnapshotAll() []domain.CatalogIndexEntry {
	out := make([]domain.CatalogIndexEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func entry(id int64, mutate func(*domain.CatalogIndexEntry)) domain.CatalogIndexEntry {
	e := domain.CatalogIndexEntry{
		InstanceID:      id,
		TemplateID:      id,
		Title:           "Old town walk",
		City:            "Lisbon",
		Country:         "Portugal",
		Category:        "walking",
		Languages:       []string{"en"},
		TravelStyles:    []string{"culture"},
		DurationMinutes: 90,
		MinGroup:        4,
		MaxGroup:        10,
		StartTime:       testNow.Add(72 * time.Hour),
		Status:          domain.InstanceOpen,
		Currency:        "EUR",
		BasePrice:       10000,
		CurrentPrice:    10000,
		AtFullPrice:     4000,
		SpotsLeft:       10,
		HostRating:      4.0,
		ReviewCount:     10,
		Version:         1,
	}
	if mutate != nil {
		mutate(&e)
	}
	return e
}

func newUC(entries ...domain.CatalogIndexEntry) *UseCase {
	uc := NewUseCase(&fakeCatalog{entries: entries}, nopLogger{}, nil)
	uc.SetTimeProvider(&fixedTime{t: testNow})
	return uc
}

func search(t *testing.T, uc *UseCase, f domain.FilterSpec) *Response {
	t.Helper()
	resp, err := uc.Execute(context.Background(), &Request{Filter: f})
	require.NoError(t, err)
	return resp
}

func ids(resp *Response) []int64 {
	out := make([]int64, 0, len(resp.Results))
	for _, e := range resp.Results {
		out = append(out, e.InstanceID)
	}
	return out
}

func TestExecute_NoFilterReturnsAllOpen(t *testing.T) {
	uc := newUC(
		entry(1, nil),
		entry(2, func(e *domain.CatalogIndexEntry) { e.Status = domain.InstanceClosedFull }),
		entry(3, nil),
	)

	resp := search(t, uc, domain.FilterSpec{SortKey: domain.SortStartingSoon})
	assert.Equal(t, []int64{1, 3}, ids(resp))
	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestExecute_CityFilterIsCaseInsensitive(t *testing.T) {
	uc := newUC(
		entry(1, nil),
		entry(2, func(e *domain.CatalogIndexEntry) { e.City = "Porto" }),
	)

	resp := search(t, uc, domain.FilterSpec{Cities: []string{"lisbon"}})
	assert.Equal(t, []int64{1}, ids(resp))
}

func TestExecute_LanguagesMatchOnAnyOverlap(t *testing.T) {
	uc := newUC(
		entry(1, func(e *domain.CatalogIndexEntry) { e.Languages = []string{"en", "pt"} }),
		entry(2, func(e *domain.CatalogIndexEntry) { e.Languages = []string{"de"} }),
	)

	resp := search(t, uc, domain.FilterSpec{Languages: []string{"PT", "es"}})
	assert.Equal(t, []int64{1}, ids(resp))
}

func TestExecute_PriceFilter_CurrentVersusAtFull(t *testing.T) {
	// price(5) = 7000 on a 100/40 linear curve; at-full price is 4000
	uc := newUC(entry(1, func(e *domain.CatalogIndexEntry) {
		e.CurrentPrice = 7000
		e.ConfirmedCount = 5
	}))

	maxPrice := int64(7500)

	resp := search(t, uc, domain.FilterSpec{MaxPrice: &maxPrice})
	assert.Len(t, resp.Results, 1, "current price 7000 passes maxPrice 7500")

	resp = search(t, uc, domain.FilterSpec{MaxPrice: &maxPrice, PriceAtFull: true})
	assert.Len(t, resp.Results, 1, "at-full price 4000 passes maxPrice 7500")

	tight := int64(5000)
	resp = search(t, uc, domain.FilterSpec{MaxPrice: &tight})
	assert.Empty(t, resp.Results, "current price 7000 fails maxPrice 5000")

	resp = search(t, uc, domain.FilterSpec{MaxPrice: &tight, PriceAtFull: true})
	assert.Len(t, resp.Results, 1, "at-full price 4000 passes maxPrice 5000")
}

func TestExecute_DateRangeWithFlexDays(t *testing.T) {
	uc := newUC(
		entry(1, func(e *domain.CatalogIndexEntry) { e.StartTime = testNow.Add(24 * time.Hour) }),
		entry(2, func(e *domain.CatalogIndexEntry) { e.StartTime = testNow.Add(10 * 24 * time.Hour) }),
	)

	from := testNow.Add(8 * 24 * time.Hour)
	to := testNow.Add(12 * 24 * time.Hour)

	resp := search(t, uc, domain.FilterSpec{DateFrom: &from, DateTo: &to})
	assert.Equal(t, []int64{2}, ids(resp))

	// 7 flexible days widen the window enough to pick up the near one
	resp = search(t, uc, domain.FilterSpec{DateFrom: &from, DateTo: &to, FlexDays: 7})
	assert.ElementsMatch(t, []int64{1, 2}, ids(resp))
}

func TestExecute_Buckets(t *testing.T) {
	uc := newUC(
		entry(1, func(e *domain.CatalogIndexEntry) { e.DurationMinutes = 90; e.MaxGroup = 4 }),
		entry(2, func(e *domain.CatalogIndexEntry) { e.DurationMinutes = 240; e.MaxGroup = 10 }),
		entry(3, func(e *domain.CatalogIndexEntry) { e.DurationMinutes = 480; e.MaxGroup = 20 }),
	)

	short := domain.DurationShort
	resp := search(t, uc, domain.FilterSpec{DurationBucket: &short})
	assert.Equal(t, []int64{1}, ids(resp))

	social := domain.GroupSocial
	resp = search(t, uc, domain.FilterSpec{GroupSizeBucket: &social})
	assert.Equal(t, []int64{2}, ids(resp))
}

func TestExecute_Flags(t *testing.T) {
	uc := newUC(
		entry(1, func(e *domain.CatalogIndexEntry) { e.InstantBook = true }),
		entry(2, func(e *domain.CatalogIndexEntry) { e.StartTime = testNow.Add(time.Hour) }),
		entry(3, func(e *domain.CatalogIndexEntry) { e.EarlyBirdNoticeHours = 48 }),
		entry(4, func(e *domain.CatalogIndexEntry) { e.PayWhatYouWant = true }),
	)

	resp := search(t, uc, domain.FilterSpec{InstantBook: true})
	assert.Equal(t, []int64{1}, ids(resp))

	resp = search(t, uc, domain.FilterSpec{DropInsOnly: true})
	assert.Equal(t, []int64{2}, ids(resp))

	resp = search(t, uc, domain.FilterSpec{EarlyBird: true})
	assert.Equal(t, []int64{3}, ids(resp))

	resp = search(t, uc, domain.FilterSpec{PayWhatYouWant: true})
	assert.Equal(t, []int64{4}, ids(resp))
}

func TestExecute_MinHostRating(t *testing.T) {
	uc := newUC(
		entry(1, func(e *domain.CatalogIndexEntry) { e.HostRating = 4.8 }),
		entry(2, func(e *domain.CatalogIndexEntry) { e.HostRating = 3.2 }),
	)

	min := 4.5
	resp := search(t, uc, domain.FilterSpec{MinHostRating: &min})
	assert.Equal(t, []int64{1}, ids(resp))
}

func TestExecute_SortOrders(t *testing.T) {
	uc := newUC(
		entry(1, func(e *domain.CatalogIndexEntry) {
			e.CurrentPrice = 7000
			e.SpotsLeft = 2
			e.StartTime = testNow.Add(48 * time.Hour)
			e.HostRating = 4.5
			e.ReviewCount = 30
			e.ProgressPct = 80
		}),
		entry(2, func(e *domain.CatalogIndexEntry) {
			e.CurrentPrice = 5000
			e.SpotsLeft = 8
			e.StartTime = testNow.Add(24 * time.Hour)
			e.HostRating = 4.5
			e.ReviewCount = 50
			e.ProgressPct = 20
		}),
		entry(3, func(e *domain.CatalogIndexEntry) {
			e.CurrentPrice = 7000
			e.SpotsLeft = 5
			e.StartTime = testNow.Add(24 * time.Hour)
			e.HostRating = 3.0
			e.ReviewCount = 5
			e.ProgressPct = 50
		}),
	)

	tests := []struct {
		key  domain.SortKey
		want []int64
	}{
		// equal prices tie-break on the earlier start
		{domain.SortPriceLow, []int64{2, 3, 1}},
		{domain.SortPriceHigh, []int64{3, 1, 2}},
		{domain.SortSpotsLeft, []int64{1, 3, 2}},
		// equal start times tie-break on id
		{domain.SortStartingSoon, []int64{2, 3, 1}},
		// equal ratings tie-break on review count
		{domain.SortRating, []int64{2, 1, 3}},
		// 80+45=125 beats 20+45=65 beats 50+30=80
		{domain.SortCompatible, []int64{1, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			resp := search(t, uc, domain.FilterSpec{SortKey: tt.key})
			assert.Equal(t, tt.want, ids(resp))
		})
	}
}

func TestExecute_Pagination(t *testing.T) {
	entries := make([]domain.CatalogIndexEntry, 0, 7)
	for i := int64(1); i <= 7; i++ {
		entries = append(entries, entry(i, nil))
	}
	uc := newUC(entries...)

	resp := search(t, uc, domain.FilterSpec{SortKey: domain.SortStartingSoon, Page: 1, PageSize: 3})
	assert.Equal(t, []int64{1, 2, 3}, ids(resp))
	assert.Equal(t, 7, resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)

	resp = search(t, uc, domain.FilterSpec{SortKey: domain.SortStartingSoon, Page: 3, PageSize: 3})
	assert.Equal(t, []int64{7}, ids(resp), "last page holds the remainder")

	resp = search(t, uc, domain.FilterSpec{SortKey: domain.SortStartingSoon, Page: 5, PageSize: 3})
	assert.Empty(t, resp.Results, "page beyond the end is empty, not an error")
	assert.Equal(t, 7, resp.TotalCount)
}

func TestExecute_PaginationIsStable(t *testing.T) {
	entries := make([]domain.CatalogIndexEntry, 0, 23)
	for i := int64(1); i <= 23; i++ {
		i := i
		entries = append(entries, entry(i, func(e *domain.CatalogIndexEntry) {
			// plenty of ties to stress the tie-break chain
			e.CurrentPrice = 5000 + (i%3)*1000
			e.StartTime = testNow.Add(time.Duration(i%4) * 24 * time.Hour)
		}))
	}
	uc := newUC(entries...)

	seen := map[int64]bool{}
	first := search(t, uc, domain.FilterSpec{SortKey: domain.SortPriceLow, Page: 1, PageSize: 5})
	for page := 1; page <= first.TotalPages; page++ {
		resp := search(t, uc, domain.FilterSpec{SortKey: domain.SortPriceLow, Page: page, PageSize: 5})
		for _, id := range ids(resp) {
			assert.False(t, seen[id], "no entry may appear on two pages")
			seen[id] = true
		}
	}
	assert.Len(t, seen, 23, "all entries appear exactly once across the pages")
}

func TestExecute_DefaultsApplied(t *testing.T) {
	uc := newUC(entry(1, nil))

	resp := search(t, uc, domain.FilterSpec{})
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, domain.DefaultPageSize, resp.PageSize)
}

func TestExecute_InvalidFilters(t *testing.T) {
	uc := newUC(entry(1, nil))

	minPrice, maxPrice := int64(9000), int64(1000)
	badBucket := domain.DurationBucket("epic")
	from := testNow.Add(48 * time.Hour)
	to := testNow.Add(24 * time.Hour)

	tests := []struct {
		name   string
		filter domain.FilterSpec
	}{
		{"unknown sort key", domain.FilterSpec{SortKey: "magic"}},
		{"negative page", domain.FilterSpec{Page: -1}},
		{"inverted price range", domain.FilterSpec{MinPrice: &minPrice, MaxPrice: &maxPrice}},
		{"unknown duration bucket", domain.FilterSpec{DurationBucket: &badBucket}},
		{"inverted date range", domain.FilterSpec{DateFrom: &from, DateTo: &to}},
		{"negative flex days", domain.FilterSpec{FlexDays: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{Filter: tt.filter})
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}
