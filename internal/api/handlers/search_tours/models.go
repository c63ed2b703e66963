package search_tours

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sharetours/booking-service/internal/domain"
	searchTours "github.com/sharetours/booking-service/internal/usecase/search_tours"
)

// ParseFilterSpec builds a FilterSpec from the query string. List-valued
// parameters take comma-separated values; dates use YYYY-MM-DD.
func ParseFilterSpec(q url.Values) (domain.FilterSpec, error) {
	f := domain.FilterSpec{
		Cities:            splitList(q.Get("city")),
		Countries:         splitList(q.Get("country")),
		Languages:         splitList(q.Get("language")),
		TravelStyles:      splitList(q.Get("style")),
		AccessibilityTags: splitList(q.Get("accessibility")),
		SortKey:           domain.SortKey(q.Get("sort")),
	}

	var err error
	if f.DateFrom, err = parseDate(q.Get("date_from")); err != nil {
		return f, fmt.Errorf("date_from: %w", err)
	}
	if f.DateTo, err = parseDate(q.Get("date_to")); err != nil {
		return f, fmt.Errorf("date_to: %w", err)
	}
	if f.FlexDays, err = parseInt(q.Get("flex_days")); err != nil {
		return f, fmt.Errorf("flex_days: %w", err)
	}

	if v := q.Get("duration"); v != "" {
		bucket := domain.DurationBucket(v)
		f.DurationBucket = &bucket
	}
	if v := q.Get("group_size"); v != "" {
		bucket := domain.GroupSizeBucket(v)
		f.GroupSizeBucket = &bucket
	}

	if f.MinPrice, err = parseInt64Ptr(q.Get("min_price")); err != nil {
		return f, fmt.Errorf("min_price: %w", err)
	}
	if f.MaxPrice, err = parseInt64Ptr(q.Get("max_price")); err != nil {
		return f, fmt.Errorf("max_price: %w", err)
	}
	if f.PriceAtFull, err = parseBool(q.Get("price_at_full")); err != nil {
		return f, fmt.Errorf("price_at_full: %w", err)
	}

	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("min_rating: %w", err)
		}
		f.MinHostRating = &rating
	}

	if f.InstantBook, err = parseBool(q.Get("instant_book")); err != nil {
		return f, fmt.Errorf("instant_book: %w", err)
	}
	if f.DropInsOnly, err = parseBool(q.Get("drop_ins")); err != nil {
		return f, fmt.Errorf("drop_ins: %w", err)
	}
	if f.EarlyBird, err = parseBool(q.Get("early_bird")); err != nil {
		return f, fmt.Errorf("early_bird: %w", err)
	}
	if f.PayWhatYouWant, err = parseBool(q.Get("pay_what_you_want")); err != nil {
		return f, fmt.Errorf("pay_what_you_want: %w", err)
	}

	if f.Page, err = parseInt(q.Get("page")); err != nil {
		return f, fmt.Errorf("page: %w", err)
	}
	if f.PageSize, err = parseInt(q.Get("page_size")); err != nil {
		return f, fmt.Errorf("page_size: %w", err)
	}

	return f, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, v)
	if err != nil {
		return nil, fmt.Errorf("expected %s: %w", domain.DateFormat, err)
	}
	return &t, nil
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseInt64Ptr(v string) (*int64, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// TourResult one catalog entry in API shape
type TourResult struct {
	InstanceID int64  `json:"instanceId"`
	TemplateID int64  `json:"templateId"`
	Title      string `json:"title"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Category   string `json:"category"`

	Languages         []string `json:"languages,omitempty"`
	TravelStyles      []string `json:"travelStyles,omitempty"`
	AccessibilityTags []string `json:"accessibilityTags,omitempty"`

	DurationMinutes int       `json:"durationMinutes"`
	MaxGroup        int       `json:"maxGroup"`
	StartTime       time.Time `json:"startTime"`

	Currency     string `json:"currency"`
	BasePrice    int64  `json:"basePrice"`
	CurrentPrice int64  `json:"currentPrice"`
	AtFullPrice  int64  `json:"atFullPrice"`

	ProgressPct float64 `json:"progressPct"`
	SpotsLeft   int     `json:"spotsLeft"`

	InstantBook    bool `json:"instantBook"`
	PayWhatYouWant bool `json:"payWhatYouWant"`
	IsDropIn       bool `json:"isDropIn"`
	IsEarlyBird    bool `json:"isEarlyBird"`

	HostRating  float64 `json:"hostRating"`
	ReviewCount int     `json:"reviewCount"`
}

// SearchToursResponse one result page
type SearchToursResponse struct {
	Results    []TourResult `json:"results"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalCount int          `json:"totalCount"`
	TotalPages int          `json:"totalPages"`
}

// FromUseCaseResponse converts the use case response to the HTTP shape
func FromUseCaseResponse(r *searchTours.Response, now time.Time) *SearchToursResponse {
	results := make([]TourResult, 0, len(r.Results))
	for i := range r.Results {
		e := &r.Results[i]
		results = append(results, TourResult{
			InstanceID:        e.InstanceID,
			TemplateID:        e.TemplateID,
			Title:             e.Title,
			City:              e.City,
			Country:           e.Country,
			Category:          e.Category,
			Languages:         e.Languages,
			TravelStyles:      e.TravelStyles,
			AccessibilityTags: e.AccessibilityTags,
			DurationMinutes:   e.DurationMinutes,
			MaxGroup:          e.MaxGroup,
			StartTime:         e.StartTime,
			Currency:          e.Currency,
			BasePrice:         e.BasePrice,
			CurrentPrice:      e.CurrentPrice,
			AtFullPrice:       e.AtFullPrice,
			ProgressPct:       e.ProgressPct,
			SpotsLeft:         e.SpotsLeft,
			InstantBook:       e.InstantBook,
			PayWhatYouWant:    e.PayWhatYouWant,
			IsDropIn:          e.IsDropIn(now),
			IsEarlyBird:       e.IsEarlyBird(now),
			HostRating:        e.HostRating,
			ReviewCount:       e.ReviewCount,
		})
	}
	return &SearchToursResponse{
		Results:    results,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
		TotalPages: r.TotalPages,
	}
}
