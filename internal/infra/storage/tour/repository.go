package tour

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/sharetours/booking-service/internal/domain"
	"github.com/sharetours/booking-service/pkg/dbmetrics"
	"github.com/sharetours/booking-service/pkg/psqlbuilder"
)

// Repository storage for tour templates and instances
type Repository struct {
	db DBExecutor
}

// NewRepository creates a tour repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var templateColumns = []string{
	"id",
	"title",
	"city",
	"country",
	"description",
	"media_refs",
	"category",
	"languages",
	"travel_styles",
	"accessibility_tags",
	"duration_minutes",
	"min_group",
	"max_group",
	"currency",
	"base_price",
	"floor_price",
	"curve",
	"price_tiers",
	"early_bird_notice_hours",
	"early_bird_discount_type",
	"early_bird_discount",
	"cancellation_policy",
	"instant_book",
	"pay_what_you_want",
	"pwyw_min_price",
	"host_rating",
	"review_count",
}

// CreateTemplate stores a tour template. The template must already have
// passed domain validation.
func (r *Repository) CreateTemplate(ctx context.Context, t *domain.TourTemplate) (*domain.TourTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	tiers, err := json.Marshal(t.PriceTiers)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - marshal price tiers: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("tour_templates").
		Columns(templateColumns[1:]...).
		Values(
			t.Title,
			t.City,
			t.Country,
			t.Description,
			pq.Array(t.MediaRefs),
			t.Category,
			pq.Array(t.Languages),
			pq.Array(t.TravelStyles),
			pq.Array(t.AccessibilityTags),
			t.DurationMinutes,
			t.MinGroup,
			t.MaxGroup,
			t.Currency,
			t.BasePrice,
			t.FloorPrice,
			t.Curve,
			tiers,
			t.EarlyBirdNoticeHours,
			t.EarlyBirdDiscountType,
			t.EarlyBirdDiscount,
			t.CancellationPolicy,
			t.InstantBook,
			t.PayWhatYouWant,
			t.PWYWMinPrice,
			t.HostRating,
			t.ReviewCount,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %v", ErrExecQuery, err)
	}

	return t, nil
}

// GetTemplate fetches a template by id
func (r *Repository) GetTemplate(ctx context.Context, id int64) (*domain.TourTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("tour_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplate - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.TourTemplate
	var tiers []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Title,
		&t.City,
		&t.Country,
		&t.Description,
		pq.Array(&t.MediaRefs),
		&t.Category,
		pq.Array(&t.Languages),
		pq.Array(&t.TravelStyles),
		pq.Array(&t.AccessibilityTags),
		&t.DurationMinutes,
		&t.MinGroup,
		&t.MaxGroup,
		&t.Currency,
		&t.BasePrice,
		&t.FloorPrice,
		&t.Curve,
		&tiers,
		&t.EarlyBirdNoticeHours,
		&t.EarlyBirdDiscountType,
		&t.EarlyBirdDiscount,
		&t.CancellationPolicy,
		&t.InstantBook,
		&t.PayWhatYouWant,
		&t.PWYWMinPrice,
		&t.HostRating,
		&t.ReviewCount,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplate - scan template: %v", ErrScanRow, err)
	}

	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &t.PriceTiers); err != nil {
			return nil, fmt.Errorf("%w: GetTemplate - unmarshal price tiers: %v", ErrScanRow, err)
		}
	}

	return &t, nil
}

// CreateInstance schedules a new instance of a template
func (r *Repository) CreateInstance(ctx context.Context, instance *domain.TourInstance) (*domain.TourInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tour_instances").
		Columns("template_id", "start_time", "status").
		Values(instance.TemplateID, instance.StartTime, instance.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateInstance - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&instance.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateInstance - execute insert: %v", ErrExecQuery, err)
	}

	instance.CreatedAt = createdAt.Time
	instance.UpdatedAt = updatedAt.Time

	return instance, nil
}

// GetInstance fetches an instance by id
func (r *Repository) GetInstance(ctx context.Context, id int64) (*domain.TourInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "template_id", "start_time", "status", "created_at", "updated_at",
	).
		From("tour_instances").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetInstance - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanInstance(executor.QueryRowContext(ctx, query, args...))
}

// ListOpenInstances returns every instance still accepting bookings,
// ordered by start time
func (r *Repository) ListOpenInstances(ctx context.Context) ([]*domain.TourInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "template_id", "start_time", "status", "created_at", "updated_at",
	).
		From("tour_instances").
		Where(squirrel.Eq{"status": domain.InstanceOpen}).
		OrderBy("start_time ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenInstances - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenInstances - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	instances := make([]*domain.TourInstance, 0)
	for rows.Next() {
		var instance domain.TourInstance
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&instance.ID,
			&instance.TemplateID,
			&instance.StartTime,
			&instance.Status,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListOpenInstances - scan row: %v", ErrScanRow, err)
		}

		instance.CreatedAt = createdAt.Time
		instance.UpdatedAt = updatedAt.Time
		instances = append(instances, &instance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOpenInstances - rows error: %v", ErrScanRow, err)
	}

	return instances, nil
}

// UpdateInstanceStatus moves an instance to a new lifecycle state
func (r *Repository) UpdateInstanceStatus(ctx context.Context, id int64, status domain.InstanceStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tour_instances").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateInstanceStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateInstanceStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateInstanceStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrInstanceNotFound
	}

	return nil
}

// ExpireStartedInstances closes open instances whose start time has passed.
// Returns the ids that were closed; used by the background sweeper.
func (r *Repository) ExpireStartedInstances(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tour_instances").
		Set("status", domain.InstanceClosedExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.InstanceOpen}).
		Where(squirrel.Expr("start_time <= NOW()")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireStartedInstances - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireStartedInstances - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExpireStartedInstances - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpireStartedInstances - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

func (r *Repository) scanInstance(row *sql.Row) (*domain.TourInstance, error) {
	var instance domain.TourInstance
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&instance.ID,
		&instance.TemplateID,
		&instance.StartTime,
		&instance.Status,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInstanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan instance: %v", ErrScanRow, err)
	}

	instance.CreatedAt = createdAt.Time
	instance.UpdatedAt = updatedAt.Time

	return &instance, nil
}
