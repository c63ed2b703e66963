package tour

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetours/booking-service/internal/domain"
)

var instanceCols = []string{"id", "template_id", "start_time", "status", "created_at", "updated_at"}

func TestGetInstance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT .+ FROM tour_instances WHERE id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(instanceCols).
				AddRow(int64(100), int64(1), start, "open", start.Add(-time.Hour), start.Add(-time.Hour)))

		instance, err := repo.GetInstance(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), instance.ID)
		assert.Equal(t, int64(1), instance.TemplateID)
		assert.Equal(t, domain.InstanceOpen, instance.Status)
		assert.Equal(t, start, instance.StartTime)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM tour_instances WHERE id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(instanceCols))

		_, err := repo.GetInstance(ctx, 999)
		assert.ErrorIs(t, err, ErrInstanceNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTemplate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(templateColumns).AddRow(
			int64(1), "Old town walk", "Lisbon", "Portugal", "A walk", "{}",
			"walking", "{en,pt}", "{culture}", "{step_free}",
			90, 4, 10,
			"EUR", int64(10000), int64(4000), "stepped",
			[]byte(`[{"ThresholdCount":0,"Price":10000},{"ThresholdCount":5,"Price":7000}]`),
			48, "percent", int64(10),
			"standard", true, false, int64(0),
			4.7, 120,
		)

		mock.ExpectQuery(`SELECT .+ FROM tour_templates WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		template, err := repo.GetTemplate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Old town walk", template.Title)
		assert.Equal(t, []string{"en", "pt"}, template.Languages)
		assert.Equal(t, domain.CurveStepped, template.Curve)
		require.Len(t, template.PriceTiers, 2)
		assert.Equal(t, 5, template.PriceTiers[1].ThresholdCount)
		assert.Equal(t, int64(7000), template.PriceTiers[1].Price)
		assert.Equal(t, domain.PolicyStandard, template.CancellationPolicy)
		assert.True(t, template.InstantBook)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM tour_templates WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(templateColumns))

		_, err := repo.GetTemplate(ctx, 404)
		assert.ErrorIs(t, err, ErrTemplateNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListOpenInstances(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM tour_instances WHERE status = \$1 ORDER BY start_time ASC, id ASC`).
		WithArgs("open").
		WillReturnRows(sqlmock.NewRows(instanceCols).
			AddRow(int64(1), int64(1), start, "open", start, start).
			AddRow(int64(2), int64(1), start.Add(time.Hour), "open", start, start))

	instances, err := repo.ListOpenInstances(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, int64(1), instances[0].ID)
	assert.Equal(t, int64(2), instances[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInstanceStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tour_instances SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs("closed_full", int64(100)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateInstanceStatus(ctx, 100, domain.InstanceClosedFull)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tour_instances`).
			WithArgs("cancelled", int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateInstanceStatus(ctx, 999, domain.InstanceCancelled)
		assert.ErrorIs(t, err, ErrInstanceNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tour_instances`).
			WithArgs("cancelled", int64(100)).
			WillReturnError(fmt.Errorf("connection refused"))

		err := repo.UpdateInstanceStatus(ctx, 100, domain.InstanceCancelled)
		assert.ErrorIs(t, err, ErrExecQuery)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExpireStartedInstances(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`UPDATE tour_instances SET status = \$1, updated_at = NOW\(\) WHERE status = \$2 AND start_time <= NOW\(\) RETURNING id`).
		WithArgs("closed_expired", "open").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)).AddRow(int64(7)))

	ids, err := repo.ExpireStartedInstances(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}
