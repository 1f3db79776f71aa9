package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// renderFilter builds the listing SQL without a database connection.
func renderFilter(t *testing.T, predicates ...queries.OrderPredicate) string {
	t.Helper()
	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	filter, err := queries.NewOrderFilter(predicates...)
	require.NoError(t, err)

	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []map[string]any
		return tx.Table("orders AS o").
			Where("o.kitchen_id = ?", "k1").
			Clauses(clause.Where{Exprs: filter.Expressions()}).
			Find(&rows)
	})
}

func TestOrderFilter_StatusAndPriority(t *testing.T) {
	sql := renderFilter(t,
		queries.StatusIn{order.Received, order.Preparing},
		queries.PriorityIn{kernel.PriorityHigh},
	)

	assert.Contains(t, sql, `o.kitchen_id = 'k1'`)
	assert.Contains(t, sql, `"o"."status" IN (1,2)`)
	assert.Contains(t, sql, `"o"."priority" = 3`)
}

func TestOrderFilter_TextSearchEscapesWildcards(t *testing.T) {
	sql := renderFilter(t, queries.TextSearch{Term: " 50%_off "})

	assert.Contains(t, sql, `"o"."number" ILIKE '%50\%\_off%' ESCAPE '\'`)
	assert.Contains(t, sql, `"o"."customer_name" ILIKE`)
	assert.Contains(t, sql, `"o"."customer_phone" ILIKE`)
	assert.Contains(t, sql, " OR ")
}

func TestOrderFilter_TextSearchIsParameterized(t *testing.T) {
	sql := renderFilter(t, queries.TextSearch{Term: "x' OR 1=1 --"})

	assert.Contains(t, sql, `ILIKE '%x`)
	assert.Contains(t, sql, `1=1 --%'`)
}

func TestOrderFilter_DateRangeAndAssignee(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	sql := renderFilter(t,
		queries.DateRange{From: &from, To: &to},
		queries.AssignedTo{UserID: kernel.NewUUID()},
	)

	assert.Contains(t, sql, `"o"."created_at" >=`)
	assert.Contains(t, sql, `"o"."created_at" <`)
	assert.Contains(t, sql, `"o"."assignee_id" =`)
}

func TestOrderFilter_OpenEndedDateRange(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	sql := renderFilter(t, queries.DateRange{From: &from})

	assert.Contains(t, sql, `"o"."created_at" >=`)
	assert.NotContains(t, sql, `"o"."created_at" <`)
}
