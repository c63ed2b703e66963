package tour

import (
	"github.com/sharetours/booking-service/pkg/dbmetrics"
)

// Reuse the executor interfaces from dbmetrics so repositories work with
// *sql.DB, *dbmetrics.DB and open transactions alike.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
