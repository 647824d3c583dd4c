package booking

import (
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
)

// Reuse the executor interfaces from dbmetrics
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
