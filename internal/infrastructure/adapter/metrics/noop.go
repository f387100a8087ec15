package metrics

import (
	"database/sql"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
)

// Noop discards every observation
type Noop struct{}

// NewNoop returns metrics that record nothing
func NewNoop() *Noop { return &Noop{} }

var _ coreport.Metrics = (*Noop)(nil)

func (*Noop) SpinConsumed(string) {}
func (*Noop) SpinsGranted(string, int64) {}
func (*Noop) WordClaimed(string) {}
func (*Noop) LedgerRetry(string) {}
func (*Noop) LedgerFailure(string, int) {}
func (*Noop) ObservePool(sql.DBStats) {}
