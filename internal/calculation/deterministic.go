package calculation

import (
	"time"

	"github.com/rpgo/retirement-planner/pkg/dateutil"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// Today returns the current calendar date from the time provider.
func Today() time.Time { return dateutil.Normalize(nowFunc()) }
