package usecase

import (
	"time"

	"StepPull/internal/domain/models"
	"StepPull/pkg/util"
)

// Decision is the outcome of classifying a window against provider state.
type Decision int

const (
	DecisionUnavailable Decision = iota
	DecisionHistoricalOnly
	DecisionRecentOnly
	DecisionHybrid
)

func (d Decision) String() string {
	switch d {
	case DecisionHistoricalOnly:
		return "historical_only"
	case DecisionRecentOnly:
		return "recent_only"
	case DecisionHybrid:
		return "hybrid"
	default:
		return "unavailable"
	}
}

// PolicyConfig is fixed for the lifetime of the aggregation engine.
type PolicyConfig struct {
	UseHybridMode bool
	LookbackDays  int
}

// ProviderState is a fresh read of both providers' capability flags. Never
// cached across decisions; consent can change at any time.
type ProviderState struct {
	HistoricalAvailable  bool
	HistoricalAuthorized bool
	RecentAvailable      bool
}

// Classify maps a window plus provider state to a fetch decision. Pure
// function; day age is computed at calendar-day granularity.
//
// Recent windows (age within the lookback) benefit from comparing two
// independently-sampled sources; beyond the lookback only the historical
// provider has data at all, so hybrid comparison is pointless there.
func Classify(w models.TimeWindow, now time.Time, cfg PolicyConfig, st ProviderState) Decision {
	age := util.CalendarDaysBetween(w.Start, now)
	historicalUsable := st.HistoricalAvailable && st.HistoricalAuthorized

	if age <= cfg.LookbackDays && st.RecentAvailable {
		if historicalUsable {
			if cfg.UseHybridMode {
				return DecisionHybrid
			}
			return DecisionHistoricalOnly
		}
		return DecisionRecentOnly
	}
	if historicalUsable {
		return DecisionHistoricalOnly
	}
	return DecisionUnavailable
}
