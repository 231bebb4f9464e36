package detect

import (
	"avesto/internal/domain/service"
	"avesto/pkg/config"
)

// All returns every detector in registration order. Registration order is the
// final ranking tie-break, so the order here is part of the contract.
func All(cfg config.EngineConfig) []service.Detector {
	return []service.Detector{
		NewIdleCash(cfg),
		NewAllocationDrift(cfg),
		NewRecurringOverspend(cfg),
		NewGoalTimelineRisk(cfg),
		NewTaxInefficiency(cfg),
	}
}
