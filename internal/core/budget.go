package core

// BudgetTier is the four-step classification of spend against budget.
type BudgetTier string

const (
	TierNotConfigured BudgetTier = "not-configured"
	TierHealthy       BudgetTier = "healthy"     // < 75%
	TierApproaching   BudgetTier = "approaching" // 75-89%
	TierNearLimit     BudgetTier = "near-limit"  // 90-99%
	TierExceeded      BudgetTier = "exceeded"    // >= 100%
)

// BudgetStatus reports current spend against a monthly budget.
type BudgetStatus struct {
	Configured bool
	Budget     Money
	Spent      Money
	Remaining  Money // budget minus spend, may be negative
	Percent    float64
	Tier       BudgetTier
}

// TrackBudget classifies spend against an optional budget. A nil
// budget yields the not-configured state rather than a division.
func TrackBudget(budget *Money, spent Money) BudgetStatus {
	if budget == nil || budget.Cents <= 0 {
		return BudgetStatus{Spent: spent, Tier: TierNotConfigured}
	}

	status := BudgetStatus{
		Configured: true,
		Budget:     *budget,
		Spent:      spent,
		Remaining:  budget.Sub(spent),
		Percent:    float64(spent.Cents) / float64(budget.Cents) * 100,
	}
	switch {
	case status.Percent >= 100:
		status.Tier = TierExceeded
	case status.Percent >= 90:
		status.Tier = TierNearLimit
	case status.Percent >= 75:
		status.Tier = TierApproaching
	default:
		status.Tier = TierHealthy
	}
	return status
}
