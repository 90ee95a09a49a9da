package core

// Direction classifies a week-over-week change.
type Direction string

const (
	DirectionNoChange Direction = "no-change"
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	// DirectionNew marks spend appearing where the previous window
	// had none; the percentage is a sentinel, not a ratio.
	DirectionNew Direction = "new"
)

// Comparison is the result of comparing two period totals.
type Comparison struct {
	Current       Money
	Previous      Money
	ChangePercent float64
	Direction     Direction
}

// CompareTotals computes the signed percentage change between two
// period totals. A zero previous total is a first-class branch, never
// a division fault: zero-to-zero is no change, zero-to-something is
// classified as new with a +100% sentinel.
func CompareTotals(current, previous Money) Comparison {
	c := Comparison{Current: current, Previous: previous}

	if previous.IsZero() {
		if current.IsZero() {
			c.Direction = DirectionNoChange
			return c
		}
		c.Direction = DirectionNew
		c.ChangePercent = 100
		return c
	}

	c.ChangePercent = float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
	switch {
	case c.ChangePercent > 0:
		c.Direction = DirectionIncrease
	case c.ChangePercent < 0:
		c.Direction = DirectionDecrease
	default:
		c.Direction = DirectionNoChange
	}
	return c
}
