package reconcile

// Counts partitions an aggregated outcome map into the per-category totals
// spec §4.6/§7 require for the CLI summary line and the exit-code decision.
type Counts struct {
	Unmodified  int
	Created     int
	Modified    int
	Unfulfilled int
	Error       int
}

// AllOK reports whether every aggregated target ended in a benign state
// (Created, Unmodified, or Modified) — equivalently, error+unfulfilled == 0.
func (c Counts) AllOK() bool {
	return c.Unfulfilled == 0 && c.Error == 0
}

// Aggregate collapses an outcome stream into a per-target map, keeping for
// each target the effect with the highest importance seen (spec §4.6): once
// an Error is recorded for a target it can never be downgraded by a later
// Unmodified, but a Created can be overridden by a later Error against the
// same target.
func Aggregate(outcomes <-chan Outcome) map[Target]Effect {
	result := make(map[Target]Effect)
	for o := range outcomes {
		current, exists := result[o.Target]
		if !exists || current.Less(o.Effect) {
			result[o.Target] = o.Effect
		}
	}
	return result
}

// Tally derives the Counts from an aggregated outcome map.
func Tally(byTarget map[Target]Effect) Counts {
	var c Counts
	for _, effect := range byTarget {
		switch effect.Kind {
		case Unmodified:
			c.Unmodified++
		case Created:
			c.Created++
		case Modified:
			c.Modified++
		case Unfulfilled:
			c.Unfulfilled++
		case Error:
			c.Error++
		}
	}
	return c
}
