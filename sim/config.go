package sim

// DefaultDurationMargin is the slack added to the safety bound.
const DefaultDurationMargin = 2

// SimConfig groups the run parameters of a Simulator.
type SimConfig struct {
	Policy PolicyConfig
	// DurationMargin is added to sum(burst) + max(arrival) to form the safety
	// bound. Zero or negative uses DefaultDurationMargin.
	DurationMargin int
}

func (c SimConfig) margin() int {
	if c.DurationMargin <= 0 {
		return DefaultDurationMargin
	}
	return c.DurationMargin
}
