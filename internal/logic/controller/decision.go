package controller

// Action is the outcome kind of a scaling decision.
type Action int

const (
	ActionNone Action = iota
	ActionScaleUp
	ActionScaleDown
)

func (a Action) String() string {
	switch a {
	case ActionScaleUp:
		return "scale-up"
	case ActionScaleDown:
		return "scale-down"
	case ActionNone:
		return "none"
	default:
		return "unknown"
	}
}

// Policy holds the thresholds the decision engine compares against.
// Thresholds are fractions of one core. MaxReplicas of 0 means unbounded.
type Policy struct {
	ScaleUpThreshold   float64
	ScaleDownThreshold float64
	MinReplicas        int32
	MaxReplicas        int32
}

// Decision is the result of Decide for one workload in one tick.
type Decision struct {
	Action Action
	From   int32
	To     int32
	CPU    float64
}

// Decide moves the replica count by at most one step.
// Scale-up wins over scale-down; equality with a threshold never triggers either.
func Decide(current int32, cpu float64, policy Policy) Decision {
	floor := max(policy.MinReplicas, MinReplicas)

	decision := Decision{
		Action: ActionNone,
		From:   current,
		To:     current,
		CPU:    cpu,
	}

	switch {
	case cpu > policy.ScaleUpThreshold:
		if policy.MaxReplicas > 0 && current >= policy.MaxReplicas {
			return decision
		}

		decision.Action = ActionScaleUp
		decision.To = current + 1
	case cpu < policy.ScaleDownThreshold && current > floor:
		decision.Action = ActionScaleDown
		decision.To = current - 1
	}

	return decision
}
