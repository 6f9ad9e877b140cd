package agent

// State identifies what an agent is doing. Ordering is priority: a higher
// state preempts a lower one when its trigger condition holds.
type State int

const (
	StateIdle State = iota + 1
	StateGather
	StateDeliver
	StateBuild
	StateCombat
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGather:
		return "gather"
	case StateDeliver:
		return "deliver"
	case StateBuild:
		return "build"
	case StateCombat:
		return "combat"
	default:
		return "unknown"
	}
}
