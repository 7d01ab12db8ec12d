package routing

// TraverseMode identifies how an edge is traversed.
type TraverseMode int

const (
	ModeNone TraverseMode = iota
	ModeWalk
	ModeBicycle
	ModeCar
	ModeTransit
)

func (m TraverseMode) String() string {
	switch m {
	case ModeWalk:
		return "WALK"
	case ModeBicycle:
		return "BICYCLE"
	case ModeCar:
		return "CAR"
	case ModeTransit:
		return "TRANSIT"
	default:
		return "NONE"
	}
}

// TraverseModeSet is the set of modes a request is willing to use.
type TraverseModeSet struct {
	Walk    bool
	Bicycle bool
	Car     bool
	Transit bool
}
