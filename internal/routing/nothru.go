package routing

// NoThruTrafficState tracks where a path stands relative to no-through-traffic
// street islands: still inside the island it started in, on unrestricted
// streets between islands, or inside the island it will end in.
type NoThruTrafficState int

const (
	NoThruInit NoThruTrafficState = iota
	NoThruInInitialIsland
	NoThruBetweenIslands
	NoThruInFinalIsland
)
