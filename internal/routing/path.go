package routing

import (
	"github.com/twpayne/go-polyline"

	"pathfinder.onebusaway.org/internal/graph"
)

// Path is a materialized itinerary: the ordered states and edges of a
// completed search chain, front to back. It is what gets handed to callers
// once a search reaches its goal.
type Path struct {
	States []*State
	Edges  []Edge
}

// NewPath builds the itinerary ending at terminal. With optimize set, the
// chain is reverse-optimized first so waiting is minimized; if optimization
// turns out to be infeasible the original chain is used as-is.
func NewPath(terminal *State, optimize bool) *Path {
	end := terminal
	if optimize {
		end = terminal.OptimizeOrReverse(true, true)
	}

	var states []*State
	var edges []Edge
	for cur := end; cur != nil; cur = cur.BackState() {
		states = append(states, cur)
		if cur.BackEdge() != nil {
			edges = append(edges, cur.BackEdge())
		}
	}
	reverseSlice(states)
	reverseSlice(edges)

	return &Path{States: states, Edges: edges}
}

// StartTime returns the time at the first state, in seconds since the epoch.
func (p *Path) StartTime() int64 {
	return p.States[0].Time()
}

// EndTime returns the time at the last state, in seconds since the epoch.
func (p *Path) EndTime() int64 {
	return p.States[len(p.States)-1].Time()
}

// Duration returns the itinerary duration in seconds.
func (p *Path) Duration() int64 {
	d := p.EndTime() - p.StartTime()
	if d < 0 {
		return -d
	}
	return d
}

// Weight returns the accumulated generalized cost of the itinerary.
func (p *Path) Weight() float64 {
	return p.States[len(p.States)-1].Weight()
}

// WalkDistance returns the total walk distance in meters.
func (p *Path) WalkDistance() float64 {
	return p.States[len(p.States)-1].WalkDistance()
}

// EncodedGeometry renders the itinerary as a Google encoded polyline over
// the coordinates of the vertices visited, skipping vertices without a
// position. Returns "" when fewer than two vertices are located.
func (p *Path) EncodedGeometry() string {
	var coords [][]float64
	for _, s := range p.States {
		located, ok := s.Vertex().(graph.Located)
		if !ok {
			continue
		}
		lat, lon := located.Coordinates()
		coords = append(coords, []float64{lat, lon})
	}
	if len(coords) < 2 {
		return ""
	}
	return string(polyline.EncodeCoords(coords))
}

func reverseSlice[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
