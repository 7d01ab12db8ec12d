package graph

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
)

// Located is anything with a fixed geographic position. Graph vertices that
// should be discoverable by coordinate implement it.
type Located interface {
	// Coordinates returns the latitude and longitude in degrees.
	Coordinates() (lat, lon float64)
}

// VertexIndex is a spatial index over located vertices, used to resolve a
// requested origin or destination coordinate to nearby graph vertices.
// Build it once after graph construction; it is safe for concurrent reads
// once built.
type VertexIndex struct {
	tree rtree.RTree
	size int
}

// NewVertexIndex creates an empty index.
func NewVertexIndex() *VertexIndex {
	return &VertexIndex{}
}

// Insert adds a located vertex to the index.
func (idx *VertexIndex) Insert(v Located) {
	lat, lon := v.Coordinates()
	point := [2]float64{lon, lat}
	idx.tree.Insert(point, point, v)
	idx.size++
}

// Len returns the number of indexed vertices.
func (idx *VertexIndex) Len() int {
	return idx.size
}

// Nearby returns all vertices within radiusMeters of the given point,
// ordered nearest first.
func (idx *VertexIndex) Nearby(lat, lon, radiusMeters float64) []Located {
	min, max := boundsAround(lat, lon, radiusMeters)

	type candidate struct {
		v    Located
		dist float64
	}
	var candidates []candidate

	idx.tree.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		v := data.(Located)
		vLat, vLon := v.Coordinates()
		d := Distance(lat, lon, vLat, vLon)
		if d <= radiusMeters {
			candidates = append(candidates, candidate{v: v, dist: d})
		}
		return true
	})

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	result := make([]Located, len(candidates))
	for i, c := range candidates {
		result[i] = c.v
	}
	return result
}

// Nearest returns the single closest vertex within radiusMeters, or nil if
// none is in range.
func (idx *VertexIndex) Nearest(lat, lon, radiusMeters float64) Located {
	min, max := boundsAround(lat, lon, radiusMeters)

	var best Located
	bestDist := math.Inf(1)

	idx.tree.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		v := data.(Located)
		vLat, vLon := v.Coordinates()
		d := Distance(lat, lon, vLat, vLon)
		if d <= radiusMeters && d < bestDist {
			best = v
			bestDist = d
		}
		return true
	})

	return best
}
