// Package layout models the data-center floor: rack placement and the
// regular floor mesh the heat field is sampled on.
package layout

import (
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// Rack is one server rack on the floor. Position is the rack's center in
// floor coordinates (meters, y up, floor plane at y=0).
type Rack struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	Position r3.Vector `json:"position"`
}

// Floor describes the floor slab and its render mesh. Segments is the mesh
// subdivision per side: the grid has (Segments+1)² vertices.
type Floor struct {
	Width    float64 `json:"width"`    // x extent, meters
	Depth    float64 `json:"depth"`    // z extent, meters
	Segments int     `json:"segments"`
}

// DefaultSegments matches the frontend's default floor mesh resolution.
const DefaultSegments = 50

// DefaultFloor returns the demo machine-room slab.
func DefaultFloor() Floor {
	return Floor{Width: 30, Depth: 20, Segments: DefaultSegments}
}

// GridPoints returns the floor mesh vertices in row-major order (z rows,
// then x), centered on the origin at y=0. The order is stable so snapshot
// samples line up with mesh vertices index-for-index.
func (f Floor) GridPoints() []r3.Vector {
	seg := f.Segments
	if seg < 1 {
		seg = 1
	}

	points := make([]r3.Vector, 0, (seg+1)*(seg+1))
	for i := 0; i <= seg; i++ {
		z := -f.Depth/2 + f.Depth*float64(i)/float64(seg)
		for j := 0; j <= seg; j++ {
			x := -f.Width/2 + f.Width*float64(j)/float64(seg)
			points = append(points, r3.Vector{X: x, Y: 0, Z: z})
		}
	}
	return points
}

// RackCenters extracts the rack query points, preserving rack order.
func RackCenters(racks []Rack) []r3.Vector {
	points := make([]r3.Vector, len(racks))
	for i, r := range racks {
		points[i] = r.Position
	}
	return points
}
