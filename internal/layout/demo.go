// Demo floor content: a deterministic machine room used to seed an empty
// database so the service renders something out of the box.

package layout

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"github.com/talgya/rackheat/internal/thermal"
)

// demoNamespace makes demo rack IDs a pure function of the rack name, so
// reseeding an empty database is idempotent.
var demoNamespace = uuid.MustParse("9f2c6f44-7c1b-4a07-8a3e-2f55d8f7a111")

// DemoRacks lays out a small machine room: 4 rows of 8 racks on a regular
// pitch, centered on the floor.
func DemoRacks() []Rack {
	const (
		rackRows = 4
		rackCols = 8
		pitchX   = 3.0 // meters between rack columns
		pitchZ   = 4.0 // meters between aisles
		rackY    = 1.0 // rack center height
	)

	racks := make([]Rack, 0, rackRows*rackCols)
	for row := 0; row < rackRows; row++ {
		for col := 0; col < rackCols; col++ {
			name := fmt.Sprintf("R%d-%02d", row+1, col+1)
			racks = append(racks, Rack{
				ID:   uuid.NewSHA1(demoNamespace, []byte(name)),
				Name: name,
				Row:  row,
				Col:  col,
				Position: r3.Vector{
					X: -pitchX*float64(rackCols-1)/2 + pitchX*float64(col),
					Y: rackY,
					Z: -pitchZ*float64(rackRows-1)/2 + pitchZ*float64(row),
				},
			})
		}
	}
	return racks
}

// DemoEmitters places a handful of heat sources: two hot compute racks, a
// UPS corner, and a CRAC exhaust.
func DemoEmitters() []thermal.Emitter {
	return []thermal.Emitter{
		{Name: "compute-east", Position: r3.Vector{X: 7.5, Y: 1.0, Z: -2.0}, Intensity: 16},
		{Name: "compute-west", Position: r3.Vector{X: -9.0, Y: 1.0, Z: 2.0}, Intensity: 12},
		{Name: "ups-corner", Position: r3.Vector{X: -12.0, Y: 0.5, Z: -8.0}, Intensity: 6},
		{Name: "crac-exhaust", Position: r3.Vector{X: 3.0, Y: 0.2, Z: 8.5}, Intensity: 9},
	}
}
