// Monitor ties the thermal pipeline to its collaborators: the telemetry
// feed supplies emitters, the layout supplies the two query-point sets, and
// the latest completed snapshots are published for the API to read.

package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/golang/geo/r3"

	"github.com/talgya/rackheat/internal/layout"
	"github.com/talgya/rackheat/internal/telemetry"
	"github.com/talgya/rackheat/internal/thermal"
)

// Monitor owns one memoized pipeline per query set. Snapshot publication is
// last-write-wins: readers always see a whole snapshot, never a partially
// recomputed one.
type Monitor struct {
	Feed  *telemetry.Feed
	Floor layout.Floor

	racks       []layout.Rack
	rackPoints  []r3.Vector
	floorPoints []r3.Vector

	rackPipe  *thermal.Recomputer
	floorPipe *thermal.Recomputer

	mu        sync.RWMutex
	rackSnap  *thermal.FieldSnapshot
	floorSnap *thermal.FieldSnapshot
	emitters  []thermal.Emitter
	lastTick  uint64
	computed  time.Time
}

// NewMonitor wires a monitor for the given layout. The floor mesh is
// generated once: it only changes if the floor does.
func NewMonitor(feed *telemetry.Feed, racks []layout.Rack, floor layout.Floor, opts thermal.Options) *Monitor {
	return &Monitor{
		Feed:        feed,
		Floor:       floor,
		racks:       racks,
		rackPoints:  layout.RackCenters(racks),
		floorPoints: floor.GridPoints(),
		rackPipe:    thermal.NewRecomputer(opts),
		floorPipe:   thermal.NewRecomputer(opts),
	}
}

// Step runs one recompute cycle for the given tick. Unchanged inputs hit
// the memoized snapshots and cost nothing beyond the content hash.
func (m *Monitor) Step(tick uint64) {
	emitters := m.Feed.At(tick)

	rackSnap, err := m.rackPipe.Snapshot(emitters, m.rackPoints)
	if err != nil {
		slog.Error("rack field recompute failed", "error", err, "tick", tick)
		return
	}

	floorSnap, err := m.floorPipe.Snapshot(emitters, m.floorPoints)
	if err != nil {
		slog.Error("floor field recompute failed", "error", err, "tick", tick)
		return
	}

	m.mu.Lock()
	m.rackSnap = rackSnap
	m.floorSnap = floorSnap
	m.emitters = emitters
	m.lastTick = tick
	m.computed = time.Now()
	m.mu.Unlock()
}

// Racks returns the rack layout. The slice is shared and read-only.
func (m *Monitor) Racks() []layout.Rack {
	return m.racks
}

// RackSnapshot returns the latest rack-center snapshot, or nil before the
// first completed cycle.
func (m *Monitor) RackSnapshot() *thermal.FieldSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rackSnap
}

// FloorSnapshot returns the latest floor-mesh snapshot, or nil before the
// first completed cycle.
func (m *Monitor) FloorSnapshot() *thermal.FieldSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.floorSnap
}

// Emitters returns a copy of the emitter set behind the latest snapshots.
func (m *Monitor) Emitters() []thermal.Emitter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]thermal.Emitter(nil), m.emitters...)
}

// SetEmitters replaces the telemetry base set and recomputes immediately so
// an admin edit is visible on the next read, not the next tick.
func (m *Monitor) SetEmitters(emitters []thermal.Emitter) error {
	if err := m.Feed.SetBase(emitters); err != nil {
		return err
	}

	m.mu.RLock()
	tick := m.lastTick
	m.mu.RUnlock()

	m.Step(tick)
	return nil
}

// LastComputed reports when the published snapshots were produced.
func (m *Monitor) LastComputed() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.computed
}
