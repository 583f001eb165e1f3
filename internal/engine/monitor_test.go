package engine

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/talgya/rackheat/internal/layout"
	"github.com/talgya/rackheat/internal/telemetry"
	"github.com/talgya/rackheat/internal/thermal"
)

func testMonitor(t *testing.T) *Monitor {
	t.Helper()

	racks := layout.DemoRacks()[:4]
	floor := layout.Floor{Width: 10, Depth: 10, Segments: 4}
	feed := telemetry.NewFeed(42, []thermal.Emitter{
		{Name: "hot", Position: r3.Vector{X: 2, Y: 1}, Intensity: 16},
	})

	return NewMonitor(feed, racks, floor, thermal.Options{Policy: thermal.PolicyMaxDivide})
}

func TestMonitorStepPublishesSnapshots(t *testing.T) {
	m := testMonitor(t)

	require.Nil(t, m.RackSnapshot())
	require.Nil(t, m.FloorSnapshot())

	m.Step(1)

	rackSnap := m.RackSnapshot()
	require.NotNil(t, rackSnap)
	require.Len(t, rackSnap.Samples, 4)

	floorSnap := m.FloorSnapshot()
	require.NotNil(t, floorSnap)
	require.Len(t, floorSnap.Samples, 25)

	require.Len(t, m.Emitters(), 1)
	require.WithinDuration(t, time.Now(), m.LastComputed(), time.Minute)
}

func TestMonitorStepSameTickReusesSnapshot(t *testing.T) {
	m := testMonitor(t)

	m.Step(3)
	first := m.FloorSnapshot()

	// Same tick → same telemetry readings → memoized snapshot.
	m.Step(3)
	require.Same(t, first, m.FloorSnapshot())
}

func TestMonitorSetEmittersRecomputesImmediately(t *testing.T) {
	m := testMonitor(t)
	m.Step(1)
	before := m.FloorSnapshot()

	err := m.SetEmitters([]thermal.Emitter{
		{Name: "replacement", Position: r3.Vector{X: -2}, Intensity: 4},
	})
	require.NoError(t, err)

	after := m.FloorSnapshot()
	require.NotNil(t, after)
	require.NotEqual(t, before.ID, after.ID)
}

func TestMonitorSetEmittersRejectsInvalid(t *testing.T) {
	m := testMonitor(t)
	m.Step(1)
	before := m.FloorSnapshot()

	err := m.SetEmitters([]thermal.Emitter{{Intensity: -1}})
	require.ErrorIs(t, err, thermal.ErrInvalidEmitter)

	// Published snapshots untouched by the rejected update.
	require.Same(t, before, m.FloorSnapshot())
}

func TestEngineTicks(t *testing.T) {
	eng := NewEngine()
	eng.Interval = time.Millisecond

	var ticks []uint64
	eng.OnTick = func(tick uint64) {
		ticks = append(ticks, tick)
		if len(ticks) >= 3 {
			eng.Stop()
		}
	}

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}

	require.GreaterOrEqual(t, len(ticks), 3)
	require.Equal(t, uint64(1), ticks[0])
	require.Equal(t, uint64(2), ticks[1])
}
