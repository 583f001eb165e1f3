package persistence

import (
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/talgya/rackheat/internal/layout"
	"github.com/talgya/rackheat/internal/thermal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "rackheat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSeedDemoAndLoad(t *testing.T) {
	db := openTestDB(t)

	require.False(t, db.HasLayout())
	require.NoError(t, db.SeedDemo())
	require.True(t, db.HasLayout())

	racks, err := db.LoadRacks()
	require.NoError(t, err)
	require.Equal(t, layout.DemoRacks(), racks)

	emitters, err := db.LoadEmitters()
	require.NoError(t, err)
	require.Equal(t, layout.DemoEmitters(), emitters)
}

func TestSaveRacksReplaces(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SeedDemo())

	racks := layout.DemoRacks()[:3]
	require.NoError(t, db.SaveRacks(racks))

	loaded, err := db.LoadRacks()
	require.NoError(t, err)
	require.Len(t, loaded, 3)
}

func TestSaveEmittersValidates(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SeedDemo())

	err := db.SaveEmitters([]thermal.Emitter{
		{Name: "ok", Position: r3.Vector{X: 1}, Intensity: 2},
		{Name: "bad", Intensity: -1},
	})
	require.ErrorIs(t, err, thermal.ErrInvalidEmitter)

	// Rejected save leaves the stored set untouched.
	emitters, err := db.LoadEmitters()
	require.NoError(t, err)
	require.Equal(t, layout.DemoEmitters(), emitters)
}

func TestEmitterRoundTrip(t *testing.T) {
	db := openTestDB(t)

	set := []thermal.Emitter{
		{Name: "crac-1", Position: r3.Vector{X: 1.5, Y: 0.2, Z: -3}, Intensity: 7.25},
		{Name: "pdu-2", Position: r3.Vector{X: -8}, Intensity: 0.5},
	}
	require.NoError(t, db.SaveEmitters(set))

	loaded, err := db.LoadEmitters()
	require.NoError(t, err)
	require.Equal(t, set, loaded)
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("floor_rev", "3"))
	v, err := db.GetMeta("floor_rev")
	require.NoError(t, err)
	require.Equal(t, "3", v)

	require.NoError(t, db.SaveMeta("floor_rev", "4"))
	v, err = db.GetMeta("floor_rev")
	require.NoError(t, err)
	require.Equal(t, "4", v)
}
