// Recomputation gating. The pipeline is quadratic-ish in emitters × points
// and must not rerun per rendering frame, so runs are memoized on a content
// hash of the inputs: same emitters and query points by value means the
// previous snapshot is served as-is.

package thermal

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"

	"github.com/golang/geo/r3"
)

// Recomputer memoizes ComputeSnapshot over one query-point set. Callers
// hand in fresh slices every tick (the telemetry feed rebuilds them), so
// memoization keys on content, not slice identity.
type Recomputer struct {
	opts Options

	mu      sync.Mutex
	lastKey uint64
	last    *FieldSnapshot
	runs    uint64
}

// NewRecomputer creates a memoized pipeline runner with fixed options.
func NewRecomputer(opts Options) *Recomputer {
	return &Recomputer{opts: opts}
}

// Snapshot returns the field snapshot for the given inputs, recomputing
// only when the emitter set or query-point set changed by value since the
// previous call. The returned snapshot is shared and must not be mutated.
func (r *Recomputer) Snapshot(emitters []Emitter, points []r3.Vector) (*FieldSnapshot, error) {
	key := contentKey(emitters, points, r.opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil && key == r.lastKey {
		recomputeHits.Inc()
		return r.last, nil
	}

	snap, err := ComputeSnapshot(emitters, points, r.opts)
	if err != nil {
		return nil, err
	}

	recomputeRuns.Inc()
	r.lastKey = key
	r.last = snap
	r.runs++
	return snap, nil
}

// Runs reports how many times the pipeline actually executed.
func (r *Recomputer) Runs() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// contentKey hashes emitters, query points, and options with FNV-1a.
// Length prefixes keep (2 emitters, 3 points) distinct from (3, 2).
func contentKey(emitters []Emitter, points []r3.Vector, opts Options) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeN := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}

	writeN(len(emitters))
	for _, e := range emitters {
		writeF(e.Position.X)
		writeF(e.Position.Y)
		writeF(e.Position.Z)
		writeF(e.Intensity)
	}

	writeN(len(points))
	for _, p := range points {
		writeF(p.X)
		writeF(p.Y)
		writeF(p.Z)
	}

	h.Write([]byte{byte(opts.Policy), byte(opts.Falloff)})
	return h.Sum64()
}
