// Field sampling: evaluating the aggregated field at a set of discrete
// query points (rack centers, floor mesh vertices). Each point is pure and
// independent, so the work parallelizes without shared mutable state.

package thermal

import (
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
)

// RawSample is the unnormalized field value at one query point.
type RawSample struct {
	Point r3.Vector `json:"point"`
	Value float64   `json:"value"`
}

// parallelThreshold is the point count below which fanning out workers
// costs more than it saves. A 50-segment floor mesh (2601 points) is well
// above it; a rack list is well below.
const parallelThreshold = 256

// Sample evaluates the field at every query point, producing one RawSample
// per point in input order. Cost is O(|emitters| × |points|).
func Sample(emitters []Emitter, points []r3.Vector, law Falloff) []RawSample {
	out := make([]RawSample, len(points))
	for i, p := range points {
		out[i] = RawSample{Point: p, Value: Aggregate(emitters, p, law)}
	}
	return out
}

// SampleParallel is Sample with the per-point work fanned out across
// workers. Each worker owns a contiguous index range, so results land at
// their input position and the output order matches the input order.
// workers <= 0 means one per CPU.
func SampleParallel(emitters []Emitter, points []r3.Vector, law Falloff, workers int) []RawSample {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || len(points) < parallelThreshold {
		return Sample(emitters, points, law)
	}
	if workers > len(points) {
		workers = len(points)
	}

	out := make([]RawSample, len(points))
	chunk := (len(points) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(points); start += chunk {
		end := start + chunk
		if end > len(points) {
			end = len(points)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = RawSample{Point: points[i], Value: Aggregate(emitters, points[i], law)}
			}
		}(start, end)
	}
	wg.Wait()

	return out
}
