// FieldSnapshot: the complete, immutable output of one sample→normalize
// pass over a query-point set.

package thermal

import (
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// Options configures one pipeline run.
type Options struct {
	Policy  Policy
	Falloff Falloff
	// Workers bounds the sampling fan-out; <= 0 means one per CPU.
	Workers int
}

// FieldSnapshot holds the ordered normalized samples of one pipeline run
// plus the divisor the normalizer used. Snapshots are immutable once
// produced: a recomputation yields a fresh snapshot and the superseded one
// is simply dropped, never patched.
type FieldSnapshot struct {
	ID       uuid.UUID          `json:"id"`
	Samples  []NormalizedSample `json:"samples"`
	Divisor  float64            `json:"divisor"`
	Policy   Policy             `json:"-"`
	Computed time.Time          `json:"computed_at"`
}

// ComputeSnapshot runs the full pipeline: validate emitters, sample the
// field at every query point, normalize, and wrap the result. Validation
// failures surface before any sampling happens — a snapshot is either whole
// or absent.
func ComputeSnapshot(emitters []Emitter, points []r3.Vector, opts Options) (*FieldSnapshot, error) {
	if err := ValidateEmitters(emitters); err != nil {
		return nil, err
	}

	start := time.Now()
	raw := SampleParallel(emitters, points, opts.Falloff, opts.Workers)
	samples, divisor := Normalize(raw, opts.Policy)

	sampleDuration.Observe(time.Since(start).Seconds())
	samplePoints.Set(float64(len(points)))

	return &FieldSnapshot{
		ID:       uuid.New(),
		Samples:  samples,
		Divisor:  divisor,
		Policy:   opts.Policy,
		Computed: time.Now(),
	}, nil
}
