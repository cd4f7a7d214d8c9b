package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/corrmin/distance"
	"github.com/hupe1980/corrmin/lattice"
	"github.com/hupe1980/corrmin/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Cell returns a random triclinic cell with edge lengths in [minLen, maxLen)
// and angles in [60, 120) degrees. Angle triples without positive volume
// are redrawn.
func (r *RNG) Cell(minLen, maxLen float64) lattice.Cell {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxLen - minLen
	for {
		c := lattice.Cell{
			A:     minLen + r.rand.Float64()*span,
			B:     minLen + r.rand.Float64()*span,
			C:     minLen + r.rand.Float64()*span,
			Alpha: 60 + r.rand.Float64()*60,
			Beta:  60 + r.rand.Float64()*60,
			Gamma: 60 + r.rand.Float64()*60,
		}
		if volumeFactor(c) > 0.1 {
			return c
		}
	}
}

// volumeFactor is V/(abc) for the angles of c.
func volumeFactor(c lattice.Cell) float64 {
	ca := math.Cos(c.Alpha * math.Pi / 180)
	cb := math.Cos(c.Beta * math.Pi / 180)
	cg := math.Cos(c.Gamma * math.Pi / 180)
	v := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// Matrix returns a random nonsingular matrix with entries in [-bound, bound].
func (r *RNG) Matrix(bound int) model.Matrix {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		var m model.Matrix
		for i := range 3 {
			for j := range 3 {
				m[i][j] = int8(r.rand.Intn(2*bound+1) - bound)
			}
		}
		if m.Det() != 0 {
			return m
		}
	}
}

// Matrices returns n random nonsingular matrices.
func (r *RNG) Matrices(n, bound int) []model.Matrix {
	out := make([]model.Matrix, n)
	for i := range out {
		out[i] = r.Matrix(bound)
	}
	return out
}

// Rotation returns a uniformly distributed proper rotation, built from a
// random unit quaternion.
func (r *RNG) Rotation() [3][3]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var w, x, y, z, n float64
	for n < 1e-12 {
		w, x, y, z = r.rand.NormFloat64(), r.rand.NormFloat64(), r.rand.NormFloat64(), r.rand.NormFloat64()
		n = math.Sqrt(w*w + x*x + y*y + z*z)
	}
	w, x, y, z = w/n, x/n, y/n, z/n

	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// Rotate returns rot·l.
func Rotate(rot [3][3]float64, l lattice.Lattice) lattice.Lattice {
	var out lattice.Lattice
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				out[i][j] += rot[i][k] * l[k][j]
			}
		}
	}
	return out
}

// ExactTopK scores every pair of refs and defs and returns the k lowest,
// ordered by distance with ties in evaluation order.
func ExactTopK(ref, def lattice.Lattice, refs, defs []model.Matrix, k int) ([]model.Result, error) {
	all := make([]model.Result, 0, len(refs)*len(defs))
	for _, pRef := range refs {
		for _, pDef := range defs {
			res, err := distance.Compute(ref, def, pRef, pDef)
			if err != nil {
				return nil, err
			}
			all = append(all, res)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})
	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}
