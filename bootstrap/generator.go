package bootstrap

import "golang.org/x/exp/rand"

// Generator is the random number source of one run. Create it once from the
// run's seed and pass it to every resampling call: the whole run is then a
// deterministic function of the seed and the order of the calls.
//
// A Generator is not safe for concurrent use. Concurrent workers need one
// Generator each.
type Generator struct {
	seed uint64
	rnd  *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		seed: seed,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) Seed() uint64 {
	return g.seed
}

// Intn returns a uniform index in [0, n). It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}
