// Package generator provides synthetic heart-rate sources.
package generator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	center = 80.0
	swing  = 20.0
	noise  = 5.0
)

// Random draws values centered on 80 bpm with two uniform swings and a
// uniform noise term in [-5, 5). Safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeded with seed; seed 0 uses the clock.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns the floor of the sample.
func (g *Random) Next() int {
	g.mu.Lock()
	r1, r2, r3 := g.rng.Float64(), g.rng.Float64(), g.rng.Float64()
	g.mu.Unlock()
	v := center + swing*(r1-0.5) + swing*(r2-0.5) + (r3*2*noise - noise)
	return int(math.Floor(v))
}
