package game

// fixedRand returns the same draw every time. f=0.99 keeps enemies from wandering and loot from
// dropping.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) Intn(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

// seqRand replays the given floats in order and then repeats the last one.
type seqRand struct {
	floats []float64
	i      int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	if r.i >= len(r.floats) {
		return r.floats[len(r.floats)-1]
	}
	v := r.floats[r.i]
	r.i++
	return v
}

func (r *seqRand) Intn(n int) int { return 0 }

func quietRand() fixedRand { return fixedRand{f: 0.99} }

func newTestGame() *Game {
	return New(Config{}, quietRand(), Sinks{})
}
