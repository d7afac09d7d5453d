package game

// Clock is simulated time in milliseconds. It only moves when the game is updated, so a paused
// game freezes every interval gate and countdown at once.
type Clock struct {
	now float64
}

func (c *Clock) Now() float64 { return c.now }

func (c *Clock) Advance(dtMs float64) {
	if dtMs > 0 {
		c.now += dtMs
	}
}

// timer fires once when the clock reaches its deadline.
type timer struct {
	armed    bool
	deadline float64
}

func (t *timer) schedule(now, delay float64) {
	t.armed = true
	t.deadline = now + delay
}

func (t *timer) fire(now float64) bool {
	if !t.armed || now < t.deadline {
		return false
	}
	t.armed = false
	return true
}

// gate opens once per interval, measured from its last opening.
type gate struct {
	last float64
}

func (g *gate) open(now, interval float64) bool {
	if now-g.last <= interval {
		return false
	}
	g.last = now
	return true
}
