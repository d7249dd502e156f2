package bloom

// mixer turns a single 64-bit key hash into a stream of probe indices in
// [0, rangeSize). It is a minimal-standard linear congruential generator
// seeded from the key hash, so the k probes of one key are reproducible
// and roughly independent.
type mixer struct {
	state     uint64
	rangeSize uint64
}

const (
	minstdMultiplier = 48271
	minstdModulus    = 2147483647 // 2^31 - 1
)

func newMixer(seed uint64, rangeSize int) mixer {
	state := seed % minstdModulus
	if state == 0 {
		// The minimal-standard generator has a fixed point at zero.
		state = 1
	}
	return mixer{state: state, rangeSize: uint64(rangeSize)}
}

func (m *mixer) next() int {
	m.state = m.state * minstdMultiplier % minstdModulus
	return int(m.state % m.rangeSize)
}
