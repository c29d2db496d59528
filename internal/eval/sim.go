package eval

// sim tracks qubits in computational basis states. It is enough for X, Z,
// measurement and reset; superposition is not modelled.
type sim struct {
	next  int
	state map[int]bool
}

func newSim() *sim {
	return &sim{state: make(map[int]bool)}
}

func (s *sim) alloc() int {
	s.next++
	s.state[s.next] = false
	return s.next
}

func (s *sim) release(q int) {
	delete(s.state, q)
}

func (s *sim) flip(q int) {
	s.state[q] = !s.state[q]
}

func (s *sim) measure(q int) bool {
	return s.state[q]
}

func (s *sim) reset(q int) {
	s.state[q] = false
}

func (s *sim) dump() map[int]bool {
	out := make(map[int]bool, len(s.state))
	for q, one := range s.state {
		out[q] = one
	}
	return out
}
