package core

// MaxMoves bounds the destinations any single piece can have, castling included.
const MaxMoves = 64

// MoveList is a fixed-capacity list of destination squares in generation order.
type MoveList struct {
	squares [MaxMoves]Square
	n       int
}

// Add appends sq. Entries beyond capacity are dropped; no piece can produce that many.
func (m *MoveList) Add(sq Square) {
	if m.n < MaxMoves {
		m.squares[m.n] = sq
		m.n++
	}
}

// Len returns the number of destinations.
func (m MoveList) Len() int { return m.n }

// At returns the i-th destination.
func (m MoveList) At(i int) Square { return m.squares[i] }

// Contains reports whether sq is one of the destinations.
func (m MoveList) Contains(sq Square) bool {
	return ContainsMove(m.squares[:m.n], sq)
}

// Squares returns a copy of the destinations.
func (m MoveList) Squares() []Square {
	out := make([]Square, m.n)
	copy(out, m.squares[:m.n])
	return out
}

// Retain keeps only the destinations for which keep returns true, preserving order.
func (m *MoveList) Retain(keep func(Square) bool) {
	j := 0
	for i := 0; i < m.n; i++ {
		if keep(m.squares[i]) {
			m.squares[j] = m.squares[i]
			j++
		}
	}
	m.n = j
}

// Indices converts the destinations to plain ints for transport layers.
func (m MoveList) Indices() []int {
	out := make([]int, m.n)
	for i := 0; i < m.n; i++ {
		out[i] = int(m.squares[i])
	}
	return out
}

// ContainsMove reports whether sq appears in moves.
func ContainsMove(moves []Square, sq Square) bool {
	for _, m := range moves {
		if m == sq {
			return true
		}
	}
	return false
}
