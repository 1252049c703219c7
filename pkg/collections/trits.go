package collections

// ============================================================================
// TritVector - base-3 packed array, for algorithms that need {0,1,2} cells
// ============================================================================

// tritCellSize is the number of base-3 digits packed into one uint16 cell.
// 3^10 = 59049 < 65536 <= 3^11, so 10 trits is the most that fits losslessly.
const tritCellSize = 10

var pow3Table = [tritCellSize + 1]uint16{}

func init() {
	pow3Table[0] = 1
	for i := 1; i <= tritCellSize; i++ {
		pow3Table[i] = pow3Table[i-1] * 3
	}
}

// TritVector is a memory-efficient array of base-3 digits (values 0, 1, 2),
// packed tritCellSize-per-uint16 the way Bitset packs 64 bools per uint64.
type TritVector struct {
	cells []uint16
	size  int
}

// NewTritVector creates a TritVector with size trits, all initialized to 0.
func NewTritVector(size int) *TritVector {
	if size <= 0 {
		size = tritCellSize
	}
	numCells := (size-1)/tritCellSize + 1
	return &TritVector{
		cells: make([]uint16, numCells),
		size:  size,
	}
}

// Get returns the trit at index i (0, 1, or 2).
func (t *TritVector) Get(i int) uint8 {
	cell := t.cells[i/tritCellSize]
	return uint8(cell / pow3Table[i%tritCellSize] % 3)
}

// Set overwrites the trit at index i.
func (t *TritVector) Set(i int, v uint8) {
	cellIdx := i / tritCellSize
	place := pow3Table[i%tritCellSize]
	cur := uint16(t.cells[cellIdx] / place % 3)
	t.cells[cellIdx] += (uint16(v) - cur) * place
}

// Size returns the number of trits the vector holds.
func (t *TritVector) Size() int {
	return t.size
}

// Clone returns an independent copy of t.
func (t *TritVector) Clone() *TritVector {
	cells := make([]uint16, len(t.cells))
	copy(cells, t.cells)
	return &TritVector{cells: cells, size: t.size}
}

// Equal reports whether two TritVectors hold the same trits.
func (t *TritVector) Equal(o *TritVector) bool {
	if t.size != o.size || len(t.cells) != len(o.cells) {
		return false
	}
	for i := range t.cells {
		if t.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Key returns a value suitable for use as a map key, summarizing the whole
// vector's contents (the packed cells themselves, as a string).
func (t *TritVector) Key() string {
	buf := make([]byte, len(t.cells)*2)
	for i, c := range t.cells {
		buf[2*i] = byte(c)
		buf[2*i+1] = byte(c >> 8)
	}
	return string(buf)
}
