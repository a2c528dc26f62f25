package vm

// pageBits is the width of the in-page offset; the remaining high bits of
// a 32-bit address select a page. Each page is lazily allocated on first
// write, so the logical 2^32-word address space never needs eager
// allocation.
const (
	pageBits = 16
	pageSize = 1 << pageBits
)

// Memory is the processor's main memory: a sparse, word-addressed array of
// 2^32 32-bit words. Reads of a page that was never written return 0.
type Memory struct {
	pages map[uint32]*[pageSize]uint32
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint32]*[pageSize]uint32)}
}

func split(addr uint32) (page, offset uint32) {
	return addr >> pageBits, addr & (pageSize - 1)
}

// Read returns the word at addr, or 0 if that address was never written.
func (m *Memory) Read(addr uint32) uint32 {
	page, offset := split(addr)
	p, ok := m.pages[page]
	if !ok {
		return 0
	}
	return p[offset]
}

// Write stores value at addr, allocating the backing page if needed.
func (m *Memory) Write(addr, value uint32) {
	page, offset := split(addr)
	p, ok := m.pages[page]
	if !ok {
		p = &[pageSize]uint32{}
		m.pages[page] = p
	}
	p[offset] = value
}

// LoadProgram writes words contiguously into memory starting at address 0.
func (m *Memory) LoadProgram(words []uint32) {
	for i, w := range words {
		m.Write(uint32(i), w)
	}
}
