package chain

import "fmt"

// Block is one 16-byte cipher block
type Block [BlockSize]byte

func xorBlocks(a, b Block) Block {
	var out Block
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// arena owns the blocks of a message. Blocks are addressed by index and
// copied in and out, so no caller ever holds a slice into another block.
type arena struct {
	blocks []Block
}

func newArena(n int) *arena {
	return &arena{blocks: make([]Block, n)}
}

// arenaFromBytes splits b into blocks. len(b) must be a multiple of 16.
func arenaFromBytes(b []byte) (*arena, error) {
	if len(b)%BlockSize != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of %d", len(b), BlockSize)
	}
	a := newArena(len(b) / BlockSize)
	for i := range a.blocks {
		copy(a.blocks[i][:], b[i*BlockSize:])
	}
	return a, nil
}

func (a *arena) len() int {
	return len(a.blocks)
}

func (a *arena) at(i int) Block {
	return a.blocks[i]
}

func (a *arena) set(i int, b Block) {
	a.blocks[i] = b
}

// bytes flattens blocks [from, len) into a new slice
func (a *arena) bytes(from int) []byte {
	out := make([]byte, 0, (len(a.blocks)-from)*BlockSize)
	for _, b := range a.blocks[from:] {
		out = append(out, b[:]...)
	}
	return out
}

func (a *arena) wipe() {
	for i := range a.blocks {
		a.blocks[i] = Block{}
	}
}
