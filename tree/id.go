package tree

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID identifies an item by its location in the tree. The zero ID means unset.
type ID uint64

// IDFromPath derives a deterministic ID from an item path using BLAKE2b.
// Identical paths always produce identical IDs.
func IDFromPath(path string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(path))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}
