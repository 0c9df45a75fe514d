package cache

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Key derives the cache key for one compiled artifact: BLAKE3 of the
// artifact's type tag followed by its input bytes in order.
// kind identifies what is being cached ("spirv", "hlsl", "glsl", "msl",
// "wgsl", "dxil"); inputs are hashed in the order given, each prefixed
// with its own length so two differently-split concatenations never
// collide.
func Key(kind string, inputs ...[]byte) []byte {
	h := blake3.New()
	writeFramed(h, []byte(kind))
	for _, in := range inputs {
		writeFramed(h, in)
	}
	return h.Sum(nil)
}

func writeFramed(h *blake3.Hasher, b []byte) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(b)))
	h.Write(length[:])
	h.Write(b)
}
