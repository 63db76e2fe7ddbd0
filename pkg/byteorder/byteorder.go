// Package byteorder detects the host's endianness and swaps code
// units in place, the way mmoore::byteswap.hpp did for the original
// engine's 16-bit reads.
package byteorder

import (
	"unsafe"

	"github.com/relmoore/relmoore/pkg/unit"
)

// Endianness identifies a byte order.
type Endianness int

const (
	Little Endianness = iota
	Big
)

func (e Endianness) String() string {
	if e == Big {
		return "Big"
	}
	return "Little"
}

// Host returns the endianness of the running machine, detected once by
// inspecting the byte layout of a known integer.
func Host() Endianness {
	var probe uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 1 {
		return Little
	}
	return Big
}

// swap16 reverses the two bytes of v.
func swap16(v uint16) uint16 {
	return (v << 8) | (v >> 8)
}

// Adjust swaps every element of buf in place when the host's
// endianness differs from desired. For 8-bit code units this is
// always a no-op.
func Adjust[T unit.Type](buf []T, desired Endianness) {
	if unit.Size[T]() == 1 {
		return
	}
	if Host() == desired {
		return
	}
	for i, v := range buf {
		buf[i] = T(swap16(uint16(v)))
	}
}
