package source

import "fortio.org/safecast"

const maxUint32 = ^uint32(0)

// Uint32 converts a length or index to uint32, saturating instead of wrapping.
func Uint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

func buildLineStarts(text string) []uint32 {
	out := make([]uint32, 1, len(text)/32+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, Uint32(i+1))
		}
	}
	return out
}
