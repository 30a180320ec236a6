package typetree

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendRaw(buf []byte, chunk []byte) []byte {
	n := len(chunk)
	off, buf := grow(buf, n)
	copy(buf[off:], chunk)
	return buf
}

func appendZeros(buf []byte, n int) []byte {
	off, buf := grow(buf, n)
	clear(buf[off:])
	return buf
}

// padding returns the number of bytes needed to bring off to a multiple
// of n.
func padding(off, n int) int {
	if rem := off % n; rem != 0 {
		return n - rem
	}
	return 0
}
