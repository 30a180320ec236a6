package typetree

import "sync"

const maxPooledEncodeBuf = 1 << 20

var encodeBufPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 4096)
	},
}

func releaseEncodeBuf(b []byte) {
	if cap(b) > maxPooledEncodeBuf {
		return
	}
	encodeBufPool.Put(b[:0])
}
