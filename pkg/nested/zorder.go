package nested

// interleave spreads the bits of ix into the even positions and iy
// into the odd ones (Morton / z-order encoding, 29 bits each).
func interleave(ix, iy uint64) uint64 {
	return spread(ix) | spread(iy)<<1
}

func deinterleave(m uint64) (ix, iy uint64) {
	return squash(m), squash(m >> 1)
}

func spread(x uint64) uint64 {
	x &= 0x1fffffff
	x = (x | x<<16) & 0x0000ffff0000ffff
	x = (x | x<<8) & 0x00ff00ff00ff00ff
	x = (x | x<<4) & 0x0f0f0f0f0f0f0f0f
	x = (x | x<<2) & 0x3333333333333333
	x = (x | x<<1) & 0x5555555555555555
	return x
}

func squash(x uint64) uint64 {
	x &= 0x5555555555555555
	x = (x | x>>1) & 0x3333333333333333
	x = (x | x>>2) & 0x0f0f0f0f0f0f0f0f
	x = (x | x>>4) & 0x00ff00ff00ff00ff
	x = (x | x>>8) & 0x0000ffff0000ffff
	x = (x | x>>16) & 0x00000000ffffffff
	return x
}
