package bitmap

const (
	prefix     = 0xFE
	drawBitmap = 0x64
)

// ReverseBits mirrors the bit order of b. The panel scans columns with
// the opposite bit significance from the host's MSB-first packing.
func ReverseBits(b byte) byte {
	b = b&0xF0>>4 | b&0x0F<<4
	b = b&0xCC>>2 | b&0x33<<2
	b = b&0xAA>>1 | b&0x55<<1
	return b
}

// Encode transcodes host pixel bytes into wire order. Output length
// equals input length; bytes keep their positions, only bits move.
func Encode(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i, b := range pix {
		out[i] = ReverseBits(b)
	}
	return out
}

// Frame builds a complete draw-bitmap transmission for a w by h
// one-bit surface: a 6-byte header followed by the encoded payload.
func Frame(w, h int, pix []byte) []byte {
	out := make([]byte, 6, 6+len(pix))
	out[0] = prefix
	out[1] = drawBitmap
	out[2] = 0
	out[3] = 0
	out[4] = byte(w)
	out[5] = byte(h)
	return append(out, Encode(pix)...)
}
