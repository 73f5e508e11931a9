// Package surface holds the host-side pixel buffer for a 1-bit panel
// and tracks whether its content has been transmitted yet.
package surface

import (
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"
)

// Surface is a fixed-geometry monochrome framebuffer, one bit per
// pixel, MSB first, row-major. Drawing calls mutate it in place and
// mark it dirty; the flush path snapshots it and clears dirtiness
// once the snapshot generation made it onto the wire.
type Surface struct {
	mu sync.Mutex

	w, h   int
	stride int
	pix    []byte

	gen     uint64 // bumped on every mutation
	flushed uint64 // last generation known to be on the panel
}

func New(w, h int) *Surface {
	return &Surface{
		w:      w,
		h:      h,
		stride: w / 8,
		pix:    make([]byte, w*h/8),
	}
}

func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.w, s.h)
}

// Size is the buffer length in bytes.
func (s *Surface) Size() int {
	return len(s.pix)
}

// WriteAt copies raw pixel bytes into the buffer at off. Writes past
// the end are truncated; an offset beyond the buffer or an empty
// effective write is an error.
func (s *Surface) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := int64(len(s.pix))
	if off < 0 || off > total {
		return 0, errors.Errorf("offset %d out of range", off)
	}

	count := int64(len(p))
	if count+off > total {
		count = total - off
	}
	if count == 0 {
		return 0, errors.New("nothing to write")
	}

	copy(s.pix[off:off+count], p[:count])
	s.gen++
	return int(count), nil
}

// Blank clears every pixel.
func (s *Surface) Blank() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.pix {
		s.pix[i] = 0
	}
	s.gen++
}

// Fill sets (or clears) every pixel inside r, clipped to the surface.
func (s *Surface) Fill(r image.Rectangle, on bool) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.setBit(x, y, on)
		}
	}
	s.gen++
}

// Copy replicates the pixels of src at dst. Overlapping regions are
// safe: the source is staged before any destination bit changes.
func (s *Surface) Copy(dst image.Point, src image.Rectangle) {
	src = src.Intersect(s.Bounds())
	if src.Empty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stage := make([]bool, src.Dx()*src.Dy())
	for y := 0; y < src.Dy(); y++ {
		for x := 0; x < src.Dx(); x++ {
			stage[y*src.Dx()+x] = s.bit(src.Min.X+x, src.Min.Y+y)
		}
	}

	bounds := s.Bounds()
	for y := 0; y < src.Dy(); y++ {
		for x := 0; x < src.Dx(); x++ {
			p := image.Pt(dst.X+x, dst.Y+y)
			if !p.In(bounds) {
				continue
			}
			s.setBit(p.X, p.Y, stage[y*src.Dx()+x])
		}
	}
	s.gen++
}

// Blit composites img onto the surface at the given point, thresholding
// each pixel at 50% luminance.
func (s *Surface) Blit(at image.Point, img image.Image) {
	b := img.Bounds()

	s.mu.Lock()
	defer s.mu.Unlock()

	bounds := s.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := image.Pt(at.X+x-b.Min.X, at.Y+y-b.Min.Y)
			if !p.In(bounds) {
				continue
			}
			gray := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			s.setBit(p.X, p.Y, gray.Y >= 0x8000)
		}
	}
	s.gen++
}

// Pixel reports the state of one pixel; off-surface reads are false.
func (s *Surface) Pixel(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !image.Pt(x, y).In(s.Bounds()) {
		return false
	}
	return s.bit(x, y)
}

// Dirty reports whether the buffer changed since the last completed
// flush.
func (s *Surface) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != s.flushed
}

// Snapshot returns a copy of the buffer together with its generation,
// for handing to Flushed after a successful transmission.
func (s *Surface) Snapshot() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]byte, len(s.pix))
	copy(out, s.pix)
	return out, s.gen
}

// Flushed records that the snapshot taken at gen reached the panel.
// Mutations that landed after the snapshot keep the surface dirty.
func (s *Surface) Flushed(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = gen
}

func (s *Surface) bit(x, y int) bool {
	return s.pix[y*s.stride+x/8]&(0x80>>(x&7)) != 0
}

func (s *Surface) setBit(x, y int, on bool) {
	i := y*s.stride + x/8
	mask := byte(0x80 >> (x & 7))
	if on {
		s.pix[i] |= mask
	} else {
		s.pix[i] &^= mask
	}
}
