package glk19264

import (
	"time"

	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/bitmap"
)

// flushLoop rate-limits full-frame transmissions: drawing calls only
// mark the surface dirty, and at most one frame per tick goes out, so
// any number of mutations within one interval coalesce.
func (d *Dev) flushLoop() {
	defer d.done.Done()

	ticker := time.NewTicker(d.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.flushOnce()
		}
	}
}

// flushOnce sends the whole current surface as one contiguous
// header+payload write. On failure the surface stays dirty and the
// next tick naturally resends it.
func (d *Dev) flushOnce() {
	if !d.surface.Dirty() {
		return
	}

	pix, gen := d.surface.Snapshot()
	frame := bitmap.Frame(Width, Height, pix)

	if err := d.writePayload(frame); err != nil {
		d.logger.With(zap.Error(err)).Info("flush failed")
		return
	}

	d.surface.Flushed(gen)
}
