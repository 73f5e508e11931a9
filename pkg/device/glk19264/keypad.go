package glk19264

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/proto"
)

var keymap = map[byte]proto.Key{
	0x41: proto.KeyEscape,
	0x42: proto.KeyUp,
	0x43: proto.KeyRight,
	0x44: proto.KeyLeft,
	0x45: proto.KeyEnter,
	0x47: proto.KeyBackspace,
	0x48: proto.KeyDown,
}

func (d *Dev) keypadLoop() {
	defer d.done.Done()

	ticker := time.NewTicker(d.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.pollKeypad()
		}
	}
}

// pollKeypad drains one burst of queued key codes. Each reply carries
// a key code in the low 7 bits; the high bit says more codes are
// queued, so the drain continues without waiting for the next tick.
// A zero reply or any transport error ends the burst.
func (d *Dev) pollKeypad() {
	for {
		v, err := d.readParam(PollKeyPress)
		if err != nil {
			d.logger.With(zap.Error(err)).Debug("key poll failed")
			return
		}
		if v == 0 {
			return
		}

		d.reportKey(v & 0x7F)

		if v&0x80 == 0 {
			return
		}
	}
}

// reportKey emits a press then a release for one device code. The
// panel reports a single value per completed press-and-release, so
// the release is synthesized.
func (d *Dev) reportKey(code byte) {
	key, ok := keymap[code]
	if !ok {
		d.logger.With(zap.String("code", fmt.Sprintf("%#02x", code))).Info("unknown key code")
		return
	}

	d.emit(proto.KeyEvent{Key: key, Pressed: true})
	d.emit(proto.KeyEvent{Key: key, Pressed: false})
}

func (d *Dev) emit(ev proto.KeyEvent) {
	select {
	case d.keys <- ev:
	default:
		d.logger.With(zap.String("key", ev.Key.String())).Debug("key event dropped")
	}
}
