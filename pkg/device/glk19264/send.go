package glk19264

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/proto"
)

func (d *Dev) writeCommand(code byte) error {
	d.bus.Lock()
	defer d.bus.Unlock()

	return d.send([]byte{prefix, code})
}

func (d *Dev) writeParam(code byte, value byte) error {
	d.bus.Lock()
	defer d.bus.Unlock()

	return d.send([]byte{prefix, code, value})
}

func (d *Dev) writePayload(bs []byte) error {
	d.bus.Lock()
	defer d.bus.Unlock()

	return d.send(bs)
}

// readParam sends a command and reads its one-byte reply after the
// settle delay. The bus stays locked across the pair. A reply of 0 is
// a valid value; anything other than exactly one byte is not.
func (d *Dev) readParam(code byte) (byte, error) {
	d.bus.Lock()
	defer d.bus.Unlock()

	if err := d.send([]byte{prefix, code}); err != nil {
		return 0, err
	}

	time.Sleep(settleDelay)

	var buf [2]byte
	n, err := d.port.Read(buf[:])
	if err != nil {
		return 0, errors.Wrapf(err, "read %#02x", code)
	}

	switch n {
	case 1:
		return buf[0], nil
	case 0:
		return 0, errors.Wrapf(proto.ErrTimeout, "read %#02x", code)
	default:
		return 0, errors.Wrapf(proto.ErrTransport, "read %#02x: got %d bytes", code, n)
	}
}

func (d *Dev) send(bs []byte) error {
	start := time.Now()
	n, err := d.port.Write(bs)
	if err != nil {
		return err
	}
	if n != len(bs) {
		return errors.Wrapf(proto.ErrTransport, "sent %d of %d bytes", n, len(bs))
	}
	cost := time.Since(start)

	ext := ""
	if len(bs) <= 16 {
		ext = fmt.Sprintf("%x", bs)
	}

	d.logger.With(
		zap.Int("sent", n),
		zap.String("cost", cost.String()),
		zap.String("data", ext),
	).Debug("transfer")

	return nil
}
