// Package glk19264 drives a Matrix Orbital GLK19264 display panel and
// its keypad over a shared serial command bus.
package glk19264

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/proto"
	"github.com/unomano/matrixorbital/pkg/surface"
)

const (
	PollKeyPress   = 0x26
	ReadModuleType = 0x37
	AutoTxKeyOff   = 0x4F
	ClearScreen    = 0x58
	DrawBitmap     = 0x64
	TxProtocol     = 0xA0
)

const (
	Width  = 192
	Height = 64
)

const (
	prefix           = 0xFE
	txProtocolSerial = 1
)

// The device needs a fixed pause between a command and its one-byte
// reply. This is controller latency, not a tunable.
const settleDelay = 5 * time.Millisecond

// Open connects to the panel on the named serial port.
func Open(name string, logger *zap.Logger, opts ...Option) (*Dev, error) {
	serial := proto.NewSerial(name)
	if err := serial.Open(&proto.Options{
		DTR:         true,
		RTS:         true,
		BaudRate:    19200,
		ReadTimeout: 50 * time.Millisecond,
	}); err != nil {
		return nil, err
	}
	return New(serial, logger, opts...), nil
}

// New builds a device over an already-open transport.
func New(port proto.Port, logger *zap.Logger, opts ...Option) *Dev {
	d := &Dev{
		port:       port,
		logger:     logger,
		surface:    surface.New(Width, Height),
		flushEvery: time.Second / 5,
		pollEvery:  500 * time.Millisecond,
		keyBuffer:  16,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.pollEvery < 100*time.Millisecond {
		d.pollEvery = 100 * time.Millisecond
	}
	if d.pollEvery > time.Second {
		d.pollEvery = time.Second
	}

	d.keys = make(chan proto.KeyEvent, d.keyBuffer)
	return d
}

type Dev struct {
	port    proto.Port
	logger  *zap.Logger
	surface *surface.Surface

	// bus serializes command/response traffic: the protocol has no
	// transaction ids, so a flush and a poll must never interleave.
	bus sync.Mutex

	flushEvery time.Duration
	pollEvery  time.Duration
	keyBuffer  int

	keys chan proto.KeyEvent
	stop chan struct{}
	done sync.WaitGroup
}

// Startup runs the panel bring-up sequence and starts the flush and
// keypad loops. Only the clear-screen step is fatal.
func (d *Dev) Startup() error {
	if err := d.writeParam(TxProtocol, txProtocolSerial); err != nil {
		d.logger.With(zap.Error(err)).Info("tx protocol select failed")
	}

	if model, err := d.readParam(ReadModuleType); err != nil {
		d.logger.With(zap.Error(err)).Info("module type read failed")
	} else {
		d.logger.With(zap.String("model", fmt.Sprintf("%#02x", model))).Info("module type")
	}

	// polling stays the only key delivery path
	if err := d.writeCommand(AutoTxKeyOff); err != nil {
		d.logger.With(zap.Error(err)).Info("auto key push disable failed")
	}

	if err := d.writeCommand(ClearScreen); err != nil {
		return errors.Wrap(err, "clear screen")
	}

	d.stop = make(chan struct{})
	d.done.Add(2)
	go d.flushLoop()
	go d.keypadLoop()
	return nil
}

// Shutdown stops the loops and blanks the panel best-effort.
func (d *Dev) Shutdown() error {
	if d.stop != nil {
		close(d.stop)
		d.done.Wait()
		d.stop = nil
	}

	if err := d.writeCommand(ClearScreen); err != nil {
		d.logger.With(zap.Error(err)).Info("clear screen failed")
	}
	return nil
}

// Close releases the transport. Call Shutdown first to stop the
// loops and blank the panel.
func (d *Dev) Close() error {
	return d.port.Close()
}

// Surface exposes the pixel buffer for direct drawing.
func (d *Dev) Surface() *surface.Surface {
	return d.surface
}

func (d *Dev) WriteAt(p []byte, off int64) (int, error) {
	return d.surface.WriteAt(p, off)
}

func (d *Dev) Blank() {
	d.surface.Blank()
}

func (d *Dev) Fill(r image.Rectangle, on bool) {
	d.surface.Fill(r, on)
}

func (d *Dev) Copy(dst image.Point, src image.Rectangle) {
	d.surface.Copy(dst, src)
}

func (d *Dev) Blit(at image.Point, img image.Image) {
	d.surface.Blit(at, img)
}

func (d *Dev) Keys() <-chan proto.KeyEvent {
	return d.keys
}
