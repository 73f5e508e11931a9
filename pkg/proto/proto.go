package proto

import (
	"image"
	"io"

	"github.com/pkg/errors"
)

// ErrTransport reports an acknowledged length that differs from the
// requested transfer length.
var ErrTransport = errors.New("transport length mismatch")

// ErrTimeout reports an empty response after the settle window.
var ErrTimeout = errors.New("no response within settle window")

// Port is the byte transport under the command protocol.
type Port interface {
	io.ReadWriteCloser
}

// Control is the panel capability surface. Drawing calls mutate the
// panel's pixel buffer; the device transmits the frame on its own
// schedule, so they never report transmission errors.
type Control interface {
	Startup() error
	Shutdown() error

	WriteAt(p []byte, off int64) (int, error)
	Blank()
	Fill(r image.Rectangle, on bool)
	Copy(dst image.Point, src image.Rectangle)
	Blit(at image.Point, img image.Image)

	Keys() <-chan KeyEvent
}
