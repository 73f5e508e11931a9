package virtual

import (
	"image"

	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/proto"
)

func Mock(logger *zap.Logger) proto.Control {
	return &Mocker{l: logger, keys: make(chan proto.KeyEvent)}
}

type Mocker struct {
	l    *zap.Logger
	keys chan proto.KeyEvent
}

func (m *Mocker) Startup() error {
	m.l.Info("startup")
	return nil
}

func (m *Mocker) Shutdown() error {
	m.l.Info("shutdown")
	return nil
}

func (m *Mocker) WriteAt(p []byte, off int64) (int, error) {
	m.l.With(zap.Int("len", len(p)), zap.Int64("off", off)).Info("write-at")
	return len(p), nil
}

func (m *Mocker) Blank() {
	m.l.Info("blank")
}

func (m *Mocker) Fill(r image.Rectangle, on bool) {
	m.l.With(zap.Stringer("rect", r), zap.Bool("on", on)).Info("fill")
}

func (m *Mocker) Copy(dst image.Point, src image.Rectangle) {
	m.l.With(zap.Stringer("dst", dst), zap.Stringer("src", src)).Info("copy")
}

func (m *Mocker) Blit(at image.Point, img image.Image) {
	m.l.With(
		zap.Stringer("at", at),
		zap.Int("w", img.Bounds().Dx()),
		zap.Int("h", img.Bounds().Dy()),
	).Info("blit")
}

func (m *Mocker) Keys() <-chan proto.KeyEvent {
	return m.keys
}
