package remote

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/unomano/matrixorbital/pkg/proto"
)

type stubControl struct {
	wrote []byte
	off   int64
	blits []image.Point
	keys  chan proto.KeyEvent
}

func (s *stubControl) Startup() error  { return nil }
func (s *stubControl) Shutdown() error { return nil }

func (s *stubControl) WriteAt(p []byte, off int64) (int, error) {
	s.wrote = append([]byte(nil), p...)
	s.off = off
	return len(p), nil
}

func (s *stubControl) Blank()                                    {}
func (s *stubControl) Fill(r image.Rectangle, on bool)           {}
func (s *stubControl) Copy(dst image.Point, src image.Rectangle) {}
func (s *stubControl) Blit(at image.Point, img image.Image)      { s.blits = append(s.blits, at) }
func (s *stubControl) Keys() <-chan proto.KeyEvent               { return s.keys }

func TestServiceWriteAt(t *testing.T) {
	stub := &stubControl{keys: make(chan proto.KeyEvent, 4)}
	svc := &Service{dev: stub}

	var resp WriteAtResponse
	if err := svc.WriteAt(&WriteAtRequest{Off: 7, Data: []byte{1, 2}}, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.N != 2 || stub.off != 7 || !bytes.Equal(stub.wrote, []byte{1, 2}) {
		t.Errorf("forwarded n=%d off=%d data=%x", resp.N, stub.off, stub.wrote)
	}
}

func TestServiceBlit(t *testing.T) {
	stub := &stubControl{keys: make(chan proto.KeyEvent, 4)}
	svc := &Service{dev: stub}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}

	req := &BlitRequest{At: image.Pt(3, 4), Image: buf.Bytes()}
	if err := svc.Blit(req, &EmptyResponse{}); err != nil {
		t.Fatal(err)
	}
	if len(stub.blits) != 1 || stub.blits[0] != image.Pt(3, 4) {
		t.Errorf("blits = %v", stub.blits)
	}

	if err := svc.Blit(&BlitRequest{Image: []byte("junk")}, &EmptyResponse{}); err == nil {
		t.Error("non-PNG payload must fail")
	}
}

func TestServiceDrainKeys(t *testing.T) {
	stub := &stubControl{keys: make(chan proto.KeyEvent, 4)}
	svc := &Service{dev: stub}

	stub.keys <- proto.KeyEvent{Key: proto.KeyEnter, Pressed: true}
	stub.keys <- proto.KeyEvent{Key: proto.KeyEnter, Pressed: false}

	var events []proto.KeyEvent
	if err := svc.DrainKeys(32, &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Key != proto.KeyEnter || !events[0].Pressed {
		t.Errorf("events = %v", events)
	}

	events = nil
	if err := svc.DrainKeys(32, &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("empty queue drained %v", events)
	}
}

func TestServiceUnknownCommand(t *testing.T) {
	svc := &Service{dev: &stubControl{}}
	if err := svc.Command("reboot", &EmptyResponse{}); err == nil {
		t.Error("unknown command must fail")
	}
}
