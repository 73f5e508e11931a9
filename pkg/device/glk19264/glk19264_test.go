package glk19264

import (
	"bytes"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/proto"
)

// fakePort scripts the device side of the bus: writes are recorded,
// each Read pops one prepared reply.
type fakePort struct {
	mu     sync.Mutex
	writes [][]byte
	reads  [][]byte

	failWhen func(p []byte) bool // short-write injection
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWhen != nil && f.failWhen(p) {
		return len(p) - 1, nil
	}

	cp := make([]byte, len(p))
	copy(cp, p)
	f.writes = append(f.writes, cp)
	return len(p), nil
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.reads) == 0 {
		return 0, nil
	}
	next := f.reads[0]
	f.reads = f.reads[1:]
	return copy(p, next), nil
}

func (f *fakePort) Close() error {
	return nil
}

func (f *fakePort) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.writes...)
}

func newTestDev(port proto.Port, opts ...Option) *Dev {
	return New(port, zap.NewNop(), opts...)
}

func drainKeys(d *Dev) []proto.KeyEvent {
	var evs []proto.KeyEvent
	for {
		select {
		case ev := <-d.Keys():
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestReadParamValue(t *testing.T) {
	port := &fakePort{reads: [][]byte{{0x15}}}
	d := newTestDev(port)

	v, err := d.readParam(ReadModuleType)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x15 {
		t.Errorf("readParam = %#02x, want 0x15", v)
	}

	writes := port.written()
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte{0xFE, 0x37}) {
		t.Errorf("request = %x, want fe37", writes)
	}
}

func TestReadParamZeroIsAValue(t *testing.T) {
	port := &fakePort{reads: [][]byte{{0x00}}}
	d := newTestDev(port)

	v, err := d.readParam(PollKeyPress)
	if err != nil {
		t.Fatalf("zero reply must not be an error, got %v", err)
	}
	if v != 0 {
		t.Errorf("readParam = %#02x, want 0", v)
	}
}

func TestReadParamTwoBytes(t *testing.T) {
	port := &fakePort{reads: [][]byte{{0x12, 0x34}}}
	d := newTestDev(port)

	if _, err := d.readParam(PollKeyPress); !errors.Is(err, proto.ErrTransport) {
		t.Errorf("two-byte reply: err = %v, want ErrTransport", err)
	}
}

func TestReadParamNoReply(t *testing.T) {
	port := &fakePort{}
	d := newTestDev(port)

	if _, err := d.readParam(PollKeyPress); !errors.Is(err, proto.ErrTimeout) {
		t.Errorf("empty reply: err = %v, want ErrTimeout", err)
	}
}

func TestShortWrite(t *testing.T) {
	port := &fakePort{failWhen: func([]byte) bool { return true }}
	d := newTestDev(port)

	if err := d.writeCommand(ClearScreen); !errors.Is(err, proto.ErrTransport) {
		t.Errorf("short write: err = %v, want ErrTransport", err)
	}
}

func TestStartupSequence(t *testing.T) {
	port := &fakePort{reads: [][]byte{{0x15}}}
	d := newTestDev(port)

	if err := d.Startup(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = d.Shutdown() }()

	want := [][]byte{
		{0xFE, 0xA0, 0x01},
		{0xFE, 0x37},
		{0xFE, 0x4F},
		{0xFE, 0x58},
	}
	writes := port.written()
	if len(writes) < len(want) {
		t.Fatalf("got %d writes, want at least %d", len(writes), len(want))
	}
	for i, w := range want {
		if !bytes.Equal(writes[i], w) {
			t.Errorf("write %d = %x, want %x", i, writes[i], w)
		}
	}
}

func TestStartupSurvivesModelReadFailure(t *testing.T) {
	// no reads prepared: the model read times out
	port := &fakePort{}
	d := newTestDev(port)

	if err := d.Startup(); err != nil {
		t.Fatalf("model read failure must not abort startup: %v", err)
	}
	if err := d.Shutdown(); err != nil {
		t.Fatal(err)
	}
}

func TestStartupFatalOnClearScreen(t *testing.T) {
	port := &fakePort{
		reads:    [][]byte{{0x15}},
		failWhen: func(p []byte) bool { return len(p) == 2 && p[1] == ClearScreen },
	}
	d := newTestDev(port)

	err := d.Startup()
	if err == nil {
		t.Fatal("clear-screen failure must abort startup")
	}
	if !errors.Is(err, proto.ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
}

func TestShutdownClearsScreen(t *testing.T) {
	port := &fakePort{}
	d := newTestDev(port)

	if err := d.Shutdown(); err != nil {
		t.Fatal(err)
	}

	writes := port.written()
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte{0xFE, 0x58}) {
		t.Errorf("teardown writes = %x, want a single fe58", writes)
	}
}
