package proto

// Key is a logical keypad key.
type Key uint8

const (
	KeyEscape Key = iota + 1
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
)

var keyNames = map[Key]string{
	KeyEscape:    "escape",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// KeyEvent is one keypad transition. The panel reports a completed
// press-and-release as a single code, so each code yields a press
// event immediately followed by a release event.
type KeyEvent struct {
	Key     Key
	Pressed bool
}
