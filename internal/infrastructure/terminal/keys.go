package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/timewarp/internal/application/session"
)

// DefaultHoldTimeout is how long a key counts as held after its last
// press or auto-repeat event
const DefaultHoldTimeout = 150 * time.Millisecond

// Action is what a terminal key event asks of the driver
type Action int

const (
	ActionNone Action = iota
	ActionKey
	ActionQuit
)

var specialKeys = map[tcell.Key]session.Key{
	tcell.KeyUp:     session.KeyUp,
	tcell.KeyLeft:   session.KeyLeft,
	tcell.KeyRight:  session.KeyRight,
	tcell.KeyEscape: session.KeyPause,
}

var runeKeys = map[rune]session.Key{
	' ': session.KeyJump,
	's': session.KeyWarp,
	'a': session.KeyBankDown,
	'd': session.KeyBankUp,
	'r': session.KeyRestart,
}

// MapKey translates a tcell key event into a session key
func MapKey(key tcell.Key, ch rune) (session.Key, Action) {
	switch key {
	case tcell.KeyCtrlC:
		return 0, ActionQuit
	case tcell.KeyRune:
		if ch == 'q' {
			return 0, ActionQuit
		}
		if k, ok := runeKeys[ch]; ok {
			return k, ActionKey
		}
		return 0, ActionNone
	}
	if k, ok := specialKeys[key]; ok {
		return k, ActionKey
	}
	return 0, ActionNone
}

// Keys turns the press-only terminal event stream into press and release
// edges. A key is released once no event for it arrived within the
// timeout.
type Keys struct {
	timeout time.Duration
	held    map[session.Key]time.Time
}

func NewKeys(timeout time.Duration) *Keys {
	return &Keys{timeout: timeout, held: make(map[session.Key]time.Time)}
}

// Press records an event for k and reports whether it starts a new hold
func (k *Keys) Press(key session.Key, now time.Time) bool {
	_, held := k.held[key]
	k.held[key] = now
	return !held
}

// Expire returns the keys whose hold timed out, in key order
func (k *Keys) Expire(now time.Time) []session.Key {
	var released []session.Key
	for key := session.KeyJump; key <= session.KeyPause; key++ {
		last, ok := k.held[key]
		if ok && now.Sub(last) >= k.timeout {
			delete(k.held, key)
			released = append(released, key)
		}
	}
	return released
}

// Held reports whether key is currently held
func (k *Keys) Held(key session.Key) bool {
	_, ok := k.held[key]
	return ok
}

// Reset forgets every held key
func (k *Keys) Reset() { clear(k.held) }
