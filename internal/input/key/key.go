package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Key identifies a physical keyboard key.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Number row
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Punctuation
	KeyBackQuote
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackSlash
	KeySemiColon
	KeyQuote
	KeyComma
	KeyDot
	KeySlash

	// Whitespace and editing
	KeySpace
	KeyReturn
	KeyTab
	KeyBackspace
	KeyEscape
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrows
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Modifiers and locks
	KeyShiftLeft
	KeyShiftRight
	KeyControlLeft
	KeyControlRight
	KeyAlt
	KeyAltGr
	KeyMetaLeft
	KeyMetaRight
	KeyCapsLock
	KeyNumLock
	KeyScrollLock

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyPrintScreen
	KeyPause

	// Keypad
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPPlus
	KeyKPMinus
	KeyKPMultiply
	KeyKPDivide
	KeyKPDelete
	KeyKPReturn

	// keyCount is the number of defined keys. Keep last.
	keyCount
)

var keyNames = [keyCount]string{
	KeyNone: "None",
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyBackQuote:    "BackQuote",
	KeyMinus:        "Minus",
	KeyEqual:        "Equal",
	KeyLeftBracket:  "LeftBracket",
	KeyRightBracket: "RightBracket",
	KeyBackSlash:    "BackSlash",
	KeySemiColon:    "SemiColon",
	KeyQuote:        "Quote",
	KeyComma:        "Comma",
	KeyDot:          "Dot",
	KeySlash:        "Slash",
	KeySpace:        "Space",
	KeyReturn:       "Return",
	KeyTab:          "Tab",
	KeyBackspace:    "Backspace",
	KeyEscape:       "Escape",
	KeyDelete:       "Delete",
	KeyInsert:       "Insert",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyPageUp:       "PageUp",
	KeyPageDown:     "PageDown",
	KeyUp:           "Up",
	KeyDown:         "Down",
	KeyLeft:         "Left",
	KeyRight:        "Right",
	KeyShiftLeft:    "ShiftLeft",
	KeyShiftRight:   "ShiftRight",
	KeyControlLeft:  "ControlLeft",
	KeyControlRight: "ControlRight",
	KeyAlt:          "Alt",
	KeyAltGr:        "AltGr",
	KeyMetaLeft:     "MetaLeft",
	KeyMetaRight:    "MetaRight",
	KeyCapsLock:     "CapsLock",
	KeyNumLock:      "NumLock",
	KeyScrollLock:   "ScrollLock",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4",
	KeyF5: "F5", KeyF6: "F6", KeyF7: "F7", KeyF8: "F8",
	KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyPrintScreen: "PrintScreen",
	KeyPause:       "Pause",
	KeyKP0: "KP0", KeyKP1: "KP1", KeyKP2: "KP2", KeyKP3: "KP3", KeyKP4: "KP4",
	KeyKP5: "KP5", KeyKP6: "KP6", KeyKP7: "KP7", KeyKP8: "KP8", KeyKP9: "KP9",
	KeyKPPlus:     "KP+",
	KeyKPMinus:    "KP-",
	KeyKPMultiply: "KP*",
	KeyKPDivide:   "KP/",
	KeyKPDelete:   "KP.",
	KeyKPReturn:   "KPReturn",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsLetter returns true for A-Z.
func (k Key) IsLetter() bool {
	return k >= KeyA && k <= KeyZ
}

// IsModifier returns true for Shift, Control, Alt and Meta keys.
func (k Key) IsModifier() bool {
	return k >= KeyShiftLeft && k <= KeyMetaRight
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsKeypadKey returns true if this is a keypad key.
func (k Key) IsKeypadKey() bool {
	return k >= KeyKP0 && k <= KeyKPReturn
}

// nameAliases adds spellings that differ from String().
var nameAliases = map[string]Key{
	"enter":     KeyReturn,
	"cr":        KeyReturn,
	"bs":        KeyBackspace,
	"esc":       KeyEscape,
	"del":       KeyDelete,
	"ins":       KeyInsert,
	"pgup":      KeyPageUp,
	"pgdn":      KeyPageDown,
	"shift":     KeyShiftLeft,
	"ctrl":      KeyControlLeft,
	"control":   KeyControlLeft,
	"meta":      KeyMetaLeft,
	"super":     KeyMetaLeft,
	"backtick":  KeyBackQuote,
	"period":    KeyDot,
	"semicolon": KeySemiColon,
}

var keyNameMap = func() map[string]Key {
	m := make(map[string]Key, int(keyCount)+len(nameAliases))
	for k := KeyNone; k < keyCount; k++ {
		m[strings.ToLower(keyNames[k])] = k
	}
	for name, k := range nameAliases {
		m[name] = k
	}
	return m
}()

// FromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func FromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}

// runeKeys maps unshifted and shifted US-layout characters to the key
// that produces them.
var runeKeys = map[rune]Key{
	' ': KeySpace,
	'`': KeyBackQuote, '~': KeyBackQuote,
	'-': KeyMinus, '_': KeyMinus,
	'=': KeyEqual, '+': KeyEqual,
	'[': KeyLeftBracket, '{': KeyLeftBracket,
	']': KeyRightBracket, '}': KeyRightBracket,
	'\\': KeyBackSlash, '|': KeyBackSlash,
	';': KeySemiColon, ':': KeySemiColon,
	'\'': KeyQuote, '"': KeyQuote,
	',': KeyComma, '<': KeyComma,
	'.': KeyDot, '>': KeyDot,
	'/': KeySlash, '?': KeySlash,
	'!': Key1, '@': Key2, '#': Key3, '$': Key4, '%': Key5,
	'^': Key6, '&': Key7, '*': Key8, '(': Key9, ')': Key0,
}

// FromRune returns the physical key that produces r on a US layout.
// Letters match regardless of case. Returns KeyNone for anything else.
func FromRune(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A')
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0')
	}
	if k, ok := runeKeys[r]; ok {
		return k
	}
	if unicode.IsSpace(r) {
		return KeySpace
	}
	return KeyNone
}
