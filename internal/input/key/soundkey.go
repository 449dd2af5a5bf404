package key

// DefaultSoundKey is the logical key used for physical keys that have no
// entry in the sound key table.
const DefaultSoundKey = "1"

// soundKeys is indexed by Key. Empty entries fall back to DefaultSoundKey.
var soundKeys = [keyCount]string{
	KeyQ: "1",
	KeyW: "2",
	KeyE: "3",
	KeyR: "5",
	KeyT: "6",
	KeyY: "7",
	KeyU: "8",
	KeyI: "9",
	KeyO: "10",
	KeyP: "11",
	KeyA: "30",
	KeyS: "31",
	KeyD: "32",
	KeyF: "33",
	KeyG: "34",
	KeyH: "35",
	KeyJ: "36",
	KeyK: "37",
	KeyL: "38",
	KeyZ: "44",
	KeyX: "45",
	KeyC: "46",
	KeyV: "47",
	KeyB: "48",
	KeyN: "49",
	KeyM: "50",

	KeySpace:      "57",
	KeyReturn:     "28",
	KeyBackspace:  "14",
	KeyTab:        "15",
	KeyCapsLock:   "58",
	KeyShiftLeft:  "42",
	KeyShiftRight: "42",
}

// SoundKey returns the logical sound key for a physical key.
// It never fails: unmapped keys return DefaultSoundKey.
func SoundKey(k Key) string {
	if k < keyCount {
		if s := soundKeys[k]; s != "" {
			return s
		}
	}
	return DefaultSoundKey
}

// Mapped reports whether k has its own entry in the sound key table.
func Mapped(k Key) bool {
	return k < keyCount && soundKeys[k] != ""
}
