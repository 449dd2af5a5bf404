// Package key defines physical keyboard keys and the table that maps them
// to logical sound keys.
//
// A physical Key identifies a switch on the keyboard regardless of layout
// state (Shift, CapsLock). A logical sound key is the string a sound pack
// uses in its "defines" table; the numbering follows the PC scancode set 1
// convention used by Mechvibes-style packs ("1" for Escape, "57" for Space).
//
// # Mapping
//
// SoundKey is total: keys without an entry in the table map to
// DefaultSoundKey, so every press produces a sound.
//
//	k := key.FromRune('q')   // KeyQ
//	id := key.SoundKey(k)    // "1"
package key
