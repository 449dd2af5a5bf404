// Package audio turns encoded samples into sound.
//
// An Output is the process-wide audio device. It hands out Voices, each an
// independent playback stream that plays queued PCM in order. The Pool owns
// a fixed set of voices and assigns each new sound to the next voice in
// round-robin order, so a burst of key presses overlaps instead of cutting
// earlier sounds off.
//
// Decoding happens on the caller's goroutine; a Voice only ever receives
// 16-bit little-endian stereo PCM at the output's sample rate.
package audio
