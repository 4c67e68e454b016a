// Package audio implements the sample-accurate editing engine for voice
// takes: an immutable multi-channel PCM buffer, trim and silence-padding
// transforms, and the canonical 16-bit PCM WAV container codec.
//
// Every operation returns a freshly allocated buffer and never mutates its
// input, so independent edits are safe to run concurrently.
package audio
